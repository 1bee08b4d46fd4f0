// Copyright 2025 Silo Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package ledger

import (
	"fmt"
)

// VerifyReport is the result of auditing a chain.
type VerifyReport struct {
	Reason           string `json:"reason,omitempty"`
	Blocks           int    `json:"blocks"`
	FirstBrokenIndex int    `json:"firstBrokenIndex"`
	OK               bool   `json:"ok"`
}

// Verify audits a full chain: sequence numbers must increase by one
// from 1, each block's previous hash must match its predecessor's
// hash, and every content digest must recompute to the stored value.
// The report names the first broken block; an empty chain is valid.
func Verify(blocks []Block) VerifyReport {
	report := VerifyReport{
		OK:               true,
		Blocks:           len(blocks),
		FirstBrokenIndex: -1,
	}
	fail := func(index int, reason string) VerifyReport {
		report.OK = false
		report.FirstBrokenIndex = index
		report.Reason = reason
		return report
	}
	for i, block := range blocks {
		wantSeq := uint64(i) + 1 // #nosec G115
		if block.Sequence != wantSeq {
			return fail(i, fmt.Sprintf(
				"sequence %d, expected %d",
				block.Sequence,
				wantSeq,
			))
		}
		if i == 0 {
			if block.PrevHash != "" {
				return fail(i, "genesis block has a previous hash")
			}
		} else if block.PrevHash != blocks[i-1].Hash {
			return fail(i, "previous hash does not match prior block")
		}
		payloadJSON, err := canonicalPayload(block.Payload)
		if err != nil {
			return fail(i, "payload cannot be encoded")
		}
		computed := ComputeHash(
			block.Sequence,
			block.Timestamp,
			block.Actor,
			block.ActorRole,
			block.Location,
			payloadJSON,
			block.PrevHash,
		)
		if computed != block.Hash {
			return fail(i, "content digest mismatch")
		}
	}
	return report
}

// VerifyBatch audits the stored chain of a batch. A broken chain
// returns the report along with an IntegrityError naming the first
// broken block.
func (l *Ledger) VerifyBatch(batchID string) (VerifyReport, error) {
	if _, err := l.config.Database.BatchByID(batchID); err != nil {
		return VerifyReport{}, err
	}
	blocks, err := l.BatchChain(batchID)
	if err != nil {
		return VerifyReport{}, err
	}
	report := Verify(blocks)
	if !report.OK {
		return report, NewIntegrityError(
			"batch",
			batchID,
			report.FirstBrokenIndex,
			report.Reason,
		)
	}
	return report, nil
}

// VerifyProduct audits the stored chain of a product. A broken chain
// returns the report along with an IntegrityError naming the first
// broken block.
func (l *Ledger) VerifyProduct(productID string) (VerifyReport, error) {
	if _, err := l.config.Database.ProductByID(productID); err != nil {
		return VerifyReport{}, err
	}
	blocks, err := l.ProductChain(productID)
	if err != nil {
		return VerifyReport{}, err
	}
	report := Verify(blocks)
	if !report.OK {
		return report, NewIntegrityError(
			"product",
			productID,
			report.FirstBrokenIndex,
			report.Reason,
		)
	}
	return report, nil
}
