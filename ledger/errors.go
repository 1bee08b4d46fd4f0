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
	"errors"
	"fmt"
)

// ErrInvalidPayload is returned when a block append carries no payload
// or one that cannot be encoded as a JSON object.
var ErrInvalidPayload = errors.New("invalid block payload")

// IntegrityError is returned when a stored chain fails verification.
type IntegrityError struct {
	entityKind string
	entityID   string
	index      int
	reason     string
}

// NewIntegrityError creates a new IntegrityError.
func NewIntegrityError(
	entityKind string,
	entityID string,
	index int,
	reason string,
) IntegrityError {
	return IntegrityError{
		entityKind: entityKind,
		entityID:   entityID,
		index:      index,
		reason:     reason,
	}
}

// Index returns the chain index of the first broken block.
func (e IntegrityError) Index() int {
	return e.index
}

// Reason returns a description of the integrity failure.
func (e IntegrityError) Reason() string {
	return e.reason
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf(
		"chain integrity failure: %s %s: block index %d: %s",
		e.entityKind,
		e.entityID,
		e.index,
		e.reason,
	)
}
