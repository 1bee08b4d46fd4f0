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
	"github.com/silolabs-io/silo/event"
)

const (
	// BlockAppendedEventType is the event type for block appends.
	BlockAppendedEventType event.EventType = "ledger.blockappended"
)

// BlockAppendedEvent is emitted after a block is committed to an
// entity's chain.
type BlockAppendedEvent struct {
	EntityKind string
	EntityID   string
	Block      Block
}
