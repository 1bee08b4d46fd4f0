// Copyright 2026 Silo Labs Software
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

package silo

import (
	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/event"
)

const (
	BatchCreatedEventType   event.EventType = "node.batchcreated"
	ProductCreatedEventType event.EventType = "node.productcreated"
)

// BatchCreatedEvent is published when a new batch is registered.
type BatchCreatedEvent struct {
	Batch models.Batch
}

// ProductCreatedEvent is published when a new product is registered.
type ProductCreatedEvent struct {
	Product models.Product
}
