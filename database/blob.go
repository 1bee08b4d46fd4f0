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

package database

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/silolabs-io/silo/database/models"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

func openBlob(dataDir string, logger *slog.Logger) (*badger.DB, error) {
	if dataDir == "" {
		// No dataDir, use in-memory config
		badgerOpts := badger.DefaultOptions("").
			WithLogger(newBadgerLogger(logger)).
			// The default INFO logging is a bit verbose
			WithLoggingLevel(badger.WARNING).
			WithInMemory(true)
		return badger.Open(badgerOpts)
	}
	blobDir := filepath.Join(
		dataDir,
		"blob",
	)
	badgerOpts := badger.DefaultOptions(blobDir).
		WithLogger(newBadgerLogger(logger)).
		WithLoggingLevel(badger.WARNING).
		WithCompression(options.Snappy)
	return badger.Open(badgerOpts)
}

// badgerLogger funnels badger's log output into our slog logger.
type badgerLogger struct {
	logger *slog.Logger
}

func newBadgerLogger(logger *slog.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

func (b *badgerLogger) logf(
	logFunc func(string, ...any),
	format string,
	args ...any,
) {
	logFunc(
		strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"),
		"component", "database",
	)
}

func (b *badgerLogger) Errorf(format string, args ...any) {
	b.logf(b.logger.Error, format, args...)
}

func (b *badgerLogger) Warningf(format string, args ...any) {
	b.logf(b.logger.Warn, format, args...)
}

func (b *badgerLogger) Infof(format string, args ...any) {
	b.logf(b.logger.Info, format, args...)
}

func (b *badgerLogger) Debugf(format string, args ...any) {
	b.logf(b.logger.Debug, format, args...)
}

func payloadKey(entityKind string, entityID string, sequence uint64) []byte {
	return fmt.Appendf(
		nil,
		"payload/%s/%s/%020d",
		entityKind,
		entityID,
		sequence,
	)
}

// PayloadSet stores a block payload document in the blob store.
func (d *Database) PayloadSet(
	entityKind string,
	entityID string,
	sequence uint64,
	data []byte,
) error {
	return d.blob.Update(func(txn *badger.Txn) error {
		return txn.Set(payloadKey(entityKind, entityID, sequence), data)
	})
}

// PayloadGet retrieves a block payload document from the blob store.
func (d *Database) PayloadGet(
	entityKind string,
	entityID string,
	sequence uint64,
) ([]byte, error) {
	var ret []byte
	err := d.blob.View(func(txn *badger.Txn) error {
		item, err := txn.Get(payloadKey(entityKind, entityID, sequence))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return models.ErrBlockNotFound
			}
			return err
		}
		ret, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// PayloadDelete removes a block payload document from the blob store.
func (d *Database) PayloadDelete(
	entityKind string,
	entityID string,
	sequence uint64,
) error {
	return d.blob.Update(func(txn *badger.Txn) error {
		return txn.Delete(payloadKey(entityKind, entityID, sequence))
	})
}
