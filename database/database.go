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
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/silolabs-io/silo/database/models"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Config describes how to open the persistence layer.
type Config struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	DataDir      string
}

// Database is the persistence facade. Entity records and block scalar
// rows live in a sqlite metadata store; opaque block payload documents
// live in a badger blob store. Uses in-memory stores if DataDir is
// empty.
type Database struct {
	logger   *slog.Logger
	metadata *gorm.DB
	blob     *badger.DB
	dataDir  string
}

// New opens the metadata and blob stores and migrates the schema.
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.DataDir != "" {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(cfg.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(cfg.DataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
	}
	metadata, err := openMetadata(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	blob, err := openBlob(cfg.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	db := &Database{
		logger:   logger,
		metadata: metadata,
		blob:     blob,
		dataDir:  cfg.DataDir,
	}
	// Configure tracing for GORM
	if err := db.metadata.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return db, err
	}
	// Create table schemas
	for _, model := range models.MigrateModels {
		db.logger.Debug(
			fmt.Sprintf("creating table: %#v", model),
			"component", "database",
		)
		if err := db.metadata.AutoMigrate(model); err != nil {
			return db, err
		}
	}
	return db, nil
}

func openMetadata(dataDir string) (*gorm.DB, error) {
	if dataDir == "" {
		// Use in-memory database when no data directory is specified, useful for testing
		// cache=shared allows multiple connections to share the same in-memory database
		return gorm.Open(
			sqlite.Open("file::memory:?cache=shared"),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
	}
	metadataDbPath := filepath.Join(
		dataDir,
		"metadata.sqlite",
	)
	// WAL journal mode, disable sync on write, increase cache size to 50MB (from 2MB)
	metadataConnOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)&_pragma=cache_size(-50000)"
	return gorm.Open(
		sqlite.Open(
			fmt.Sprintf("file:%s?%s", metadataDbPath, metadataConnOpts),
		),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
		},
	)
}

// Metadata returns the underlying GORM database handle.
func (d *Database) Metadata() *gorm.DB {
	return d.metadata
}

// Blob returns the underlying badger database handle.
func (d *Database) Blob() *badger.DB {
	return d.blob
}

// DataDir returns the data directory, empty for in-memory stores.
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the database logger.
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Close shuts down both stores.
func (d *Database) Close() error {
	var retErr error
	if d.metadata != nil {
		if sqlDb, err := d.metadata.DB(); err != nil {
			retErr = errors.Join(retErr, err)
		} else {
			retErr = errors.Join(retErr, sqlDb.Close())
		}
	}
	if d.blob != nil {
		retErr = errors.Join(retErr, d.blob.Close())
	}
	return retErr
}
