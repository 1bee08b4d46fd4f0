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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/silolabs-io/silo/api"
	"github.com/silolabs-io/silo/database"
	"github.com/silolabs-io/silo/event"
	"github.com/silolabs-io/silo/ledger"
	"github.com/silolabs-io/silo/logistics"
	"github.com/silolabs-io/silo/recipes"
	"github.com/silolabs-io/silo/textgen"
)

type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	ledger        *ledger.Ledger
	augmenter     *logistics.Augmenter
	suggester     *recipes.Suggester
	apiServer     *api.Server
	apiCancel     context.CancelFunc
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

func (n *Node) Run() error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:      n.config.dataDir,
		Logger:       n.config.logger,
		PromRegistry: n.config.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	// Load ledger
	l, err := ledger.NewLedger(
		ledger.LedgerConfig{
			Database:     n.db,
			EventBus:     n.eventBus,
			Logger:       n.config.logger,
			PromRegistry: n.config.promRegistry,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	n.ledger = l
	// Configure insight augmentation and recipe suggestions
	var generator logistics.TextGenerator
	var recipeGenerator recipes.TextGenerator
	if n.config.textgenToken != "" {
		var clientOpts []textgen.ClientOption
		if n.config.textgenEndpoint != "" {
			clientOpts = append(
				clientOpts,
				textgen.WithEndpointURL(n.config.textgenEndpoint),
			)
		}
		if n.config.textgenTimeout > 0 {
			clientOpts = append(
				clientOpts,
				textgen.WithTimeout(n.config.textgenTimeout),
			)
		}
		client := textgen.NewClient(n.config.textgenToken, clientOpts...)
		generator = client
		recipeGenerator = client
	} else {
		n.config.logger.Info(
			"no text generation token configured, insights use local analysis only",
		)
	}
	n.augmenter = logistics.NewAugmenter(generator, n.config.logger)
	n.suggester = recipes.NewSuggester(recipeGenerator, n.config.logger)
	// Subscribe to block appended events
	n.eventBus.SubscribeFunc(
		ledger.BlockAppendedEventType,
		n.handleBlockAppendedEvent,
	)
	// Start REST API listener
	n.apiServer = api.New(
		api.ServerConfig{
			ListenAddress: n.config.apiListenAddress,
		},
		n,
		n.config.logger,
	)
	apiCtx, apiCancel := context.WithCancel(context.Background())
	n.apiCancel = apiCancel
	if err := n.apiServer.Start(apiCtx); err != nil {
		apiCancel()
		return err
	}

	// Wait for shutdown signal
	<-n.done
	return nil
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Phase 1: Stop accepting new work
	n.config.logger.Debug("shutdown phase 1: stopping new work")

	if n.apiServer != nil {
		if stopErr := n.apiServer.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}
	if n.apiCancel != nil {
		n.apiCancel()
	}

	// Phase 2: Flush state and close database
	n.config.logger.Debug("shutdown phase 2: flushing state")

	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	// Phase 3: Cleanup resources
	n.config.logger.Debug("shutdown phase 3: cleanup resources")

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}

func (n *Node) handleBlockAppendedEvent(evt event.Event) {
	e, ok := evt.Data.(ledger.BlockAppendedEvent)
	if !ok {
		return
	}
	n.config.logger.Debug(
		"provenance block appended",
		"component", "node",
		"kind", e.EntityKind,
		"entity", e.EntityID,
		"sequence", e.Block.Sequence,
		"location", e.Block.Location,
	)
}
