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

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// ServerConfig holds the REST API server configuration.
type ServerConfig struct {
	ListenAddress string
}

// Server is the provenance REST API server.
type Server struct {
	config     ServerConfig
	logger     *slog.Logger
	node       Node
	httpServer *http.Server
	mu         sync.Mutex
}

// New creates a new API server instance.
func New(
	cfg ServerConfig,
	node Node,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":5000"
	}
	return &Server{
		config: cfg,
		logger: logger,
		node:   node,
	}
}

// Start starts the HTTP server in a background goroutine.
func (s *Server) Start(
	ctx context.Context,
) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return errors.New("server already started")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/batches", s.handleBatchList)
	mux.HandleFunc("POST /api/batches", s.handleBatchCreate)
	mux.HandleFunc("GET /api/batches/{batchId}", s.handleBatch)
	mux.HandleFunc(
		"POST /api/batches/{batchId}/blocks",
		s.handleBatchBlockAppend,
	)
	mux.HandleFunc(
		"GET /api/batches/{batchId}/products",
		s.handleBatchProducts,
	)
	mux.HandleFunc(
		"GET /api/batches/{batchId}/verify",
		s.handleBatchVerify,
	)
	mux.HandleFunc("GET /api/products", s.handleProductList)
	mux.HandleFunc("POST /api/products", s.handleProductCreate)
	mux.HandleFunc(
		"GET /api/products/stats/locations",
		s.handleProductLocationStats,
	)
	mux.HandleFunc("GET /api/products/{productId}", s.handleProduct)
	mux.HandleFunc(
		"POST /api/products/{productId}/blocks",
		s.handleProductBlockAppend,
	)
	mux.HandleFunc(
		"GET /api/products/{productId}/verify",
		s.handleProductVerify,
	)
	mux.HandleFunc(
		"GET /api/logistics/batch/{batchId}",
		s.handleBatchLogistics,
	)
	mux.HandleFunc(
		"GET /api/logistics/batch/{batchId}/insights",
		s.handleBatchInsights,
	)
	mux.HandleFunc(
		"GET /api/logistics/insights/summary",
		s.handleFleetInsights,
	)
	mux.HandleFunc(
		"GET /api/recipes/suggestions/{ingredient}",
		s.handleRecipeSuggestions,
	)

	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
	}
	s.httpServer = server
	s.mu.Unlock()

	// Start the server with deterministic error detection
	if err := s.startServer(server); err != nil {
		s.mu.Lock()
		s.httpServer = nil
		s.mu.Unlock()
		return err
	}

	s.logger.Info(
		"API listener started on " + s.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		srv := s.httpServer
		s.httpServer = nil
		s.mu.Unlock()

		if srv != nil {
			s.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error(
					"failed to shutdown API server on "+
						"context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(
	ctx context.Context,
) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if srv != nil {
		s.logger.Debug(
			"shutting down API server",
		)
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

// startServer starts the HTTP server with deterministic error
// detection. It binds the listening socket first so port conflicts
// are detected immediately, then serves in a background goroutine.
func (s *Server) startServer(
	server *http.Server,
) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
