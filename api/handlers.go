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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/silolabs-io/silo/database"
	"github.com/silolabs-io/silo/database/models"
	"github.com/silolabs-io/silo/ledger"
	"github.com/silolabs-io/silo/logistics"
	"github.com/silolabs-io/silo/recipes"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(
	w http.ResponseWriter,
	status int,
	errStr string,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      errStr,
		Message:    message,
	})
}

// writeNodeError maps node errors onto HTTP status codes.
func (s *Server) writeNodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrBatchNotFound):
		writeError(w, http.StatusNotFound, "Not Found", "batch not found")
	case errors.Is(err, models.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Not Found", "product not found")
	case errors.Is(err, logistics.ErrEmptyDataset):
		writeError(
			w,
			http.StatusNotFound,
			"Not Found",
			"no batches found in the system",
		)
	case errors.Is(err, database.ErrBatchExists),
		errors.Is(err, database.ErrProductExists),
		errors.Is(err, ledger.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		s.logger.Error(
			"request failed",
			"error", err,
		)
		writeError(
			w,
			http.StatusInternalServerError,
			"Internal Server Error",
			"server error",
		)
	}
}

// handlePing handles GET /ping.
func (s *Server) handlePing(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, PingResponse{
		Message: "pong",
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleBatchList handles GET /api/batches.
func (s *Server) handleBatchList(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	batches, total, err := s.node.BatchList(params.Offset(), params.Count)
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	ret := make([]BatchResponse, 0, len(batches))
	for _, batch := range batches {
		ret = append(ret, newBatchResponse(batch, nil))
	}
	SetPaginationHeaders(w, total, params)
	writeJSON(w, http.StatusOK, ret)
}

// handleBatchCreate handles POST /api/batches.
func (s *Server) handleBatchCreate(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if req.ProductType == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "productType is required")
		return
	}
	if req.Location == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "location is required")
		return
	}
	batch, err := s.node.CreateBatch(BatchParams{
		BatchID:          req.BatchID,
		ProductType:      req.ProductType,
		Location:         req.Location,
		ResponsibleStaff: req.ResponsibleStaff,
		Status:           req.Status,
		Notes:            req.Notes,
		Quantity:         req.Quantity,
		HarvestDate:      req.HarvestDate,
	})
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBatchResponse(batch, nil))
}

// handleBatch handles GET /api/batches/{batchId}.
func (s *Server) handleBatch(
	w http.ResponseWriter,
	r *http.Request,
) {
	batch, blocks, err := s.node.Batch(r.PathValue("batchId"))
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	if blocks == nil {
		blocks = []ledger.Block{}
	}
	writeJSON(w, http.StatusOK, newBatchResponse(batch, blocks))
}

// handleBatchBlockAppend handles POST /api/batches/{batchId}/blocks.
func (s *Server) handleBatchBlockAppend(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	content := ledger.BlockContent{
		Actor:    req.Actor,
		Location: req.Location,
		Payload:  req.Data,
	}
	if req.Timestamp != nil {
		content.Timestamp = *req.Timestamp
	}
	block, err := s.node.AppendBatchBlock(r.PathValue("batchId"), content)
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

// handleBatchProducts handles GET /api/batches/{batchId}/products.
func (s *Server) handleBatchProducts(
	w http.ResponseWriter,
	r *http.Request,
) {
	products, err := s.node.BatchProducts(r.PathValue("batchId"))
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	ret := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		ret = append(ret, newProductResponse(product, nil))
	}
	writeJSON(w, http.StatusOK, ret)
}

// handleBatchVerify handles GET /api/batches/{batchId}/verify.
func (s *Server) handleBatchVerify(
	w http.ResponseWriter,
	r *http.Request,
) {
	report, err := s.node.VerifyBatch(r.PathValue("batchId"))
	if err != nil && !s.logIntegrityError(err) {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// logIntegrityError reports whether err is a chain integrity failure,
// logging it when so. Integrity failures are surfaced through the
// verify report, not as an HTTP error.
func (s *Server) logIntegrityError(err error) bool {
	var integrityErr ledger.IntegrityError
	if !errors.As(err, &integrityErr) {
		return false
	}
	s.logger.Warn(
		"chain integrity failure",
		"index", integrityErr.Index(),
		"reason", integrityErr.Reason(),
	)
	return true
}

// handleProductList handles GET /api/products.
func (s *Server) handleProductList(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	products, total, err := s.node.ProductList(params.Offset(), params.Count)
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	ret := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		ret = append(ret, newProductResponse(product, nil))
	}
	SetPaginationHeaders(w, total, params)
	writeJSON(w, http.StatusOK, ret)
}

// handleProductCreate handles POST /api/products.
func (s *Server) handleProductCreate(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if req.BatchID == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "batchId is required")
		return
	}
	product, err := s.node.CreateProduct(ProductParams{
		ProductID: req.ProductID,
		BatchID:   req.BatchID,
		Size:      req.Size,
		Quality:   req.Quality,
		Notes:     req.Notes,
		Weight:    req.Weight,
	})
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProductResponse(product, nil))
}

// handleProduct handles GET /api/products/{productId}.
func (s *Server) handleProduct(
	w http.ResponseWriter,
	r *http.Request,
) {
	product, blocks, err := s.node.Product(r.PathValue("productId"))
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	if blocks == nil {
		blocks = []ledger.Block{}
	}
	writeJSON(w, http.StatusOK, newProductResponse(product, blocks))
}

// handleProductBlockAppend handles
// POST /api/products/{productId}/blocks.
func (s *Server) handleProductBlockAppend(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	content := ledger.BlockContent{
		Actor:     req.Actor,
		ActorRole: req.ActorRole,
		Location:  req.Location,
		Payload:   req.Data,
	}
	if req.Timestamp != nil {
		content.Timestamp = *req.Timestamp
	}
	block, err := s.node.AppendProductBlock(
		r.PathValue("productId"),
		content,
	)
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

// handleProductVerify handles GET /api/products/{productId}/verify.
func (s *Server) handleProductVerify(
	w http.ResponseWriter,
	r *http.Request,
) {
	report, err := s.node.VerifyProduct(r.PathValue("productId"))
	if err != nil && !s.logIntegrityError(err) {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleProductLocationStats handles
// GET /api/products/stats/locations.
func (s *Server) handleProductLocationStats(
	w http.ResponseWriter,
	_ *http.Request,
) {
	stats, err := s.node.ProductLocationStats()
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	if stats == nil {
		stats = []database.LocationCount{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleBatchLogistics handles GET /api/logistics/batch/{batchId}.
func (s *Server) handleBatchLogistics(
	w http.ResponseWriter,
	r *http.Request,
) {
	data, err := s.node.BatchLogistics(r.PathValue("batchId"))
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleBatchInsights handles
// GET /api/logistics/batch/{batchId}/insights.
func (s *Server) handleBatchInsights(
	w http.ResponseWriter,
	r *http.Request,
) {
	insights, err := s.node.BatchInsights(
		r.Context(),
		r.PathValue("batchId"),
	)
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// handleFleetInsights handles GET /api/logistics/insights/summary.
func (s *Server) handleFleetInsights(
	w http.ResponseWriter,
	r *http.Request,
) {
	insights, err := s.node.FleetInsights(r.Context())
	if err != nil {
		s.writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// handleRecipeSuggestions handles
// GET /api/recipes/suggestions/{ingredient}. Unlike the insights
// endpoints, generation failures surface to the caller instead of
// falling back to local output.
func (s *Server) handleRecipeSuggestions(
	w http.ResponseWriter,
	r *http.Request,
) {
	suggestions, err := s.node.RecipeSuggestions(
		r.Context(),
		r.PathValue("ingredient"),
	)
	if err != nil {
		if errors.Is(err, recipes.ErrNoGenerator) {
			writeError(
				w,
				http.StatusInternalServerError,
				"Server configuration error",
				"API key not configured",
			)
			return
		}
		s.logger.Error(
			"recipe suggestion failed",
			"error", err,
		)
		writeError(
			w,
			http.StatusBadGateway,
			"AI service error",
			err.Error(),
		)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}
