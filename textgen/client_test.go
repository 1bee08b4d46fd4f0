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

package textgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/silolabs-io/silo/textgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			var req struct {
				Inputs     string `json:"inputs"`
				Parameters struct {
					MaxNewTokens   int     `json:"max_new_tokens"`
					Temperature    float64 `json:"temperature"`
					ReturnFullText bool    `json:"return_full_text"`
				} `json:"parameters"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "analyze this", req.Inputs)
			assert.Equal(t, 500, req.Parameters.MaxNewTokens)
			assert.InDelta(t, 0.7, req.Parameters.Temperature, 0.001)
			assert.False(t, req.Parameters.ReturnFullText)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(
				[]byte(`[{"generated_text": "a structured report"}]`),
			)
		},
	))
	defer srv.Close()
	client := textgen.NewClient(
		"test-token",
		textgen.WithEndpointURL(srv.URL),
	)
	text, err := client.Generate(context.Background(), "analyze this")
	require.NoError(t, err)
	assert.Equal(t, "a structured report", text)
}

func TestGenerateWithParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Inputs     string `json:"inputs"`
				Parameters struct {
					MaxNewTokens int     `json:"max_new_tokens"`
					Temperature  float64 `json:"temperature"`
					TopP         float64 `json:"top_p"`
					DoSample     bool    `json:"do_sample"`
				} `json:"parameters"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 150, req.Parameters.MaxNewTokens)
			assert.InDelta(t, 0.7, req.Parameters.Temperature, 0.001)
			assert.InDelta(t, 0.9, req.Parameters.TopP, 0.001)
			assert.True(t, req.Parameters.DoSample)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(
				[]byte(`[{"generated_text": "1. Salad: fresh."}]`),
			)
		},
	))
	defer srv.Close()
	client := textgen.NewClient("", textgen.WithEndpointURL(srv.URL))
	text, err := client.GenerateWithParams(
		context.Background(),
		"suggest dishes",
		textgen.GenerateParams{
			MaxNewTokens: 150,
			Temperature:  0.7,
			TopP:         0.9,
			DoSample:     true,
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "1. Salad: fresh.", text)
}

func TestGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
		},
	))
	defer srv.Close()
	client := textgen.NewClient("", textgen.WithEndpointURL(srv.URL))
	_, err := client.Generate(context.Background(), "analyze this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestGenerateEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		},
	))
	defer srv.Close()
	client := textgen.NewClient("", textgen.WithEndpointURL(srv.URL))
	_, err := client.Generate(context.Background(), "analyze this")
	require.Error(t, err)
}

func TestGenerateBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	))
	defer srv.Close()
	client := textgen.NewClient("", textgen.WithEndpointURL(srv.URL))
	_, err := client.Generate(context.Background(), "analyze this")
	require.Error(t, err)
}
