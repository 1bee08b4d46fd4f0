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

// Package textgen is an HTTP client for hosted text-generation
// inference endpoints that speak the common "inputs plus parameters"
// request shape. The default endpoint is the hosted Mistral-7B
// instruct model.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpointURL is the inference endpoint used when none is
// configured.
const DefaultEndpointURL = "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.3"

const (
	defaultMaxNewTokens = 500
	defaultTemperature  = 0.7
)

// maxResponseBytes limits API responses to 10 MiB to prevent OOM from
// a malicious or misconfigured endpoint.
const maxResponseBytes = 10 << 20

// Client is an HTTP client for a text-generation inference endpoint.
type Client struct {
	endpointURL string
	token       string
	httpClient  *http.Client
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom *http.Client.
// Note: the default client enforces HTTPS-only redirects via
// httpsOnlyRedirect. A custom client bypasses this protection,
// so callers should configure their own redirect policy if needed.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEndpointURL overrides the inference endpoint URL.
func WithEndpointURL(endpointURL string) ClientOption {
	return func(c *Client) {
		if endpointURL != "" {
			c.endpointURL = endpointURL
		}
	}
}

// WithTimeout overrides the default request timeout on the built-in
// HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a new inference API client. The token is sent as
// a bearer credential on every request.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		endpointURL: DefaultEndpointURL,
		token:       token,
		httpClient: &http.Client{
			Timeout:       30 * time.Second,
			CheckRedirect: httpsOnlyRedirect,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// httpsOnlyRedirect rejects redirects to non-HTTPS URLs to prevent
// downgrade attacks and SSRF.
func httpsOnlyRedirect(
	req *http.Request,
	via []*http.Request,
) error {
	if len(via) >= 10 {
		return errors.New("too many redirects")
	}
	if req.URL.Scheme != "https" {
		return fmt.Errorf(
			"redirect to non-HTTPS URL blocked: %s",
			req.URL,
		)
	}
	return nil
}

// GenerateParams tune a single generation request.
type GenerateParams struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	DoSample     bool
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p,omitempty"`
	DoSample       bool    `json:"do_sample,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Generate submits a prompt with the default generation parameters and
// returns the generated text. One attempt, no retries; callers are
// expected to treat failures as non-fatal.
func (c *Client) Generate(
	ctx context.Context,
	prompt string,
) (string, error) {
	return c.GenerateWithParams(ctx, prompt, GenerateParams{
		MaxNewTokens: defaultMaxNewTokens,
		Temperature:  defaultTemperature,
	})
}

// GenerateWithParams submits a prompt with caller-supplied generation
// parameters.
func (c *Client) GenerateWithParams(
	ctx context.Context,
	prompt string,
	params GenerateParams,
) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens:   params.MaxNewTokens,
			Temperature:    params.Temperature,
			TopP:           params.TopP,
			DoSample:       params.DoSample,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpointURL,
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	if resp == nil || resp.Body == nil {
		return "", errors.New("nil response from server")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(
			io.LimitReader(resp.Body, 1024),
		)
		return "", fmt.Errorf(
			"unexpected status %d: %s",
			resp.StatusCode,
			string(bodyBytes),
		)
	}

	var ret []generateResponse
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := decoder.Decode(&ret); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(ret) == 0 || ret[0].GeneratedText == "" {
		return "", errors.New("empty generation response")
	}
	return ret[0].GeneratedText, nil
}
