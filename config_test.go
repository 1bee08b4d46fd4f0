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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.NotNil(t, cfg.logger)
	assert.Empty(t, cfg.dataDir)
	assert.Empty(t, cfg.apiListenAddress)
	assert.Empty(t, cfg.textgenToken)
	assert.False(t, cfg.tracing)
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithDatabasePath("/tmp/silo"),
		WithApiListenAddress(":8080"),
		WithTextgenToken("hf_test"),
		WithTextgenTimeout(10*time.Second),
		WithShutdownTimeout(5*time.Second),
		WithTracing(true),
		WithTracingStdout(true),
	)

	assert.Equal(t, "/tmp/silo", cfg.dataDir)
	assert.Equal(t, ":8080", cfg.apiListenAddress)
	assert.Equal(t, "hf_test", cfg.textgenToken)
	assert.Equal(t, 10*time.Second, cfg.textgenTimeout)
	assert.Equal(t, 5*time.Second, cfg.shutdownTimeout)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
}

func TestConfigValidate(t *testing.T) {
	n, err := New(NewConfig())
	require.NoError(t, err)
	require.NotNil(t, n)

	_, err = New(NewConfig(WithShutdownTimeout(-1 * time.Second)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, err = New(NewConfig(WithTextgenTimeout(-1 * time.Second)))
	require.Error(t, err)
}
