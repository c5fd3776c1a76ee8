/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tapas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dburkart/furrow/pkg/dataset"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	c := NewClient(zerolog.Nop(), url, "test-token")
	c.RetryInterval = time.Millisecond
	c.MaxRetries = 3
	return c
}

func testTable() dataset.Table {
	return dataset.Table{
		"action":   {"sow", "sow"},
		"crop":     {"cress", "cress"},
		"quantity": {"1sqft", "2sqft"},
	}
}

func TestAskSendsEnvelope(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Response{Answer: "SUM > 1sqft, 2sqft"})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Ask(context.Background(), NewRequest("what is sum of quantity?", testTable()))
	require.NoError(t, err)

	assert.Equal(t, "what is sum of quantity?", got.Inputs.Query)
	assert.True(t, got.Options.WaitForModel)
	assert.Equal(t, []string{"1sqft", "2sqft"}, got.Inputs.Table["quantity"])
	assert.Equal(t, "SUM > 1sqft, 2sqft", resp.Answer)
}

func TestAskRetriesWhileLoading(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(Response{Error: "model is currently loading", EstimatedTime: 20})
			return
		}
		json.NewEncoder(w).Encode(Response{Answer: "2"})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Ask(context.Background(), NewRequest("q", testTable()))
	require.NoError(t, err)
	assert.Equal(t, "2", resp.Answer)
	assert.EqualValues(t, 3, calls.Load())
}

func TestAskGivesUpAfterRetryBound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Error: "model is currently loading"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Ask(context.Background(), NewRequest("q", testTable()))
	require.ErrorIs(t, err, ErrModelNotReady)
}

func TestAskHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Error: "model is currently loading"})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.RetryInterval = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Ask(ctx, NewRequest("q", testTable()))
	require.Error(t, err)
}
