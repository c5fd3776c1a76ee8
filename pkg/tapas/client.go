/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tapas

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrModelNotReady is returned when the model was still loading after every
// allowed retry.
var ErrModelNotReady = errors.New("model is still loading, try again later")

const (
	defaultRetryInterval = 3 * time.Second
	defaultMaxRetries    = 20
)

// A Client posts inference requests to the model endpoint. While the model
// reports it is loading, the request is retried on a constant interval up to
// a fixed attempt bound; the loop is cancellable through the context.
type Client struct {
	URL   string
	Token string

	HTTPClient    *http.Client
	RetryInterval time.Duration
	MaxRetries    uint64

	log zerolog.Logger
}

func NewClient(log zerolog.Logger, url, token string) *Client {
	if url == "" {
		url = DefaultModelURL
	}
	return &Client{
		URL:           url,
		Token:         token,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
		RetryInterval: defaultRetryInterval,
		MaxRetries:    defaultMaxRetries,
		log:           log,
	}
}

// Ask sends the request and returns the model's response, retrying while
// the model loads. Exhausting the retry bound surfaces ErrModelNotReady.
func (c *Client) Ask(ctx context.Context, req Request) (Response, error) {
	var resp Response

	operation := func() error {
		r, err := c.post(ctx, req)
		if err != nil {
			return backoff.Permanent(err)
		}
		if r.Loading() {
			c.log.Debug().
				Float64("estimated_time", r.EstimatedTime).
				Msg("model is loading, will retry")
			return ErrModelNotReady
		}
		resp = r
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.RetryInterval), c.MaxRetries),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return Response{}, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, errors.Wrap(err, "unable to marshal inference request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, errors.Wrap(err, "unable to build inference request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpResp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return Response{}, errors.Wrap(err, "unable to reach inference endpoint")
	}
	defer httpResp.Body.Close()

	// The service reports problems (including loading) inside the JSON
	// envelope, so non-2xx statuses are decoded rather than rejected.
	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return Response{}, errors.Wrapf(err, "unable to decode inference response (status %d)", httpResp.StatusCode)
	}
	return resp, nil
}
