/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package furrow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Client talks to a running furrow server over its JSON API.
type Client interface {
	Ask(query string) (string, error)
	Events() ([]Event, error)
	Record(Event) error
}

// An Event mirrors one row of the server's event log.
type Event struct {
	Date         string `json:"date"`
	Action       string `json:"action"`
	Crop         string `json:"crop"`
	Quantity     string `json:"quantity"`
	Duration     string `json:"duration"`
	Location     string `json:"location"`
	LocationType string `json:"location_type"`
}

type httpClient struct {
	base string
	http *http.Client
}

func NewClient(base string) Client {
	return &httpClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *httpClient) Ask(query string) (string, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", err
	}

	resp, err := c.http.Post(c.base+"/api/query", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "unable to reach the server")
	}
	defer resp.Body.Close()

	var body struct {
		Answer  string `json:"answer"`
		Warning string `json:"warning"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "unable to decode the server response")
	}

	switch {
	case body.Error != "":
		return "", fmt.Errorf("%s", body.Error)
	case body.Warning != "":
		return body.Warning, nil
	default:
		return body.Answer, nil
	}
}

func (c *httpClient) Events() ([]Event, error) {
	resp, err := c.http.Get(c.base + "/api/events")
	if err != nil {
		return nil, errors.Wrap(err, "unable to reach the server")
	}
	defer resp.Body.Close()

	var body struct {
		Events []Event `json:"events"`
		Error  string  `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "unable to decode the server response")
	}
	if body.Error != "" {
		return nil, fmt.Errorf("%s", body.Error)
	}
	return body.Events, nil
}

func (c *httpClient) Record(e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	resp, err := c.http.Post(c.base+"/api/events", "application/json", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "unable to reach the server")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return fmt.Errorf("%s", body.Error)
		}
		return fmt.Errorf("server rejected the event (status %d)", resp.StatusCode)
	}
	return nil
}
