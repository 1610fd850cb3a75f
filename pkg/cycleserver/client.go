// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cycleserver talks to the CycleServer job submission API.
//
// A submission is two round trips: the target pools are listed and the first
// one is picked (unless the caller already knows the pool), then the job
// description is posted to the submission endpoint. The server answers a
// successful submission with a bare integer id.
package cycleserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 30 * time.Second

const (
	targetsPath    = "/condor/submit/targets"
	submissionPath = "/condor/submit/submission"
)

// Credentials authenticate requests with HTTP Basic auth.
type Credentials struct {
	Username string
	Password string
}

// IsZero reports whether no credentials were supplied.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

func (c Credentials) apply(req *http.Request) {
	if c.IsZero() {
		return
	}
	req.SetBasicAuth(c.Username, c.Password)
}

// ProgressFunc wraps the body of an upload of size bytes.
type ProgressFunc func(body io.Reader, size int64) io.Reader

// Client is a CycleServer API client bound to a single host.
type Client struct {
	// Host is the CycleServer host name with optional port (e.g., "localhost:8080")
	Host string
	// UserAgent, if set, is sent with every request
	UserAgent string
	// Progress, if set, wraps submission payloads as they are uploaded
	Progress ProgressFunc
	// Logger receives request diagnostics
	Logger logrus.FieldLogger
	// client is the HTTP client
	client *http.Client
}

// NewClient creates a client for host. A non-positive timeout selects
// DefaultTimeout.
func NewClient(host string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimSuffix(host, "/")
	return &Client{
		Host:   host,
		Logger: logrus.StandardLogger(),
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) baseURL() string {
	return "http://" + c.Host
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	target := req.URL.String()
	log := c.Logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    target,
	})
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	log.Debug("sending request")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, &ConnectivityError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug("server returned error status")
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{URL: target, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	log.WithField("bytes", len(body)).Debug("received response")

	return body, nil
}
