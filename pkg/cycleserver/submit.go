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

package cycleserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// maxRejectionBody caps how much of a rejection response is kept.
const maxRejectionBody = 512

// Submission is a job description destined for a pool.
type Submission struct {
	// PoolID is the target pool (required)
	PoolID string
	// User is the submitting user (required)
	User string
	// Group is the group to submit as (optional)
	Group string
	// Payload is the job description text
	Payload string
}

// Validate checks that the required fields are set.
func (s Submission) Validate() error {
	if s.PoolID == "" {
		return errors.New("pool ID is required")
	}
	if s.User == "" {
		return errors.New("user is required")
	}
	return nil
}

// Submit posts the submission and returns the id assigned by the server.
func (c *Client) Submit(ctx context.Context, sub Submission, creds Credentials) (string, error) {
	if err := sub.Validate(); err != nil {
		return "", fmt.Errorf("invalid submission: %w", err)
	}

	size := int64(len(sub.Payload))
	var body io.Reader = strings.NewReader(sub.Payload)
	// An empty wrapped body would be sent chunked
	if c.Progress != nil && size > 0 {
		body = c.Progress(body, size)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submissionURL(sub), body)
	if err != nil {
		return "", fmt.Errorf("failed to build submission request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Content-Encoding", "utf-8")

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	creds.apply(req)

	c.Logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"pool":       sub.PoolID,
		"user":       sub.User,
		"group":      sub.Group,
		"bytes":      size,
	}).Debug("submitting job")

	data, err := c.do(req)
	if err != nil {
		return "", err
	}

	return ParseSubmissionID(data)
}

func (c *Client) submissionURL(sub Submission) string {
	params := []string{
		"pool=" + escape(sub.PoolID),
		"user=" + escape(sub.User),
	}
	if sub.Group != "" {
		params = append(params, "group="+escape(sub.Group))
	}
	return c.baseURL() + submissionPath + "?" + strings.Join(params, "&")
}

// escape percent-encodes a query value, writing spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParseSubmissionID interprets a successful response body. The server signals
// success with a bare base-10 integer; anything else is a rejection.
func ParseSubmissionID(body []byte) (string, error) {
	id := strings.TrimSpace(string(body))
	if _, ok := new(big.Int).SetString(id, 10); !ok {
		if len(id) > maxRejectionBody {
			cut := maxRejectionBody
			for cut > 0 && !utf8.RuneStart(id[cut]) {
				cut--
			}
			id = id[:cut] + "..."
		}
		return "", &RejectedError{Body: id}
	}
	return id, nil
}
