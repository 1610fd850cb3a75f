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
	"errors"
	"fmt"
	"strings"

	"github.com/scttfrdmn/cyclesubmit/pkg/httpstatus"
)

// ErrNoPools is returned when the server lists no usable target pools.
var ErrNoPools = errors.New("unable to find any pools")

// ConnectivityError is returned when the server cannot be reached at all,
// including when a request times out.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("failed to reach URL %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("the server could not fulfill the request: %s", httpstatus.Format(e.StatusCode))
}

// PoolListingError is returned when the targets document is not well-formed XML.
type PoolListingError struct {
	Err error
}

func (e *PoolListingError) Error() string {
	return fmt.Sprintf("failed to parse pool listing: %v", e.Err)
}

func (e *PoolListingError) Unwrap() error {
	return e.Err
}

// Is reports a malformed listing as ErrNoPools.
func (e *PoolListingError) Is(target error) bool {
	return target == ErrNoPools
}

// RejectedError is returned when the server accepted the HTTP request but
// answered with something other than a submission id.
type RejectedError struct {
	// Body is the trimmed response text from the server
	Body string
}

// rejectionCauses are the usual reasons CycleServer refuses a submission.
var rejectionCauses = []string{
	"A syntax error in your submission file",
	"You belong to multiple groups but no --group option was passed",
	"You passed a group that does not exist, remember: group names are case sensitive",
}

func (e *RejectedError) Error() string {
	var b strings.Builder
	b.WriteString("CycleServer rejected your submission")
	if e.Body != "" {
		fmt.Fprintf(&b, " (server said: %q)", e.Body)
	}
	b.WriteString("\nPossible causes for this failure include:")
	for _, cause := range rejectionCauses {
		b.WriteString("\n  * ")
		b.WriteString(cause)
	}
	return b.String()
}
