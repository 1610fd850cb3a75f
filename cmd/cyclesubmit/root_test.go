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

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// fakeCycleServer serves a targets listing and records submissions.
type fakeCycleServer struct {
	targets  string
	reply    string
	query    string
	body     string
	user     string
	password string
}

func (f *fakeCycleServer) start(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/condor/submit/targets", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(f.targets))
	})
	mux.HandleFunc("/condor/submit/submission", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.query = r.URL.RawQuery
		f.body = string(data)
		f.user, f.password, _ = r.BasicAuth()
		w.Write([]byte(f.reply))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

// resetFlags restores every flag to its default between command runs.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("failed to reset flag %s: %v", f.Name, err)
		}
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, sub := range rootCmd.Commands() {
		sub.Flags().VisitAll(reset)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(t)

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeJobFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.sub")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write job file: %v", err)
	}
	return path
}

func TestSubmitCommand(t *testing.T) {
	server := &fakeCycleServer{
		targets: `<pools><pool poolId="p1"/><pool poolId="p2"/></pools>`,
		reply:   "99",
	}
	url := server.start(t)
	job := writeJobFile(t, "universe=vanilla\nqueue\n")

	out, err := execute(t, "--host", url, "-u", "alice", "-p", "secret", job)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if !strings.Contains(out, "Submission 99 created successfully") {
		t.Errorf("output missing success line:\n%s", out)
	}
	if !strings.Contains(out, "Username        : alice") {
		t.Errorf("output missing submission details:\n%s", out)
	}
	if server.query != "pool=p1&user=alice" {
		t.Errorf("query = %q, want pool=p1&user=alice", server.query)
	}
	if server.body != "universe=vanilla\nqueue\n" {
		t.Errorf("body = %q", server.body)
	}
	if server.user != "alice" || server.password != "secret" {
		t.Errorf("basic auth = %s:%s", server.user, server.password)
	}
}

func TestSubmitCommandDescriptionAndGroup(t *testing.T) {
	server := &fakeCycleServer{reply: "12"}
	url := server.start(t)
	job := writeJobFile(t, "queue\n")

	out, err := execute(t, "--host", url, "-u", "alice", "-p", "pw",
		"--poolid", "explicit", "-g", "My Lab", "-d", "nightly", "-o", "json", job)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if server.query != "pool=explicit&user=alice&group=My%20Lab" {
		t.Errorf("query = %q", server.query)
	}
	if server.body != "+cycleSubmissionDescription = \"nightly\"\n\nqueue\n" {
		t.Errorf("body = %q", server.body)
	}

	var result submissionResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.SubmissionID != "12" || result.Pool != "explicit" || result.Group != "My Lab" {
		t.Errorf("result = %+v", result)
	}
}

func TestSubmitCommandRejected(t *testing.T) {
	server := &fakeCycleServer{
		targets: `<pools><pool poolId="p1"/></pools>`,
		reply:   "ERROR: bad group",
	}
	url := server.start(t)
	job := writeJobFile(t, "queue\n")

	_, err := execute(t, "--host", url, "-u", "alice", "-p", "pw", job)
	if err == nil {
		t.Fatal("expected rejection error")
	}
	if !strings.Contains(err.Error(), "unable to create submission") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(err.Error(), "--group") {
		t.Errorf("error should mention group guidance: %v", err)
	}
}

func TestSubmitCommandNoPools(t *testing.T) {
	tests := []struct {
		name       string
		targets    string
		wantDetail string
	}{
		{
			name:    "empty listing",
			targets: `<pools/>`,
		},
		{
			name:       "malformed listing",
			targets:    "Internal error",
			wantDetail: "failed to parse pool listing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := &fakeCycleServer{targets: tt.targets, reply: "1"}
			url := server.start(t)
			job := writeJobFile(t, "queue\n")

			_, err := execute(t, "--host", url, "-u", "alice", "-p", "pw", job)
			if err == nil {
				t.Fatal("expected error when no pools are registered")
			}
			if n := strings.Count(err.Error(), "unable to find any pools"); n != 1 {
				t.Errorf("error mentions missing pools %d times: %v", n, err)
			}
			if tt.wantDetail != "" && !strings.Contains(err.Error(), tt.wantDetail) {
				t.Errorf("error = %v, want %q", err, tt.wantDetail)
			}
			if server.query != "" {
				t.Error("no submission should be attempted without a pool")
			}
		})
	}
}

func TestSubmitCommandMissingFile(t *testing.T) {
	_, err := execute(t, "-u", "alice", "-p", "pw", filepath.Join(t.TempDir(), "missing.sub"))
	if err == nil || !strings.Contains(err.Error(), "unable to find submission file") {
		t.Errorf("error = %v, want missing file error", err)
	}
}

func TestSubmitCommandInvalidOutput(t *testing.T) {
	job := writeJobFile(t, "queue\n")
	if _, err := execute(t, "-u", "alice", "-p", "pw", "-o", "xml", job); err == nil {
		t.Error("expected error for invalid output format")
	}
}

func TestPoolsCommand(t *testing.T) {
	server := &fakeCycleServer{
		targets: `<pools><pool poolId="p1" name="Main"/><pool/><pool poolId="p2"/></pools>`,
	}
	url := server.start(t)

	out, err := execute(t, "pools", "--host", url)
	if err != nil {
		t.Fatalf("pools failed: %v", err)
	}
	if !strings.Contains(out, "Pools on") || !strings.Contains(out, "(2)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "name=Main (default)") {
		t.Errorf("first pool should be marked default:\n%s", out)
	}

	out, err = execute(t, "pools", "--host", url, "-o", "yaml")
	if err != nil {
		t.Fatalf("pools -o yaml failed: %v", err)
	}
	var pools []map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &pools); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(pools) != 2 || pools[0]["id"] != "p1" {
		t.Errorf("pools = %v", pools)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "cyclesubmit ") {
		t.Errorf("version output = %q", out)
	}

	out, err = execute(t, "version", "-o", "json")
	if err != nil {
		t.Fatalf("version -o json failed: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if info["version"] == "" {
		t.Error("version missing from JSON output")
	}
}

func TestFormatAttributes(t *testing.T) {
	got := formatAttributes(map[string]string{"type": "condor", "name": "Main"})
	if got != "name=Main type=condor" {
		t.Errorf("formatAttributes() = %q", got)
	}
	if formatAttributes(nil) != "" {
		t.Error("formatAttributes(nil) should be empty")
	}
}
