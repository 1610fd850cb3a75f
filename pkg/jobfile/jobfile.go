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

// Package jobfile loads Condor submission files for CycleServer.
package jobfile

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// DescriptionAttr is the submit-file attribute CycleServer reads the
// submission description from.
const DescriptionAttr = "+cycleSubmissionDescription"

// File is a loaded submission file.
type File struct {
	// Source is the local path or s3:// URI the file was read from
	Source string
	// Content is the file content as read
	Content string
	// Description is the optional submission description
	Description string
}

// Payload returns the text to submit. When a description is set it is
// injected as the first line, followed by a blank line.
func (f *File) Payload() string {
	return WithDescription(f.Content, f.Description)
}

// WithDescription prefixes content with a description directive.
func WithDescription(content, description string) string {
	if description == "" {
		return content
	}
	return fmt.Sprintf("%s = %q\n\n%s", DescriptionAttr, description, content)
}

// Fetcher retrieves remote submission files.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (string, error)
}

// Read reads a local submission file.
func Read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("unable to find submission file: %s", path)
		}
		return "", fmt.Errorf("failed to stat submission file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("unable to find submission file: %s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read submission file: %w", err)
	}

	return string(data), nil
}

// Load reads a submission file from a local path, or through remote when
// source is an s3:// URI. remote may be nil for local files.
func Load(ctx context.Context, source, description string, remote Fetcher) (*File, error) {
	var (
		content string
		err     error
	)

	if IsS3URI(source) {
		if remote == nil {
			return nil, fmt.Errorf("no S3 source configured for %s", source)
		}
		content, err = remote.Fetch(ctx, source)
	} else {
		content, err = Read(source)
	}
	if err != nil {
		return nil, err
	}

	return &File{
		Source:      source,
		Content:     content,
		Description: description,
	}, nil
}
