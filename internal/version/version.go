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

// Package version provides version information for the cyclesubmit binary.
package version

import (
	"fmt"
	"runtime"
)

// Version information. These variables are set via -ldflags during build.
var (
	// Version is the semantic version of the build.
	Version = "v0.0.0-dev"
	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"
	// BuildTime is the time the binary was built.
	BuildTime = "unknown"
)

// Name is the program name reported in version strings and request headers.
const Name = "cyclesubmit"

// Info contains version information.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	BuildTime string `json:"buildTime" yaml:"buildTime"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf(
		"%s %s (commit: %s, built: %s, go: %s, platform: %s)",
		Name,
		i.Version,
		i.GitCommit,
		i.BuildTime,
		i.GoVersion,
		i.Platform,
	)
}

// UserAgent returns the User-Agent sent to CycleServer, e.g.
// "cyclesubmit/v1.0.0 (linux/amd64)".
func (i Info) UserAgent() string {
	return fmt.Sprintf("%s/%s (%s)", Name, i.Version, i.Platform)
}
