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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/scttfrdmn/cyclesubmit/internal/config"
	"github.com/scttfrdmn/cyclesubmit/pkg/cycleserver"
	"github.com/spf13/cobra"
)

var poolsOutput string

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "List the pools registered with CycleServer",
	Long: `List the target pools registered with a CycleServer instance.

Submissions go to the first pool listed unless --poolid is passed to the
submit command.`,
	Example: `  # List pools on a remote instance
  cyclesubmit pools --host sched.example.com:8080 -u alice

  # List pools as YAML
  cyclesubmit pools -o yaml`,
	Args: cobra.NoArgs,
	RunE: runPools,
}

var poolsBindings = []config.Binding{
	{Key: "server.host", Flag: "host"},
	{Key: "server.timeout", Flag: "timeout"},
	{Key: "submit.username", Flag: "username"},
}

func init() {
	poolsCmd.Flags().StringVarP(&poolsOutput, "output", "o", "text", "output format (text|json|yaml)")
	rootCmd.AddCommand(poolsCmd)
}

func runPools(cmd *cobra.Command, args []string) error {
	if err := validateOutputFormat(poolsOutput); err != nil {
		return err
	}

	cfg, err := config.LoadFile(cfgFile, cmd.Flags(), poolsBindings...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Only authenticate when a user was given
	var creds cycleserver.Credentials
	if cfg.Submit.Username != "" {
		creds, err = newTerminalPrompter().credentials(cfg.Submit.Username, password)
		if err != nil {
			return err
		}
	}

	client := newClient(cfg)
	pools, err := client.ListPools(cmd.Context(), creds)
	if err != nil {
		return fmt.Errorf("failed to list pools: %w", err)
	}

	return render(cmd.OutOrStdout(), poolsOutput, pools, func(w io.Writer) {
		printPools(w, client.Host, pools)
	})
}

func printPools(w io.Writer, host string, pools []cycleserver.Pool) {
	if len(pools) == 0 {
		fmt.Fprintf(w, "📋 No pools registered with %s\n", host)
		return
	}

	fmt.Fprintf(w, "📋 Pools on %s (%d):\n\n", host, len(pools))

	idWidth := len("POOL ID")
	for _, pool := range pools {
		if len(pool.ID) > idWidth {
			idWidth = len(pool.ID)
		}
	}

	fmt.Fprintf(w, "%-*s  %s\n", idWidth, "POOL ID", "ATTRIBUTES")
	fmt.Fprintf(w, "%s  %s\n", strings.Repeat("-", idWidth), strings.Repeat("-", 10))

	for i, pool := range pools {
		attrs := formatAttributes(pool.Attributes)
		if i == 0 {
			attrs = strings.TrimSpace(attrs + " (default)")
		}
		fmt.Fprintf(w, "%-*s  %s\n", idWidth, pool.ID, attrs)
	}
}

// formatAttributes renders attributes as sorted key=value pairs.
func formatAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, attrs[k]))
	}
	return strings.Join(pairs, " ")
}
