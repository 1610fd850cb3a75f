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
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/scttfrdmn/cyclesubmit/internal/config"
	"github.com/scttfrdmn/cyclesubmit/internal/version"
	"github.com/scttfrdmn/cyclesubmit/pkg/cycleserver"
	"github.com/scttfrdmn/cyclesubmit/pkg/jobfile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	verbose  bool
	host     string
	timeout  time.Duration
	username string
	password string

	group        string
	description  string
	poolID       string
	showProgress bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "cyclesubmit [flags] <submission file>",
	Short: "Submit Condor jobs to a CycleServer meta-scheduler",
	Long: `cyclesubmit pushes Condor jobs to a CycleServer meta-scheduler instance from
the command line. It offers the same features as the Submit Job page in
CycleServer in a form that is easy to use from scripts.

The submission file is a regular Condor submit description. It may be a local
path or an s3://bucket/key URI. Unless --poolid is given, the first pool
registered with the CycleServer instance is used.

Missing usernames and passwords are prompted for.`,
	Example: `  # Submit a job to a local CycleServer
  cyclesubmit job.sub

  # Submit to a remote instance as a member of a specific group
  cyclesubmit --host sched.example.com:8080 -u alice -g "My Lab" job.sub

  # Attach a description that shows up in CycleServer
  cyclesubmit -d "nightly regression" job.sub

  # Submit a file stored in S3 and print the result as JSON
  cyclesubmit -o json s3://jobs/nightly/run.sub`,
	Args:              cobra.ExactArgs(1),
	Version:           version.Get().Version,
	SilenceUsage:      true,
	SilenceErrors:     false,
	PersistentPreRunE: setupLogging,
	RunE:              runSubmit,
}

// submitBindings map config keys to the submit command's flags.
var submitBindings = []config.Binding{
	{Key: "server.host", Flag: "host"},
	{Key: "server.timeout", Flag: "timeout"},
	{Key: "submit.username", Flag: "username"},
	{Key: "submit.group", Flag: "group"},
	{Key: "submit.pool_id", Flag: "poolid"},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cyclesubmit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&host, "host", "localhost:8080", "host name or IP address (with port) of the CycleServer instance")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", cycleserver.DefaultTimeout, "timeout for each request to CycleServer")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "username for submission")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "password for submission")

	rootCmd.Flags().StringVarP(&group, "group", "g", "", "group name for submission")
	rootCmd.Flags().StringVarP(&description, "description", "d", "", "optional description for submission")
	rootCmd.Flags().StringVar(&poolID, "poolid", "", "pool ID for the target pool (default is the first pool)")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "show upload progress")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format (text|json|yaml)")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
	return nil
}

func newClient(cfg *config.Config) *cycleserver.Client {
	client := cycleserver.NewClient(cfg.Server.Host, cfg.Server.Timeout)
	client.UserAgent = version.Get().UserAgent()
	client.Logger = logrus.StandardLogger()
	return client
}

// submissionResult is the outcome printed by the submit command.
type submissionResult struct {
	SubmissionID string `json:"submissionId" yaml:"submissionId"`
	Host         string `json:"host" yaml:"host"`
	Pool         string `json:"pool" yaml:"pool"`
	User         string `json:"user" yaml:"user"`
	Group        string `json:"group,omitempty" yaml:"group,omitempty"`
	File         string `json:"file" yaml:"file"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if err := validateOutputFormat(outputFormat); err != nil {
		return err
	}

	cfg, err := config.LoadFile(cfgFile, cmd.Flags(), submitBindings...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	// Read the submission file before asking for credentials
	source := args[0]
	var remote jobfile.Fetcher
	if jobfile.IsS3URI(source) {
		s3Source, err := jobfile.NewS3Source(ctx, cfg.AWS.Region)
		if err != nil {
			return err
		}
		remote = s3Source
	}
	file, err := jobfile.Load(ctx, source, description, remote)
	if err != nil {
		return err
	}

	creds, err := newTerminalPrompter().credentials(cfg.Submit.Username, password)
	if err != nil {
		return err
	}

	client := newClient(cfg)
	if showProgress {
		client.Progress = uploadProgress(cmd.ErrOrStderr())
	}

	pool := cfg.Submit.PoolID
	if pool == "" {
		pool, err = client.ResolvePool(ctx, creds)
		// An empty listing needs no detail; a bad one keeps its cause.
		if err == cycleserver.ErrNoPools {
			return fmt.Errorf("unable to find any pools registered to your CycleServer instance at %s", client.Host)
		}
		if err != nil {
			return fmt.Errorf("unable to find any pools registered to your CycleServer instance at %s: %w", client.Host, err)
		}
	}

	result := submissionResult{
		Host:        client.Host,
		Pool:        pool,
		User:        creds.Username,
		Group:       cfg.Submit.Group,
		File:        file.Source,
		Description: file.Description,
	}

	if outputFormat == "text" {
		printSubmissionDetails(out, result)
	}

	result.SubmissionID, err = client.Submit(ctx, cycleserver.Submission{
		PoolID:  pool,
		User:    creds.Username,
		Group:   cfg.Submit.Group,
		Payload: file.Payload(),
	}, creds)
	if err != nil {
		return fmt.Errorf("unable to create submission: %w", err)
	}

	return render(out, outputFormat, result, func(w io.Writer) {
		fmt.Fprintf(w, "\n✅ Submission %s created successfully\n", result.SubmissionID)
	})
}

func printSubmissionDetails(w io.Writer, r submissionResult) {
	fmt.Fprintf(w, "Submission details:\n")
	fmt.Fprintf(w, "   Username        : %s\n", r.User)
	fmt.Fprintf(w, "   Submission File : %s\n", r.File)
	if r.Group != "" {
		fmt.Fprintf(w, "   Group           : %s\n", r.Group)
	}
	if r.Description != "" {
		fmt.Fprintf(w, "   Description     : %s\n", r.Description)
	}
	if verbose {
		fmt.Fprintf(w, "   Pool ID         : %s\n", r.Pool)
	}
}

// uploadProgress draws a byte progress bar on w while a payload uploads.
func uploadProgress(w io.Writer) cycleserver.ProgressFunc {
	return func(body io.Reader, size int64) io.Reader {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetDescription("📤 Uploading"),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(w)
			}),
		)
		reader := progressbar.NewReader(body, bar)
		return &reader
	}
}
