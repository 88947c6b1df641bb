// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/siemens/pdknockr/lists"
	"github.com/siemens/pdknockr/noise"
	"github.com/siemens/pdknockr/types"
)

var (
	domainsArg      *string
	subdomainsArg   *string
	resolversArg    *string
	publicResolvers *bool
	publicURL       *string
	recordTypesArg  *string
	concurrency     *int
	timeout         *time.Duration
	noiseMode       *bool
	maxLabels       *int
	fixedType       *bool
	useTCP          *bool
	probeResolvers  *bool
	logDir          *string
	noJournal       *bool
	verbose         *bool
	noColor         *bool
	spinnerInterval *time.Duration
	debug           *bool

	recordTypes []types.RecordType // validated record types
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "pdknockr [flags]",
		Short:   "pdknockr knocks DNS resolvers with (noisy) queries for a set of domains",
		Version: "0.9",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *concurrency < 1 {
				return &types.ConfigError{
					Reason: fmt.Sprintf("--concurrency must be at least 1, got %d", *concurrency)}
			}
			if *timeout < 10*time.Millisecond {
				return &types.ConfigError{Reason: "--timeout must be at least 10ms"}
			}
			if *spinnerInterval < 10*time.Millisecond {
				return &types.ConfigError{Reason: "--spinner must be at least 10ms"}
			}
			if *domainsArg == "" {
				return &types.ConfigError{Reason: "no domains specified"}
			}
			if *resolversArg == "" && !*publicResolvers {
				return &types.ConfigError{Reason: "no resolvers specified"}
			}
			if *noiseMode {
				if *subdomainsArg == "" {
					return &types.ConfigError{Reason: "no subdomains specified for noise"}
				}
				if *maxLabels < noise.DefaultMinLabels {
					return &types.ConfigError{
						Reason: fmt.Sprintf("--max-labels must be at least %d", noise.DefaultMinLabels)}
				}
			}
			var err error
			recordTypes, err = types.ParseRecordTypes(*recordTypesArg)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			// Interrupting or terminating us stops knocking, but lets the
			// knocks in flight finish.
			ctx, cancel := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return KnockAndReport(ctx, cmd.OutOrStdout())
		},
	}
	// Sets up the flags.
	domainsArg = rootCmd.PersistentFlags().StringP(
		"domains", "d", "", "file with domains, or comma-separated list of domains")
	subdomainsArg = rootCmd.PersistentFlags().StringP(
		"subdomains", "s", "", "file with subdomain labels for noise, or comma-separated list of labels")
	resolversArg = rootCmd.PersistentFlags().StringP(
		"resolvers", "r", "", "file with DNS resolvers, or comma-separated list of resolvers")
	publicResolvers = rootCmd.PersistentFlags().Bool(
		"public-resolvers", false, "additionally knock public DNS resolvers fetched from --public-url")
	publicURL = rootCmd.PersistentFlags().String(
		"public-url", lists.DefaultPublicResolversURL, "URL of list of public DNS resolvers")
	recordTypesArg = rootCmd.PersistentFlags().StringP(
		"rectype", "t", "A,AAAA", "comma-separated list of DNS record types")
	concurrency = rootCmd.PersistentFlags().IntP(
		"concurrency", "c", 25, "maximum number of knocks in flight")
	timeout = rootCmd.PersistentFlags().Duration(
		"timeout", 3*time.Second, "timeout per DNS query")
	noiseMode = rootCmd.PersistentFlags().BoolP(
		"noise", "n", false, "knock with random subdomain noise, endlessly")
	maxLabels = rootCmd.PersistentFlags().Int(
		"max-labels", noise.DefaultMaxLabels, "maximum number of subdomain labels per noise name")
	fixedType = rootCmd.PersistentFlags().Bool(
		"fixed-type", false, "use the same random record type for all knocks of a domain")
	useTCP = rootCmd.PersistentFlags().Bool(
		"tcp", false, "knock using TCP instead of UDP")
	probeResolvers = rootCmd.PersistentFlags().Bool(
		"probe", false, "ping resolvers first and skip unreachable ones")
	logDir = rootCmd.PersistentFlags().String(
		"log-dir", "logs", "directory for knock journals")
	noJournal = rootCmd.PersistentFlags().Bool(
		"no-journal", false, "don't keep a knock journal")
	verbose = rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false, "show each knock instead of a status line")
	noColor = rootCmd.PersistentFlags().Bool(
		"no-color", false, "disable colored output")
	spinnerInterval = rootCmd.PersistentFlags().Duration(
		"spinner", 100*time.Millisecond, "spinner interval")
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	return
}

// contextOf returns the command's context, or a background context if there
// is none.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
