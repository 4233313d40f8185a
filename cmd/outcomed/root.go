// Copyright 2025 The Rivaas Authors
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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rivaas.dev/outcome/codec"
)

// Set at build time with -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	environ    []string
}

// settings loads the configuration and applies flag overrides.
func (o *rootOptions) settings(cmd *cobra.Command) (*Settings, error) {
	s, _, err := loadSettings(cmd.Context(), o.configPath, o.environ)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		s.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		s.Log.Format = o.logFormat
	}

	return s, nil
}

func newRootCommand(environ []string) *cobra.Command {
	opts := &rootOptions{environ: environ}

	root := &cobra.Command{
		Use:          "outcomed",
		Short:        "Forecast API answering with translated outcomes",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "configuration file (json, yaml or toml)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "json", "log format: json, text, console")

	root.AddCommand(
		newServeCommand(opts),
		newRoutesCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)

	return root
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				s.Server.Addr = addr
			}

			logger, err := newLogger(s.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), s, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), s.Server.ShutdownTimeout)
				defer cancel()
				if err := a.close(ctx); err != nil {
					logger.LogError(err, "flush telemetry failed")
				}
			}()

			ln, err := net.Listen("tcp", s.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", s.Server.Addr, err)
			}
			srv := &http.Server{
				Handler:           a.handler,
				ReadTimeout:       s.Server.ReadTimeout,
				ReadHeaderTimeout: s.Server.ReadTimeout,
				WriteTimeout:      s.Server.WriteTimeout,
				ErrorLog:          slog.NewLogLogger(logger.Logger().Handler(), slog.LevelError),
			}

			return serve(cmd.Context(), srv, ln, s.Server.ShutdownTimeout, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")

	return cmd
}

func newRoutesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(s.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), s, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = a.close(context.Background()) }()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMETHOD\tPATTERN")
			for _, rt := range a.routes.Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Name, rt.Method, rt.Pattern)
			}

			return tw.Flush()
		},
	}
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}

			if format != string(codec.TypeJSON) && format != string(codec.TypeYAML) {
				return fmt.Errorf("config format %q: must be json or yaml", format)
			}
			enc, err := codec.GetEncoder(codec.Type(format))
			if err != nil {
				return err
			}

			redacted := *s
			redacted.Weather.APIKey = ""
			out, err := enc.Encode(redacted)
			if err != nil {
				return err
			}
			if len(out) == 0 {
				return errors.New("empty configuration output")
			}
			_, err = cmd.OutOrStdout().Write(out)
			if err == nil && out[len(out)-1] != '\n' {
				_, err = fmt.Fprintln(cmd.OutOrStdout())
			}

			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "output format: json or yaml")

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "outcomed %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		},
	}
}
