/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/tuning-tables/pkg/logging"
)

const name = "ttgen"

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/tuning-tables/pkg/cli.version=1.0.0"
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file used for ConfigMap URIs (default: KUBECONFIG, ~/.kube/config, in-cluster)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "table",
		Usage:   "Output format (json, yaml, table)",
	}
}

// NewApp returns the root command.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Generate C++ tuning tables from a kernel tuning database",
		Version:               version + " (commit " + commit + ", built " + date + ")",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("TTGEN_DEBUG"),
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Emit logs as JSON",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefault(logging.Options{
				Output:  errWriter(cmd),
				Level:   logging.Level(cmd.Bool("debug")),
				JSON:    cmd.Bool("log-json"),
				Name:    name,
				Version: version,
			})
			return ctx, nil
		},
		Commands: []*cli.Command{
			generateCmd(),
			precisionsCmd(),
		},
	}
}

// Execute runs the CLI with the process arguments.
func Execute(ctx context.Context) error {
	return NewApp().Run(ctx, os.Args)
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
