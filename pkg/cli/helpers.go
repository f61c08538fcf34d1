/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
	"github.com/NVIDIA/tuning-tables/pkg/serializer"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitCanceled    = 2
	ExitInvalid     = 3
	ExitNotFound    = 4
	ExitUnavailable = 5
	ExitTimeout     = 6
)

// ExitCode maps err to a process exit code. Errors without a structured code,
// such as inconsistent databases, exit with ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	switch cnserrors.CodeOf(err) {
	case cnserrors.ErrCodeInvalidRequest:
		return ExitInvalid
	case cnserrors.ErrCodeNotFound:
		return ExitNotFound
	case cnserrors.ErrCodeUnavailable:
		return ExitUnavailable
	case cnserrors.ErrCodeTimeout:
		return ExitTimeout
	default:
		return ExitFailure
	}
}

// parseOutputFormat extracts and validates the output format from CLI flags.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown output format: %q, valid formats are: %s",
			outFormat, strings.Join(serializer.SupportedFormats(), ", ")))
	}
	return outFormat, nil
}
