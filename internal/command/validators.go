// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/stack"
	"github.com/tfctl/cromwell-infra/internal/synth"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// StackFlagsValidator checks the stack flags together before the action runs
// so that a bad bucket name fails fast with the flag name attached.
func StackFlagsValidator(_ context.Context, c *cli.Command) error {
	props := stack.Props{
		BucketName: c.String("bucket-name"),
		Region:     c.String("region"),
	}
	props.ApplyDefaults()
	if err := props.Validate(); err != nil {
		return fmt.Errorf("invalid stack flags: %w", err)
	}

	if _, err := synth.ParseContext(c.StringSlice("context")); err != nil {
		return fmt.Errorf("invalid --context: %w", err)
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "yaml"}
	if s, ok := value.(string); ok && slices.Contains(validOutputFlagValues, s) {
		return nil
	}
	return fmt.Errorf("must be one of %v", validOutputFlagValues)
}

func FormatValidator(value any) error {
	s, _ := value.(string)
	return synth.ValidateFormat(s)
}
