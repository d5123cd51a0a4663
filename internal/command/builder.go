// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/meta"
)

// StackCommandBuilder constructs a cli.Command for the subcommands that
// synthesize the stack (synth, outputs, diff, preflight) using a consistent
// pattern. The builder wires metadata, prepends the stack flags, and sets up
// validators.
type StackCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (scb *StackCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      scb.Name,
		Usage:     scb.Usage,
		UsageText: scb.UsageText,
		Metadata: map[string]any{
			"meta": scb.Meta,
		},
		Flags: append(NewStackFlags(scb.Name, scb.Meta.Config.Source), scb.Flags...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, StackFlagsValidator(ctx, c)
		},
		Action: scb.Action,
	}
}
