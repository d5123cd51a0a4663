// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/log"
	"github.com/tfctl/cromwell-infra/internal/meta"
	"github.com/tfctl/cromwell-infra/internal/output"
	"github.com/tfctl/cromwell-infra/internal/outputs"
	"github.com/tfctl/cromwell-infra/internal/synth"
)

var outputsColumns = []output.Column{
	{Key: "name", Title: "OUTPUT"},
	{Key: "value", Title: "VALUE"},
	{Key: "description", Title: "DESCRIPTION"},
}

// outputsCommandAction is the action handler for the "outputs" subcommand. It
// previews each stack output as far as it can be resolved before deployment.
func outputsCommandAction(_ context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	res, err := Synthesize(cmd, synth.FormatJSON)
	if err != nil {
		return err
	}

	values, err := outputs.Preview(res.Template)
	if err != nil {
		return err
	}

	return output.Spit(values, outputsColumns, cmd, cmd.Root().Writer, deployTimeValues)
}

// deployTimeValues replaces the value of each unresolved output with what it
// waits on.
func deployTimeValues(rows []map[string]interface{}) error {
	for _, row := range rows {
		if resolved, _ := row["resolved"].(bool); !resolved {
			row["value"] = "<" + output.InterfaceToString(row["reference"], "deploy time") + ">"
		}
	}
	return nil
}

// outputsCommandBuilder constructs the cli.Command for "outputs".
func outputsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&StackCommandBuilder{
		Name:      "outputs",
		Usage:     "preview the stack outputs",
		UsageText: "cromwell-infra outputs [options]",
		Flags:     NewOutputFlags(true),
		Action:    outputsCommandAction,
		Meta:      meta,
	}).Build()
}
