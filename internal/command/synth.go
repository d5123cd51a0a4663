// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/cacheutil"
	"github.com/tfctl/cromwell-infra/internal/log"
	"github.com/tfctl/cromwell-infra/internal/meta"
	"github.com/tfctl/cromwell-infra/internal/output"
	"github.com/tfctl/cromwell-infra/internal/synth"
)

var summaryColumns = []output.Column{
	{Key: "type", Title: "TYPE"},
	{Key: "count", Title: "COUNT"},
}

// synthCommandAction is the action handler for the "synth" subcommand. It
// renders the template to --out or stdout, records the JSON form for diff, and
// optionally prints a resource summary.
func synthCommandAction(_ context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	res, err := Synthesize(cmd, cmd.String("format"))
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if path := cmd.String("out"); path != "" {
		if err := os.WriteFile(path, res.Template, 0o644); err != nil { //nolint:mnd
			return fmt.Errorf("failed to write template: %w", err)
		}
		log.Infof("template written: path=%s size=%s", path, res.Size())
	} else if _, err := w.Write(res.Template); err != nil {
		return err
	}

	if err := cacheTemplate(cmd, res); err != nil {
		log.WithError(err).Warnf("template not cached")
	}

	if cmd.Bool("summary") {
		cmd.Metadata["header"] = fmt.Sprintf("%s (%s)", res.StackID, res.Size())
		cmd.Metadata["footer"] = fmt.Sprintf("%d resources", totalResources(res.Summary))
		// The template owns stdout unless it went to a file.
		sw := cmd.Root().ErrWriter
		if cmd.String("out") != "" {
			sw = w
		}
		return output.Spit(res.Summary, summaryColumns, cmd, sw, nil)
	}

	return nil
}

// cacheTemplate stores the JSON form of res so diff has a baseline whatever
// --format was asked for.
func cacheTemplate(cmd *cli.Command, res *synth.Result) error {
	template := res.Template
	if res.Format != synth.FormatJSON {
		var err error
		if template, err = synth.Render(res.Document, synth.FormatJSON); err != nil {
			return err
		}
	}
	return cacheutil.SaveTemplate(CacheKey(cmd), template)
}

func totalResources(summary []synth.ResourceCount) (n int) {
	for _, rc := range summary {
		n += rc.Count
	}
	return
}

// synthCommandBuilder constructs the cli.Command for "synth".
func synthCommandBuilder(meta meta.Meta) *cli.Command {
	return (&StackCommandBuilder{
		Name:      "synth",
		Usage:     "synthesize the CloudFormation template",
		UsageText: "cromwell-infra synth [options]",
		Flags: append([]cli.Flag{
			NewFormatFlag(),
			&cli.StringFlag{
				Name:  "out",
				Usage: "write the template to this file instead of stdout",
				Validator: func(value string) error {
					if strings.TrimSpace(value) == "" {
						return fmt.Errorf("must not be blank")
					}
					return nil
				},
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "print resource counts by type",
				Value: false,
			},
		}, NewOutputFlags(false)...),
		Action: synthCommandAction,
		Meta:   meta,
	}).Build()
}
