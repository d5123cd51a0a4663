// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/aws"
	"github.com/tfctl/cromwell-infra/internal/baseline"
	"github.com/tfctl/cromwell-infra/internal/differ"
	"github.com/tfctl/cromwell-infra/internal/log"
	"github.com/tfctl/cromwell-infra/internal/meta"
	"github.com/tfctl/cromwell-infra/internal/synth"
)

// ErrChanged is returned by diff --exit-code when the templates differ.
var ErrChanged = errors.New("templates differ")

// diffCommandAction is the action handler for the "diff" subcommand. It
// compares a fresh synthesis with --against or the last cached synth.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	src, err := baseline.New(cmd.String("against"), baseline.Options{
		StackKey: CacheKey(cmd),
		NewS3: func(ctx context.Context) (aws.ObjectAPI, error) {
			return s3ClientFactory(ctx, cmd)
		},
	})
	if err != nil {
		return err
	}

	if cmd.Bool("pick") {
		if err := pickBaseline(ctx, cmd, src); err != nil {
			return err
		}
	}

	before, err := src.Template(ctx)
	if err != nil {
		return err
	}
	log.Debugf("baseline loaded: source=%s", src)

	res, err := Synthesize(cmd, synth.FormatJSON)
	if err != nil {
		return err
	}

	changed, err := differ.Diff(cmd.Root().Writer, before, res.Template, differ.Options{
		Color:  cmd.Bool("color"),
		Ignore: cmd.StringSlice("ignore"),
	})
	if err != nil {
		return err
	}
	if changed && cmd.Bool("exit-code") {
		return ErrChanged
	}
	return nil
}

// pickVersion shows the version picker. Tests swap it.
var pickVersion = func(ctx context.Context, cmd *cli.Command, title string, versions []aws.ObjectVersion) (aws.ObjectVersion, error) {
	return baseline.PickVersion(ctx, title, versions, os.Stdin, cmd.Root().ErrWriter)
}

// pickBaseline lets the user choose which version of an S3 baseline to
// compare with.
func pickBaseline(ctx context.Context, cmd *cli.Command, src baseline.Source) error {
	obj, ok := src.(*baseline.S3)
	if !ok || obj.VersionID != "" {
		return errors.New("--pick needs --against s3://bucket/key without a versionId")
	}

	versions, err := obj.Versions(ctx)
	if err != nil {
		return err
	}

	v, err := pickVersion(ctx, cmd, obj.String(), versions)
	if err != nil {
		return err
	}
	obj.Pin(v)
	log.Infof("baseline version picked: source=%s modified=%s", obj, v.LastModified)
	return nil
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&StackCommandBuilder{
		Name:      "diff",
		Usage:     "compare the template with a previous synth",
		UsageText: "cromwell-infra diff [options]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "against",
				Aliases: []string{"a"},
				Usage:   "JSON template file or s3://bucket/key to compare with. Defaults to the last synth",
			},
			&cli.BoolFlag{
				Name:        "color",
				Usage:       "enable colored diff output",
				Value:       differ.ColorDefault(),
				HideDefault: true,
			},
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "exit non-zero when the templates differ",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "choose the version of an s3:// baseline interactively",
				Value: false,
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "top-level template section to leave out, e.g. Metadata. May be repeated",
			},
		}, NewAWSFlags()...),
		Action: diffCommandAction,
		Meta:   meta,
	}).Build()
}
