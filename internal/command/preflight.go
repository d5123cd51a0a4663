// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/aws"
	"github.com/tfctl/cromwell-infra/internal/log"
	"github.com/tfctl/cromwell-infra/internal/meta"
)

// ErrBucketCollision is returned by preflight --strict when the bucket the
// stack would create already exists.
var ErrBucketCollision = errors.New("bucket already exists")

// preflightCommandAction is the action handler for the "preflight" subcommand.
// The stack declares the bucket whether or not a name is supplied, so a
// supplied name that already exists makes the deployment fail.
func preflightCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	w := cmd.Root().Writer
	name := cmd.String("bucket-name")
	if name == "" {
		fmt.Fprintln(w, "No bucket name supplied. The stack will create a bucket and CloudFormation will name it.")
		return nil
	}

	api, err := s3ClientFactory(ctx, cmd)
	if err != nil {
		return err
	}

	exists, err := aws.BucketExists(ctx, api, name)
	if err != nil {
		return err
	}

	if !exists {
		fmt.Fprintf(w, "Bucket %s does not exist. The stack will create it.\n", name)
		return nil
	}

	fmt.Fprintf(w, "Bucket %s already exists. The stack still declares it, so the deployment will fail with a name collision.\n", name)
	if cmd.Bool("strict") {
		return fmt.Errorf("%w: %s", ErrBucketCollision, name)
	}
	log.Warnf("bucket collision: bucket=%s", name)
	return nil
}

// preflightCommandBuilder constructs the cli.Command for "preflight".
func preflightCommandBuilder(meta meta.Meta) *cli.Command {
	return (&StackCommandBuilder{
		Name:      "preflight",
		Usage:     "check the bucket name against S3 before deploying",
		UsageText: "cromwell-infra preflight [options]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "fail when the bucket already exists",
				Value: false,
			},
		}, NewAWSFlags()...),
		Action: preflightCommandAction,
		Meta:   meta,
	}).Build()
}
