// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/aws"
	"github.com/tfctl/cromwell-infra/internal/log"
	"github.com/tfctl/cromwell-infra/internal/meta"
	"github.com/tfctl/cromwell-infra/internal/stack"
	"github.com/tfctl/cromwell-infra/internal/synth"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// StackOptions builds synthesis options from the stack flags. An explicit
// --bucket-name beats an S3BucketName context value.
func StackOptions(cmd *cli.Command, format string) (synth.Options, error) {
	context, err := synth.ParseContext(cmd.StringSlice("context"))
	if err != nil {
		return synth.Options{}, err
	}

	return synth.Options{
		StackID: stack.DefaultStackID,
		Props: stack.Props{
			BucketName: cmd.String("bucket-name"),
			Region:     cmd.String("region"),
			StackName:  cmd.String("stack-name"),
		},
		Context: context,
		Format:  format,
	}, nil
}

// Synthesize runs a synthesis from the stack flags.
func Synthesize(cmd *cli.Command, format string) (*synth.Result, error) {
	opts, err := StackOptions(cmd, format)
	if err != nil {
		return nil, err
	}
	log.Debugf("synthesizing: bucket=%q region=%q context=%v", opts.Props.BucketName, opts.Props.Region, opts.Context)
	return synth.Synthesize(opts)
}

// CacheKey names the cached template for the stack the flags describe.
func CacheKey(cmd *cli.Command) string {
	if name := cmd.String("stack-name"); name != "" {
		return name
	}
	return stack.DefaultStackID
}

// S3API is the part of the S3 client the commands use.
type S3API interface {
	aws.HeadBucketAPI
	aws.ObjectAPI
}

// s3ClientFactory builds the S3 client from the AWS and stack flags. Tests
// swap it.
var s3ClientFactory = func(ctx context.Context, cmd *cli.Command) (S3API, error) {
	cfg, err := aws.LoadAWSConfig(ctx,
		aws.WithProfile(cmd.String("profile")),
		aws.WithRegion(cmd.String("region")),
	)
	if err != nil {
		return nil, err
	}

	var optFns []func(*s3v2.Options)
	if url := cmd.String("endpoint-url"); url != "" {
		optFns = append(optFns, aws.WithS3Endpoint(url))
	}
	return aws.NewS3(cfg, optFns...), nil
}
