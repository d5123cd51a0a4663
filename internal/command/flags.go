// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/synth"
)

// NewStackFlags returns the flags every stack subcommand shares. ns is the
// subcommand and path the config file; both feed the config file fallback.
func NewStackFlags(ns string, path string) []cli.Flag {
	bucketName := &cli.StringFlag{
		Name:    "bucket-name",
		Aliases: []string{"b"},
		Usage:   "name of an existing workflow bucket. Empty creates a new one",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("S3_BUCKET_NAME"),
		),
	}

	region := &cli.StringFlag{
		Name:    "region",
		Aliases: []string{"r"},
		Usage:   "region used for the DHCP domain name. Empty defers it to deploy time",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("CDK_DEFAULT_REGION"),
			cli.EnvVar("AWS_REGION"),
		),
	}

	stackName := &cli.StringFlag{
		Name:  "stack-name",
		Usage: "CloudFormation stack name",
	}

	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, bucketName),
		NameSpacedValueChainFlagFromConfigFile(ns, path, region),
		NameSpacedValueChainFlagFromConfigFile(ns, path, stackName),
		&cli.StringSliceFlag{
			Name:    "context",
			Aliases: []string{"c"},
			Usage:   "CDK context value as key=value. May be repeated",
		},
	}
}

// NewOutputFlags returns the flags that shape tabular output. withFormat adds
// --output for commands whose result can also be emitted as JSON or YAML.
func NewOutputFlags(withFormat bool) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "color",
			Usage: "enable colored text output",
			Value: false,
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "padding between table columns",
			Value: 2, //nolint:mnd
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	if withFormat {
		flags = append(flags, &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		})
	}

	return
}

// NewAWSFlags returns the flags that shape the S3 client.
func NewAWSFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "endpoint-url",
			Usage: "S3 compatible endpoint to use instead of AWS",
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "AWS shared config profile",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("AWS_PROFILE"),
			),
		},
	}
}

// NewFormatFlag returns the --format flag for rendered templates.
func NewFormatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "template format",
		Value:   synth.FormatJSON,
		Validator: func(value string) error {
			return FlagValidators(value, FormatValidator)
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	if path == "" {
		return flag
	}

	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
