// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

var (
	bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)
	regionPattern     = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)
)

// Tag is a key/value label applied to every taggable resource in the stack.
type Tag struct {
	Key   string
	Value string
}

// DefaultTags are applied when Props.Tags is empty.
var DefaultTags = []Tag{
	{Key: "Name", Value: "GenomicsWorkflowStack"},
	{Key: "Environment", Value: "Production"},
}

// Props configures a GenomicsWorkflowStack.
//
// BucketName is the S3BucketName value. Empty means "create a bucket and
// export its identity"; non-empty means the bucket is reported under the
// given name. Region feeds the DHCP domain name only; empty defers it to the
// AWS::Region pseudo parameter.
type Props struct {
	BucketName  string
	Region      string
	StackName   string
	Description string
	Tags        []Tag
}

// ApplyDefaults fills unset fields.
func (p *Props) ApplyDefaults() {
	p.BucketName = strings.TrimSpace(p.BucketName)
	p.Region = strings.TrimSpace(p.Region)
	if p.Description == "" {
		p.Description = "Network and storage scaffolding for the genomics workflow engine"
	}
	if len(p.Tags) == 0 {
		p.Tags = append([]Tag(nil), DefaultTags...)
	}
}

// Validate rejects values CloudFormation would refuse at deploy time.
func (p Props) Validate() error {
	if p.BucketName != "" {
		if err := ValidateBucketName(p.BucketName); err != nil {
			return err
		}
	}
	if p.Region != "" && !regionPattern.MatchString(p.Region) {
		return fmt.Errorf("invalid region %q", p.Region)
	}
	for _, t := range p.Tags {
		if t.Key == "" {
			return fmt.Errorf("tag with value %q has an empty key", t.Value)
		}
	}
	return nil
}

// ValidateBucketName applies the S3 general purpose bucket naming rules.
func ValidateBucketName(name string) error {
	switch {
	case !bucketNamePattern.MatchString(name):
		return fmt.Errorf("invalid bucket name %q: must be 3-63 lowercase letters, digits, dots or hyphens, starting and ending with a letter or digit", name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("invalid bucket name %q: adjacent periods", name)
	case net.ParseIP(name) != nil:
		return fmt.Errorf("invalid bucket name %q: formatted as an IP address", name)
	case strings.HasPrefix(name, "xn--"), strings.HasPrefix(name, "sthree-"):
		return fmt.Errorf("invalid bucket name %q: reserved prefix", name)
	case strings.HasSuffix(name, "-s3alias"), strings.HasSuffix(name, "--ol-s3"):
		return fmt.Errorf("invalid bucket name %q: reserved suffix", name)
	}
	return nil
}

// BucketArn returns the ARN of a bucket in the aws partition.
func BucketArn(name string) string {
	return "arn:aws:s3:::" + name
}

// DomainName returns the DHCP domain name for region.
func DomainName(region string) string {
	return region + ".compute.internal"
}
