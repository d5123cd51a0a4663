// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package stack declares the genomics workflow network and storage scaffolding
// as an AWS CDK stack: a single-AZ VPC with one NAT gateway, an S3 gateway
// endpoint, DHCP options bound to the VPC, an S3 bucket, and two outputs
// whose values are selected at deploy time by the BucketDoesNotExist
// condition.
//
// Nothing here provisions anything. The stack only builds a construct tree
// that the synth package renders into a CloudFormation template.
package stack
