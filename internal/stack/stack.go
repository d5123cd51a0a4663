// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/cromwell-infra/internal/log"
)

const (
	// DefaultStackID is the construct id, and default stack name, of the stack.
	DefaultStackID = "CromwellInfraCdkStack"

	// BucketNameContextKey is the CDK context key carrying the bucket name.
	BucketNameContextKey = "S3BucketName"

	// Logical ids referenced from outputs and tests.
	BucketDoesNotExistID = "BucketDoesNotExist"
	BucketID             = "S3Bucket"
	BucketNameOutputID   = "BucketName"
	BucketArnOutputID    = "BucketArn"

	amazonProvidedDNS = "AmazonProvidedDNS"

	// The L2 Vpc and Subnet constructs tag themselves with Name=<path> at the
	// default priority of 100. Stack tags must outrank them.
	tagPriority = 200
)

// GenomicsWorkflowStack holds the declared resources of the stack.
type GenomicsWorkflowStack struct {
	awscdk.Stack

	Props Props

	Vpc                awsec2.Vpc
	S3Endpoint         awsec2.GatewayVpcEndpoint
	DhcpOptions        awsec2.CfnDHCPOptions
	DhcpAssociation    awsec2.CfnVPCDHCPOptionsAssociation
	BucketDoesNotExist awscdk.CfnCondition
	Bucket             awss3.CfnBucket
	BucketNameOutput   awscdk.CfnOutput
	BucketArnOutput    awscdk.CfnOutput

	// resources collects every declared resource for the tag pass.
	resources []constructs.IConstruct
}

// NewGenomicsWorkflowStack declares the stack under scope. Props are
// defaulted and validated before any construct is created.
func NewGenomicsWorkflowStack(scope constructs.Construct, id string, props Props) (*GenomicsWorkflowStack, error) {
	props.ApplyDefaults()
	if err := props.Validate(); err != nil {
		return nil, err
	}

	stackProps := &awscdk.StackProps{
		Description:        jsii.String(props.Description),
		AnalyticsReporting: jsii.Bool(false),
	}
	if props.StackName != "" {
		stackProps.StackName = jsii.String(props.StackName)
	}

	s := &GenomicsWorkflowStack{
		Stack: awscdk.NewStack(scope, jsii.String(id), stackProps),
		Props: props,
	}
	log.Debugf("declaring stack: id=%s bucket=%q region=%q", id, props.BucketName, props.Region)

	s.createNetwork()
	s.createDhcpOptions()
	s.createBucket()
	s.addOutputs()
	s.applyTags()

	return s, nil
}

// Resources returns the handles the tag pass walks, in declaration order.
func (s *GenomicsWorkflowStack) Resources() []constructs.IConstruct {
	return append([]constructs.IConstruct(nil), s.resources...)
}

// createNetwork declares the VPC and its S3 gateway endpoint.
func (s *GenomicsWorkflowStack) createNetwork() {
	s.Vpc = awsec2.NewVpc(s.Stack, jsii.String("VPC"), &awsec2.VpcProps{
		MaxAzs:      jsii.Number(1),
		NatGateways: jsii.Number(1),
	})

	s.S3Endpoint = s.Vpc.AddGatewayEndpoint(jsii.String("S3Endpoint"), &awsec2.GatewayVpcEndpointOptions{
		Service: awsec2.GatewayVpcEndpointAwsService_S3(),
	})

	s.resources = append(s.resources, s.Vpc, s.S3Endpoint)
}

// createDhcpOptions declares the DHCP options set and binds it to the VPC.
func (s *GenomicsWorkflowStack) createDhcpOptions() {
	s.DhcpOptions = awsec2.NewCfnDHCPOptions(s.Stack, jsii.String("DHCPOptions"), &awsec2.CfnDHCPOptionsProps{
		DomainName:        s.domainName(),
		DomainNameServers: jsii.Strings(amazonProvidedDNS),
	})

	s.DhcpAssociation = awsec2.NewCfnVPCDHCPOptionsAssociation(s.Stack, jsii.String("DHCPOptionsAssociation"), &awsec2.CfnVPCDHCPOptionsAssociationProps{
		VpcId:         s.Vpc.VpcId(),
		DhcpOptionsId: s.DhcpOptions.Ref(),
	})

	s.resources = append(s.resources, s.DhcpOptions, s.DhcpAssociation)
}

// domainName is <region>.compute.internal. Without an explicit region the
// region part is left to CloudFormation.
func (s *GenomicsWorkflowStack) domainName() *string {
	if s.Props.Region != "" {
		return jsii.String(DomainName(s.Props.Region))
	}
	return awscdk.Fn_Join(jsii.String(""), &[]*string{
		awscdk.Aws_REGION(),
		jsii.String(DomainName("")),
	})
}

// createBucket declares the condition and the bucket. The bucket is declared
// whatever the condition evaluates to; the condition only selects which
// identity the outputs report.
func (s *GenomicsWorkflowStack) createBucket() {
	s.BucketDoesNotExist = awscdk.NewCfnCondition(s.Stack, jsii.String(BucketDoesNotExistID), &awscdk.CfnConditionProps{
		Expression: awscdk.Fn_ConditionEquals(jsii.String(""), jsii.String(s.Props.BucketName)),
	})

	bucketProps := &awss3.CfnBucketProps{
		Tags: &[]*awscdk.CfnTag{
			{Key: jsii.String("architecture"), Value: jsii.String("default")},
		},
	}
	if s.Props.BucketName != "" {
		bucketProps.BucketName = jsii.String(s.Props.BucketName)
	}
	s.Bucket = awss3.NewCfnBucket(s.Stack, jsii.String(BucketID), bucketProps)

	s.resources = append(s.resources, s.Bucket)
}

// addOutputs declares BucketName and BucketArn as Fn::If selections on
// BucketDoesNotExist.
func (s *GenomicsWorkflowStack) addOutputs() {
	cond := s.BucketDoesNotExist.LogicalId()

	s.BucketNameOutput = awscdk.NewCfnOutput(s.Stack, jsii.String(BucketNameOutputID), &awscdk.CfnOutputProps{
		Description: jsii.String("Name of the workflow bucket"),
		Value: awscdk.Fn_ConditionIf(cond,
			s.Bucket.Ref(),
			jsii.String(s.Props.BucketName),
		).ToString(),
	})

	s.BucketArnOutput = awscdk.NewCfnOutput(s.Stack, jsii.String(BucketArnOutputID), &awscdk.CfnOutputProps{
		Description: jsii.String("ARN of the workflow bucket"),
		Value: awscdk.Fn_ConditionIf(cond,
			s.Bucket.AttrArn(),
			jsii.String(BucketArn(s.Props.BucketName)),
		).ToString(),
	})
}

// applyTags walks the collected resources once, after construction.
func (s *GenomicsWorkflowStack) applyTags() {
	for _, r := range s.resources {
		for _, t := range s.Props.Tags {
			awscdk.Tags_Of(r).Add(jsii.String(t.Key), jsii.String(t.Value), &awscdk.TagProps{
				Priority: jsii.Number(tagPriority),
			})
		}
	}
	log.Debugf("tags applied: resources=%d tags=%d", len(s.resources), len(s.Props.Tags))
}
