// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package stack

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existingBucket = "my-existing-bucket"

// taggableTypes are the resource types in this stack that carry a Tags
// property in CloudFormation.
var taggableTypes = []string{
	"AWS::EC2::VPC",
	"AWS::EC2::Subnet",
	"AWS::EC2::RouteTable",
	"AWS::EC2::InternetGateway",
	"AWS::EC2::EIP",
	"AWS::EC2::NatGateway",
	"AWS::EC2::DHCPOptions",
	"AWS::S3::Bucket",
}

func newTemplate(t *testing.T, props Props) assertions.Template {
	t.Helper()
	app := awscdk.NewApp(nil)
	s, err := NewGenomicsWorkflowStack(app, DefaultStackID, props)
	require.NoError(t, err)
	return assertions.Template_FromStack(s.Stack, nil)
}

// TestBucketNameOutput_NoSuppliedName verifies that without a bucket name the
// BucketName output refers to the bucket resource itself.
func TestBucketNameOutput_NoSuppliedName(t *testing.T) {
	template := newTemplate(t, Props{Region: "us-west-2"})

	template.ResourceCountIs(jsii.String("AWS::S3::Bucket"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::S3::Bucket"), map[string]interface{}{
		"BucketName": assertions.Match_Absent(),
	})
	template.HasOutput(jsii.String(BucketNameOutputID), map[string]interface{}{
		"Value": map[string]interface{}{
			"Fn::If": assertions.Match_ArrayWith(&[]interface{}{
				BucketDoesNotExistID,
				map[string]interface{}{"Ref": BucketID},
			}),
		},
	})
	template.HasOutput(jsii.String(BucketArnOutputID), map[string]interface{}{
		"Value": map[string]interface{}{
			"Fn::If": assertions.Match_ArrayWith(&[]interface{}{
				BucketDoesNotExistID,
				map[string]interface{}{"Fn::GetAtt": []interface{}{BucketID, "Arn"}},
			}),
		},
	})
}

// TestBucketOutputs_SuppliedName verifies the false branches carry the
// supplied name and a literal ARN.
func TestBucketOutputs_SuppliedName(t *testing.T) {
	template := newTemplate(t, Props{BucketName: existingBucket, Region: "us-west-2"})

	template.HasCondition(jsii.String(BucketDoesNotExistID), map[string]interface{}{
		"Fn::Equals": []interface{}{"", existingBucket},
	})
	template.HasResourceProperties(jsii.String("AWS::S3::Bucket"), map[string]interface{}{
		"BucketName": existingBucket,
	})
	template.HasOutput(jsii.String(BucketNameOutputID), map[string]interface{}{
		"Value": map[string]interface{}{
			"Fn::If": []interface{}{
				BucketDoesNotExistID,
				map[string]interface{}{"Ref": BucketID},
				existingBucket,
			},
		},
	})
	template.HasOutput(jsii.String(BucketArnOutputID), map[string]interface{}{
		"Value": map[string]interface{}{
			"Fn::If": []interface{}{
				BucketDoesNotExistID,
				map[string]interface{}{"Fn::GetAtt": []interface{}{BucketID, "Arn"}},
				"arn:aws:s3:::my-existing-bucket",
			},
		},
	})
}

// TestResourceCounts verifies the fixed shape of the graph for both bucket
// name cases.
func TestResourceCounts(t *testing.T) {
	for _, name := range []string{"", existingBucket} {
		t.Run("bucket="+name, func(t *testing.T) {
			template := newTemplate(t, Props{BucketName: name, Region: "us-east-1"})

			counts := map[string]float64{
				"AWS::EC2::VPC":                       1,
				"AWS::EC2::NatGateway":                1,
				"AWS::EC2::VPCEndpoint":               1,
				"AWS::EC2::DHCPOptions":               1,
				"AWS::EC2::VPCDHCPOptionsAssociation": 1,
				"AWS::S3::Bucket":                     1,
			}
			for typ, n := range counts {
				template.ResourceCountIs(jsii.String(typ), jsii.Number(n))
			}

			conditions := template.FindConditions(jsii.String("*"), nil)
			assert.Contains(t, *conditions, BucketDoesNotExistID)

			outputs := template.FindOutputs(jsii.String("*"), nil)
			assert.Contains(t, *outputs, BucketNameOutputID)
			assert.Contains(t, *outputs, BucketArnOutputID)
		})
	}
}

// TestTagsOnEveryResource verifies both stack tags reach every taggable
// resource, including those the Vpc construct names itself.
func TestTagsOnEveryResource(t *testing.T) {
	template := newTemplate(t, Props{BucketName: existingBucket, Region: "us-east-1"})

	for _, typ := range taggableTypes {
		resources := template.FindResources(jsii.String(typ), nil)
		require.NotEmpty(t, *resources, typ)

		for logicalID, raw := range *resources {
			tags := tagsOf(t, raw)
			for _, want := range DefaultTags {
				assert.Equal(t, want.Value, tags[want.Key], "%s %s tag %s", typ, logicalID, want.Key)
			}
		}
	}

	template.HasResourceProperties(jsii.String("AWS::S3::Bucket"), map[string]interface{}{
		"Tags": assertions.Match_ArrayWith(&[]interface{}{
			map[string]interface{}{"Key": "architecture", "Value": "default"},
		}),
	})
}

func TestDhcpOptions(t *testing.T) {
	t.Run("explicit region", func(t *testing.T) {
		template := newTemplate(t, Props{Region: "eu-west-1"})
		template.HasResourceProperties(jsii.String("AWS::EC2::DHCPOptions"), map[string]interface{}{
			"DomainName":        "eu-west-1.compute.internal",
			"DomainNameServers": []interface{}{"AmazonProvidedDNS"},
		})
	})

	t.Run("region from pseudo parameter", func(t *testing.T) {
		template := newTemplate(t, Props{})
		template.HasResourceProperties(jsii.String("AWS::EC2::DHCPOptions"), map[string]interface{}{
			"DomainName": map[string]interface{}{
				"Fn::Join": []interface{}{"", []interface{}{
					map[string]interface{}{"Ref": "AWS::Region"},
					".compute.internal",
				}},
			},
		})
	})

	t.Run("association references both", func(t *testing.T) {
		template := newTemplate(t, Props{Region: "eu-west-1"})
		template.HasResourceProperties(jsii.String("AWS::EC2::VPCDHCPOptionsAssociation"), map[string]interface{}{
			"DhcpOptionsId": map[string]interface{}{"Ref": "DHCPOptions"},
			"VpcId":         assertions.Match_ObjectLike(&map[string]interface{}{"Ref": assertions.Match_AnyValue()}),
		})
	})
}

func TestS3GatewayEndpoint(t *testing.T) {
	template := newTemplate(t, Props{Region: "us-east-1"})
	template.HasResourceProperties(jsii.String("AWS::EC2::VPCEndpoint"), map[string]interface{}{
		"VpcEndpointType": "Gateway",
	})
}

func TestResources(t *testing.T) {
	app := awscdk.NewApp(nil)
	s, err := NewGenomicsWorkflowStack(app, DefaultStackID, Props{})
	require.NoError(t, err)

	// VPC, endpoint, DHCP options, association, bucket.
	assert.Len(t, s.Resources(), 5)
	assert.Equal(t, DefaultTags, s.Props.Tags)
}

func TestNewGenomicsWorkflowStack_InvalidProps(t *testing.T) {
	app := awscdk.NewApp(nil)
	_, err := NewGenomicsWorkflowStack(app, DefaultStackID, Props{BucketName: "Not_A_Bucket"})
	assert.ErrorContains(t, err, "invalid bucket name")
}

func tagsOf(t *testing.T, raw interface{}) map[string]string {
	t.Helper()
	resource, ok := raw.(*map[string]interface{})
	require.True(t, ok, "unexpected resource type %T", raw)
	props, ok := (*resource)["Properties"].(map[string]interface{})
	require.True(t, ok)
	list, ok := props["Tags"].([]interface{})
	require.True(t, ok)

	tags := map[string]string{}
	for _, item := range list {
		m := item.(map[string]interface{})
		tags[m["Key"].(string)] = m["Value"].(string)
	}
	return tags
}
