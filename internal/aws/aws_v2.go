// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tfctl/cromwell-infra/internal/log"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
}

// Option customizes how AWS config is loaded. With no options the shell's
// AWS setup is inherited (AWS_PROFILE, shared config, env, IMDS).
type Option func(*options)

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// LoadAWSConfig loads AWS SDK v2 config with the given overrides.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("aws opts applied: profile=%s region=%s", o.profile, o.region)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewS3 constructs an S3 client from cfg. Additional service options can be
// supplied via optFns.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created: region=%s", cfg.Region)
	return client
}

// WithS3Endpoint points the client at an S3-compatible endpoint using path
// style addressing.
func WithS3Endpoint(url string) func(*s3v2.Options) {
	return func(o *s3v2.Options) {
		o.BaseEndpoint = awsv2.String(url)
		o.UsePathStyle = true
	}
}

// HeadBucketAPI is the slice of the S3 client BucketExists needs.
type HeadBucketAPI interface {
	HeadBucket(ctx context.Context, params *s3v2.HeadBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadBucketOutput, error)
}

var (
	_ HeadBucketAPI         = (*s3v2.Client)(nil)
	_ GetObjectAPI          = (*s3v2.Client)(nil)
	_ ListObjectVersionsAPI = (*s3v2.Client)(nil)
)

// BucketExists reports whether a bucket with the given name exists anywhere in
// the partition. A 403 means it exists but belongs to someone else, which for
// a create is as fatal as owning it.
func BucketExists(ctx context.Context, api HeadBucketAPI, name string) (bool, error) {
	_, err := api.HeadBucket(ctx, &s3v2.HeadBucketInput{Bucket: awsv2.String(name)})
	if err == nil {
		log.Debugf("bucket exists: bucket=%s", name)
		return true, nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}

	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		switch re.HTTPStatusCode() {
		case http.StatusNotFound:
			return false, nil
		case http.StatusForbidden:
			log.Debugf("bucket exists, access denied: bucket=%s", name)
			return true, nil
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return false, fmt.Errorf("head bucket %s: %s: %w", name, apiErr.ErrorCode(), err)
	}
	return false, fmt.Errorf("head bucket %s: %w", name, err)
}

// GetObjectAPI is the slice of the S3 client GetObject needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// GetObject reads a whole object. An empty versionID reads the latest version.
func GetObject(ctx context.Context, api GetObjectAPI, bucket, key, versionID string) ([]byte, error) {
	input := &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	}
	if versionID != "" {
		input.VersionId = awsv2.String(versionID)
	}

	result, err := api.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	log.Debugf("s3 object read: bucket=%s key=%s size=%d", bucket, key, len(data))
	return data, nil
}

// ListObjectVersionsAPI is the slice of the S3 client ListObjectVersions needs.
type ListObjectVersionsAPI interface {
	ListObjectVersions(ctx context.Context, params *s3v2.ListObjectVersionsInput, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error)
}

// ObjectAPI reads objects and their versions.
type ObjectAPI interface {
	GetObjectAPI
	ListObjectVersionsAPI
}

// ObjectVersion is one stored version of an object. Buckets without
// versioning report a single version with the id "null".
type ObjectVersion struct {
	VersionID    string
	LastModified time.Time
	Size         int64
	IsLatest     bool
}

// ListObjectVersions returns the versions of exactly key, newest first. Delete
// markers are left out.
func ListObjectVersions(ctx context.Context, api ListObjectVersionsAPI, bucket, key string) ([]ObjectVersion, error) {
	input := &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(bucket),
		Prefix: awsv2.String(key),
	}

	var versions []ObjectVersion
	for page := 1; ; page++ {
		out, err := api.ListObjectVersions(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list versions of s3://%s/%s: %w", bucket, key, err)
		}
		log.Tracef("versions page %d: count=%d", page, len(out.Versions))

		for _, v := range out.Versions {
			// Prefix also matches longer keys.
			if awsv2.ToString(v.Key) != key {
				continue
			}
			versions = append(versions, ObjectVersion{
				VersionID:    awsv2.ToString(v.VersionId),
				LastModified: awsv2.ToTime(v.LastModified),
				Size:         awsv2.ToInt64(v.Size),
				IsLatest:     awsv2.ToBool(v.IsLatest),
			})
		}

		if !awsv2.ToBool(out.IsTruncated) {
			break
		}
		input.KeyMarker = out.NextKeyMarker
		input.VersionIdMarker = out.NextVersionIdMarker
	}

	slices.SortStableFunc(versions, func(a, b ObjectVersion) int {
		return b.LastModified.Compare(a.LastModified)
	})
	log.Debugf("object versions listed: bucket=%s key=%s count=%d", bucket, key, len(versions))
	return versions, nil
}
