// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"context"

	"github.com/tfctl/cromwell-infra/internal/aws"
	"github.com/tfctl/cromwell-infra/internal/cacheutil"
	"github.com/tfctl/cromwell-infra/internal/log"
)

const nullVersion = "null"

// S3 is a template object in a bucket, such as one staged by cdk deploy.
type S3 struct {
	Bucket    string
	Key       string
	VersionID string

	newS3 func(ctx context.Context) (aws.ObjectAPI, error)
}

// Template fetches the object. A pinned version never changes, so its body is
// cached.
func (s *S3) Template(ctx context.Context) ([]byte, error) {
	if s.VersionID != "" {
		if entry, ok := cacheutil.Read(s.cacheDirs(), s.String()); ok {
			return entry.Data, nil
		}
	}

	api, err := s.newS3(ctx)
	if err != nil {
		return nil, err
	}

	data, err := aws.GetObject(ctx, api, s.Bucket, s.Key, s.VersionID)
	if err != nil {
		return nil, err
	}

	if s.VersionID != "" {
		if err := cacheutil.Write(s.cacheDirs(), s.String(), data); err != nil {
			log.WithError(err).Warnf("object not cached")
		}
	}
	return data, nil
}

// Versions lists the stored versions of the object, newest first.
func (s *S3) Versions(ctx context.Context) ([]aws.ObjectVersion, error) {
	api, err := s.newS3(ctx)
	if err != nil {
		return nil, err
	}
	return aws.ListObjectVersions(ctx, api, s.Bucket, s.Key)
}

// Pin fixes the source to v. The "null" version of an unversioned bucket can
// be overwritten, so it reads the latest object instead.
func (s *S3) Pin(v aws.ObjectVersion) {
	s.VersionID = v.VersionID
	if v.VersionID == nullVersion {
		s.VersionID = ""
	}
}

func (s *S3) String() string {
	ref := "s3://" + s.Bucket + "/" + s.Key
	if s.VersionID != "" {
		ref += "?versionId=" + s.VersionID
	}
	return ref
}

func (s *S3) cacheDirs() []string {
	return []string{"objects", s.Bucket}
}
