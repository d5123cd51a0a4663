// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tfctl/cromwell-infra/internal/aws"
	"github.com/tfctl/cromwell-infra/internal/log"
)

// ErrNoBaseline is returned when nothing was given and nothing is cached.
var ErrNoBaseline = errors.New("no template to compare against; run synth first or pass --against")

// Source yields a JSON template.
type Source interface {
	Template(ctx context.Context) ([]byte, error)
	String() string
}

// Options carries what the S3 source needs. The cache source uses StackKey.
type Options struct {
	StackKey string
	// NewS3 is only called for s3:// references.
	NewS3 func(ctx context.Context) (aws.ObjectAPI, error)
}

// New returns the Source for ref. An empty ref is the cached last synth,
// s3://bucket/key[?versionId=v] is an S3 object and anything else is a path.
func New(ref string, opts Options) (Source, error) {
	log.Debugf("resolving baseline: ref=%q", ref)

	switch {
	case ref == "":
		return &Cache{Key: opts.StackKey}, nil
	case strings.HasPrefix(ref, "s3://"):
		return parseS3(ref, opts.NewS3)
	default:
		return &Local{Path: ref}, nil
	}
}

func parseS3(ref string, newS3 func(context.Context) (aws.ObjectAPI, error)) (*S3, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid S3 URL %q: %w", ref, err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, fmt.Errorf("invalid S3 URL %q: expected s3://bucket/key", ref)
	}
	if newS3 == nil {
		return nil, fmt.Errorf("no S3 client for %s", ref)
	}

	return &S3{
		Bucket:    u.Host,
		Key:       key,
		VersionID: u.Query().Get("versionId"),
		newS3:     newS3,
	}, nil
}
