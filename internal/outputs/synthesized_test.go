// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package outputs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/cromwell-infra/internal/stack"
	"github.com/tfctl/cromwell-infra/internal/synth"
)

// TestPreview_SynthesizedStack runs the preview against the real stack for
// both bucket name cases.
func TestPreview_SynthesizedStack(t *testing.T) {
	t.Run("supplied name", func(t *testing.T) {
		res, err := synth.Synthesize(synth.Options{Props: stack.Props{BucketName: "my-existing-bucket", Region: "us-east-1"}})
		require.NoError(t, err)

		values, err := Preview(res.Template)
		require.NoError(t, err)
		require.Len(t, values, 2)

		byName := map[string]Value{}
		for _, v := range values {
			byName[v.Name] = v
		}
		assert.True(t, byName[stack.BucketNameOutputID].Resolved)
		assert.Equal(t, "my-existing-bucket", byName[stack.BucketNameOutputID].Value)
		assert.True(t, byName[stack.BucketArnOutputID].Resolved)
		assert.Equal(t, "arn:aws:s3:::my-existing-bucket", byName[stack.BucketArnOutputID].Value)
	})

	t.Run("no name", func(t *testing.T) {
		res, err := synth.Synthesize(synth.Options{Props: stack.Props{Region: "us-east-1"}})
		require.NoError(t, err)

		values, err := Preview(res.Template)
		require.NoError(t, err)
		require.Len(t, values, 2)

		for _, v := range values {
			assert.False(t, v.Resolved, v.Name)
		}
		assert.Equal(t, "GetAtt(S3Bucket.Arn)", values[0].Reference)
		assert.Equal(t, "Ref(S3Bucket)", values[1].Reference)
	})
}
