// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"fmt"
	"os"

	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/cromwell-infra/internal/log"
	"github.com/tfctl/cromwell-infra/internal/stack"
)

// UnderToolkit reports whether the process was launched by the CDK toolkit
// (cdk synth, cdk deploy) via the app command in cdk.json.
func UnderToolkit() bool {
	return os.Getenv("CDK_OUTDIR") != ""
}

// RunToolkit synthesizes the cloud assembly where the toolkit expects it. The
// app picks up the output directory and context from the toolkit's
// environment; only region is passed in explicitly.
func RunToolkit(region string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("synthesis of %s failed: %v", stack.DefaultStackID, r)
		}
	}()

	app := NewApp(nil, "")

	props := stack.Props{
		Region:     region,
		BucketName: contextString(app.Node().TryGetContext(jsii.String(stack.BucketNameContextKey))),
	}

	if _, err := stack.NewGenomicsWorkflowStack(app, stack.DefaultStackID, props); err != nil {
		return err
	}

	assembly := app.Synth(nil)
	log.Debugf("toolkit assembly synthesized: dir=%s", *assembly.Directory())
	return nil
}
