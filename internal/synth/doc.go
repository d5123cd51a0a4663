// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package synth wraps the genomics workflow stack in a CDK app, synthesizes
// the cloud assembly and renders the stack's CloudFormation template as JSON
// or YAML. Rendering sorts map keys, so equal inputs give equal bytes.
package synth
