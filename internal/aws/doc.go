// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains AWS SDK helpers used by commands that talk to AWS
// directly rather than through CloudFormation, such as preflight checks and
// fetching staged templates.
package aws
