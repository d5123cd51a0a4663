// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package outputs previews the values a template's Outputs will export,
// evaluating whatever is decidable from literals in the template itself.
// References to resources and pseudo parameters only resolve at deploy time
// and are reported as such.
package outputs
