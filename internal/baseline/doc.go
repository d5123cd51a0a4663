// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package baseline resolves the template a fresh synthesis is compared with:
// a local file, an object in S3, or the template cached by the last synth.
package baseline
