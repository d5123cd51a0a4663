// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for cromwell-infra's
// user configuration. The configuration is a YAML document located in the
// user's configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/cromwell-infra.yaml or
//     $HOME/.config/cromwell-infra.yaml
//   - Windows: %APPDATA%/cromwell-infra.yaml
//
// CROMWELL_INFRA_CFG_FILE overrides the location. Keys may be namespaced by
// subcommand, e.g. "synth.bucket-name" is preferred over "bucket-name" while
// running synth.
package config
