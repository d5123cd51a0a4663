// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the user config directory.
const FileName = "cromwell-infra.yaml"

// Type is the in-memory representation of the loaded configuration.
//
// Fields:
//   - Source: absolute path of the YAML file loaded.
//   - Namespace: optional dot-prefixed keyspace preferred during lookups
//     (e.g. "synth" makes "synth.region" win over "region").
//   - Data: raw key/value tree unmarshaled from YAML.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config holds the global, lazily-initialized configuration instance.
var Config Type

// ErrNotFound is returned when no config file can be located.
var ErrNotFound = errors.New("no config file found in standard locations")

// GetString returns the string at the dotted key path. A single defaultValue
// is returned when the key is absent.
func GetString(key string, defaultValue ...string) (string, error) {
	return lookup(key, defaultValue, func(v any) (string, error) {
		if s, ok := v.(string); ok {
			return s, nil
		}
		return "", fmt.Errorf("%s is %T, not a string", key, v)
	})
}

// GetStringSlice returns the list of strings at the dotted key path, such as
// an @set of arguments. A single defaultValue is returned when the key is
// absent.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	return lookup(key, defaultValue, func(v any) ([]string, error) {
		items, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s is %T, not a list", key, v)
		}
		out := make([]string, 0, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] is %T, not a string", key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	})
}

// lookup loads the file on first use, resolves key and converts the value.
func lookup[T any](key string, defaultValue []T, convert func(any) (T, error)) (T, error) {
	if len(Config.Data) == 0 {
		_, _ = Load(Config.Namespace)
	}

	v, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		var zero T
		return zero, err
	}
	return convert(v)
}

// Load reads the YAML configuration file and populates the global Config. The
// namespace, when given, is recorded so that later lookups prefer keys under
// it. A missing file is reported as ErrNotFound and leaves Config empty.
func Load(namespace ...string) (Type, error) {
	ns := ""
	if len(namespace) > 0 {
		ns = namespace[0]
	}

	path, err := File()
	if err != nil {
		Config = Type{Namespace: ns}
		return Config, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{
		Source:    path,
		Namespace: ns,
		Data:      data,
	}

	return Config, nil
}

// get resolves a dotted key path (e.g. "synth.region"). With a Namespace the
// namespaced path is tried before the plain one.
func (cfg *Type) get(key string) (any, error) {
	paths := []string{key}
	if cfg.Namespace != "" {
		paths = append([]string{cfg.Namespace + "." + key}, paths...)
	}

	for _, path := range paths {
		if v, ok := walk(cfg.Data, strings.Split(path, ".")); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("key not found: %s", strings.Join(paths, " or "))
}

func walk(node any, parts []string) (any, bool) {
	for _, part := range parts {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if node, ok = m[part]; !ok {
			return nil, false
		}
	}
	return node, true
}

// File returns the path of the YAML config file: CROMWELL_INFRA_CFG_FILE when
// set, otherwise FileName in os.UserConfigDir. An explicit path must name a
// regular file; a missing default file is ErrNotFound.
func File() (string, error) {
	if path := os.Getenv("CROMWELL_INFRA_CFG_FILE"); path != "" {
		info, err := os.Stat(path)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found at CROMWELL_INFRA_CFG_FILE path: %s", path)
		case info.IsDir():
			return "", fmt.Errorf("CROMWELL_INFRA_CFG_FILE points to a directory: %s", path)
		}
		log.Debugf("using config file from CROMWELL_INFRA_CFG_FILE: %s", path)
		return path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	log.Debugf("using config file: %s", path)
	return path, nil
}
