// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"context"
	"fmt"
	"os"

	"github.com/tfctl/cromwell-infra/internal/cacheutil"
)

// Local is a template file on disk.
type Local struct {
	Path string
}

func (l *Local) Template(context.Context) ([]byte, error) {
	b, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.Path, err)
	}
	return b, nil
}

func (l *Local) String() string {
	return l.Path
}

// Cache is the template the last synth of a stack recorded.
type Cache struct {
	Key string
}

func (c *Cache) Template(context.Context) ([]byte, error) {
	b, ok := cacheutil.LastTemplate(c.Key)
	if !ok {
		return nil, ErrNoBaseline
	}
	return b, nil
}

func (c *Cache) String() string {
	return "last synth of " + c.Key
}
