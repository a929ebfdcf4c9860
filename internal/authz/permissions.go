// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package authz

import (
	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// PermissionSet holds a membership's free-form permission overrides as
// compiled glob patterns. Keys use '.' as the segment separator, so
// "reports.*" grants every key under reports while "members.read" grants
// exactly one.
//
// Patterns are compiled once at construction; Allows is safe for
// concurrent use.
type PermissionSet struct {
	patterns []compiledPermission
}

type compiledPermission struct {
	pattern string
	glob    glob.Glob
}

// CompilePermissions builds a PermissionSet from a membership's raw
// permission map. Only keys mapped to true participate; false entries are
// an explicit no-op rather than a deny, matching how the snapshot encodes
// revocations upstream.
func CompilePermissions(raw map[string]bool) (*PermissionSet, error) {
	if len(raw) == 0 {
		return &PermissionSet{}, nil
	}
	patterns := make([]compiledPermission, 0, len(raw))
	for key, granted := range raw {
		if !granted {
			continue
		}
		g, err := glob.Compile(key, '.')
		if err != nil {
			return nil, oops.In("authz").
				Code("AUTHZ_INVALID_PERMISSION").
				With("pattern", key).
				Wrap(err)
		}
		patterns = append(patterns, compiledPermission{pattern: key, glob: g})
	}
	return &PermissionSet{patterns: patterns}, nil
}

// Allows reports whether any compiled pattern matches the key.
func (s *PermissionSet) Allows(key string) bool {
	if s == nil || key == "" {
		return false
	}
	for _, p := range s.patterns {
		if p.glob.Match(key) {
			return true
		}
	}
	return false
}

// Patterns returns the granted pattern strings, primarily for diagnostics.
func (s *PermissionSet) Patterns() []string {
	if s == nil || len(s.patterns) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.patterns))
	for _, p := range s.patterns {
		out = append(out, p.pattern)
	}
	return out
}
