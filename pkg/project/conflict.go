package project

import (
	"fmt"
	"strings"
	"sync"

	"github.com/agentpkg/pkgsync/pkg/filesync"
)

// ConflictResolver answers the question asked when an install would replace
// an existing file.
type ConflictResolver interface {
	ResolveFileConflict(message string) filesync.Resolution
}

// ConflictResolverFunc adapts a function to ConflictResolver.
type ConflictResolverFunc func(message string) filesync.Resolution

func (f ConflictResolverFunc) ResolveFileConflict(message string) filesync.Resolution {
	return f(message)
}

// Policy values accepted by PolicyResolver.
const (
	PolicyPrompt    = "prompt"
	PolicyOverwrite = "overwrite"
	PolicyIgnore    = "ignore"
)

// Always returns a resolver that gives the same answer to every conflict.
func Always(r filesync.Resolution) ConflictResolver {
	return ConflictResolverFunc(func(string) filesync.Resolution { return r })
}

// PolicyResolver returns the resolver for a configured conflict policy. Any
// resolution name (overwrite-all, ignore-all) is also accepted as a policy.
// prompt is consulted for PolicyPrompt and wrapped so that "all" answers stick.
func PolicyResolver(policy string, prompt ConflictResolver) (ConflictResolver, error) {
	switch strings.ToLower(policy) {
	case PolicyOverwrite:
		return Always(filesync.OverwriteAll), nil
	case PolicyIgnore, "":
		return Always(filesync.IgnoreAll), nil
	case PolicyPrompt:
		if prompt == nil {
			return nil, fmt.Errorf("conflict policy %q needs an interactive terminal", policy)
		}
		return NewStickyResolver(prompt), nil
	default:
		r, err := filesync.ParseResolution(policy)
		if err != nil {
			return nil, fmt.Errorf("unknown conflict policy %q, must be one of %s, %s, %s or a resolution such as %s",
				policy, PolicyPrompt, PolicyOverwrite, PolicyIgnore, filesync.OverwriteAll)
		}
		return Always(r), nil
	}
}

// StickyResolver asks its inner resolver until it answers OverwriteAll or
// IgnoreAll, and then gives that answer to every later conflict without
// asking again.
type StickyResolver struct {
	inner ConflictResolver

	mu     sync.Mutex
	answer *filesync.Resolution
}

var _ ConflictResolver = &StickyResolver{}

func NewStickyResolver(inner ConflictResolver) *StickyResolver {
	return &StickyResolver{inner: inner}
}

func (s *StickyResolver) ResolveFileConflict(message string) filesync.Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.answer != nil {
		return *s.answer
	}

	r := s.inner.ResolveFileConflict(message)
	if r == filesync.OverwriteAll || r == filesync.IgnoreAll {
		s.answer = &r
	}
	return r
}
