package project

import (
	"testing"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted answers conflicts from a fixed list and records how often it was asked.
type scripted struct {
	answers []filesync.Resolution
	asked   int
}

func (s *scripted) ResolveFileConflict(string) filesync.Resolution {
	r := s.answers[s.asked]
	s.asked++
	return r
}

func TestStickyResolver(t *testing.T) {
	tests := map[string]struct {
		answers []filesync.Resolution
		want    []filesync.Resolution
		asked   int
	}{
		"single answers are asked every time": {
			answers: []filesync.Resolution{filesync.Overwrite, filesync.Ignore, filesync.Overwrite},
			want:    []filesync.Resolution{filesync.Overwrite, filesync.Ignore, filesync.Overwrite},
			asked:   3,
		},
		"overwrite all sticks": {
			answers: []filesync.Resolution{filesync.Ignore, filesync.OverwriteAll},
			want:    []filesync.Resolution{filesync.Ignore, filesync.OverwriteAll, filesync.OverwriteAll, filesync.OverwriteAll},
			asked:   2,
		},
		"ignore all sticks": {
			answers: []filesync.Resolution{filesync.IgnoreAll},
			want:    []filesync.Resolution{filesync.IgnoreAll, filesync.IgnoreAll},
			asked:   1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			inner := &scripted{answers: tc.answers}
			r := NewStickyResolver(inner)

			var got []filesync.Resolution
			for range tc.want {
				got = append(got, r.ResolveFileConflict("File 'a' already exists"))
			}

			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.asked, inner.asked)
		})
	}
}

func TestPolicyResolver(t *testing.T) {
	prompt := ConflictResolverFunc(func(string) filesync.Resolution { return filesync.Overwrite })

	tests := map[string]struct {
		policy  string
		prompt  ConflictResolver
		want    filesync.Resolution
		wantErr bool
	}{
		"overwrite":            {policy: "overwrite", want: filesync.OverwriteAll},
		"ignore":               {policy: "IGNORE", want: filesync.IgnoreAll},
		"empty means ignore":   {policy: "", want: filesync.IgnoreAll},
		"prompt asks":          {policy: "prompt", prompt: prompt, want: filesync.Overwrite},
		"prompt without input": {policy: "prompt", wantErr: true},
		"unknown policy":       {policy: "merge", wantErr: true},
		"resolution name":      {policy: "overwrite-all", want: filesync.OverwriteAll},
		"resolution name case": {policy: " Ignore-All", want: filesync.IgnoreAll},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := PolicyResolver(tc.policy, tc.prompt)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.ResolveFileConflict("?"))
		})
	}
}
