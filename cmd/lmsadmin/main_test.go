package main

import (
	"reflect"
	"testing"
)

const courseID = "3f2b8c1e-6a47-4d1f-9c0e-2a5b7d9e1f34"

func TestRewriteCourseShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"lmsadmin"},
			want: []string{"lmsadmin"},
		},
		{
			name: "course id first token",
			in:   []string{"lmsadmin", courseID},
			want: []string{"lmsadmin", "curriculum", courseID},
		},
		{
			name: "course id after value flag",
			in:   []string{"lmsadmin", "--api-url", "http://localhost:8080", courseID},
			want: []string{"lmsadmin", "--api-url", "http://localhost:8080", "curriculum", courseID},
		},
		{
			name: "course id after equals flag",
			in:   []string{"lmsadmin", "--timeout=5s", courseID},
			want: []string{"lmsadmin", "--timeout=5s", "curriculum", courseID},
		},
		{
			name: "course id after bool flag",
			in:   []string{"lmsadmin", "--pretty", courseID, "--print"},
			want: []string{"lmsadmin", "--pretty", "curriculum", courseID, "--print"},
		},
		{
			name: "course id after double dash",
			in:   []string{"lmsadmin", "--format", "yaml", "--", courseID},
			want: []string{"lmsadmin", "--format", "yaml", "--", "curriculum", courseID},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"lmsadmin", "sections", "list", courseID},
			want: []string{"lmsadmin", "sections", "list", courseID},
		},
		{
			name: "non uuid not rewritten",
			in:   []string{"lmsadmin", "course-1"},
			want: []string{"lmsadmin", "course-1"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteCourseShortcutArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteCourseShortcutArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
