package main

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"lms-admin/internal/cli"
)

func isCourseID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

// rewriteCourseShortcutArgs turns `lmsadmin <course-id>` into `lmsadmin curriculum <course-id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (e.g. `lmsadmin --api-url ... <course-id>`), so we look for
// the first positional token rather than argv[1].
func rewriteCourseShortcutArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so the course id is never swallowed.
	valueFlags := map[string]bool{
		"--api-url": true,
		"--timeout": true,
		"--format":  true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "curriculum")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isCourseID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if isCourseID(a) {
			return insert(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteCourseShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
