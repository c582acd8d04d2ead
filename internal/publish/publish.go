package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"lms-admin/internal/curriculum"
	"lms-admin/internal/model"
)

type WriteOptions struct {
	IncludeBody bool
	Overwrite   bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteCourse writes courses/<id>/index.md plus one page per chapter under toDir.
func WriteCourse(course model.Course, t *curriculum.Tree, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	indexMD, err := RenderCourseIndexMarkdown(course, t)
	if err != nil {
		return WriteResult{}, err
	}

	courseDir := filepath.Join(toDir, "courses", course.ID)
	chaptersDir := filepath.Join(courseDir, "chapters")
	if err := os.MkdirAll(chaptersDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(courseDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first error; pages already written stay on disk.
	written := []string{indexPath}
	for _, n := range t.Sections() {
		for _, ch := range n.Chapters {
			md := RenderChapterMarkdown(n.Section, ch, RenderOptions{IncludeBody: opt.IncludeBody})
			p := filepath.Join(chaptersDir, ch.ID+".md")
			if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
				return WriteResult{}, err
			}
			written = append(written, p)
		}
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
