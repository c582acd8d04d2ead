package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lms-admin/internal/curriculum"
	"lms-admin/internal/model"
)

func sampleCourse() (model.Course, *curriculum.Tree) {
	now := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	till := 30
	video := "https://videos.example.com/welcome"
	course := model.Course{
		ID:          "course-1",
		Title:       "Go for Administrators",
		Description: "Learn **Go**.",
		Price:       49,
		Currency:    "USD",
		Status:      model.CourseStatusLive,
	}
	t := curriculum.NewTree(course.ID)
	t.ReplaceOnFetch(
		[]model.Section{
			{ID: "s2", CourseID: course.ID, Title: "Toolchain", Order: 2},
			{ID: "s1", CourseID: course.ID, Title: "Getting started", Order: 1},
		},
		map[string][]model.Chapter{
			"s1": {
				{ID: "c2", SectionID: "s1", Title: "Handbook", Type: model.ChapterTypeArticle, Order: 2, Body: "Read me.", UpdatedAt: now},
				{ID: "c1", SectionID: "s1", Title: "Welcome", Type: model.ChapterTypeVideo, Order: 1, VideoURL: &video, AccessTill: &till, UpdatedAt: now},
			},
			"s2": {
				{ID: "c3", SectionID: "s2", Title: "Modules", Type: model.ChapterTypeArticle, Order: 1, UpdatedAt: now},
			},
		},
	)
	return course, t
}

func TestRenderCourseIndexMarkdown_OrdersCurriculum(t *testing.T) {
	t.Parallel()

	course, tree := sampleCourse()
	md, err := RenderCourseIndexMarkdown(course, tree)
	if err != nil {
		t.Fatalf("RenderCourseIndexMarkdown: %v", err)
	}
	if !strings.Contains(md, "# Go for Administrators") {
		t.Fatalf("expected title heading; got:\n%s", md)
	}
	if !strings.Contains(md, "- Price: 49.00 USD") {
		t.Fatalf("expected price line; got:\n%s", md)
	}
	first := strings.Index(md, "1. Getting started")
	second := strings.Index(md, "2. Toolchain")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("sections out of order:\n%s", md)
	}
	welcome := strings.Index(md, "[Welcome](chapters/c1.md)")
	handbook := strings.Index(md, "[Handbook](chapters/c2.md)")
	if welcome < 0 || handbook < 0 || welcome > handbook {
		t.Fatalf("chapters out of order:\n%s", md)
	}
}

func TestRenderCourseIndexMarkdown_RejectsForeignTree(t *testing.T) {
	t.Parallel()

	course, _ := sampleCourse()
	if _, err := RenderCourseIndexMarkdown(course, curriculum.NewTree("other")); err == nil {
		t.Fatalf("expected an error for a tree of another course")
	}
}

func TestRenderChapterMarkdown_AccessAndBody(t *testing.T) {
	t.Parallel()

	_, tree := sampleCourse()
	n, _ := tree.Section("s1")
	md := RenderChapterMarkdown(n.Section, n.Chapters[0], RenderOptions{})
	if !strings.Contains(md, "- Access: until day 30 after enrollment") {
		t.Fatalf("expected access window; got:\n%s", md)
	}
	if strings.Contains(md, "## Content") {
		t.Fatalf("body should be omitted by default; got:\n%s", md)
	}

	md = RenderChapterMarkdown(n.Section, n.Chapters[1], RenderOptions{IncludeBody: true})
	if !strings.Contains(md, "## Content\n\nRead me.") {
		t.Fatalf("expected body; got:\n%s", md)
	}
}

func TestWriteCourse_WritesPagesAndGuardsOverwrite(t *testing.T) {
	t.Parallel()

	course, tree := sampleCourse()
	dir := t.TempDir()

	res, err := WriteCourse(course, tree, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteCourse: %v", err)
	}
	if len(res.Written) != 4 {
		t.Fatalf("expected index plus 3 chapter pages, got %v", res.Written)
	}
	if _, err := os.Stat(filepath.Join(dir, "courses", "course-1", "chapters", "c3.md")); err != nil {
		t.Fatalf("expected chapter page: %v", err)
	}

	if _, err := WriteCourse(course, tree, dir, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite guard, got %v", err)
	}
	if _, err := WriteCourse(course, tree, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("WriteCourse overwrite: %v", err)
	}
}
