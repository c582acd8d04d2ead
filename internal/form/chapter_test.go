package form

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lms-admin/internal/model"
)

func sampleChapter() model.Chapter {
	video := "https://cdn.example.com/intro.mp4"
	till := 30
	return model.Chapter{
		ID:         "c1",
		SectionID:  "s1",
		Title:      "Intro",
		Type:       model.ChapterTypeVideo,
		Body:       "# Hello",
		VideoURL:   &video,
		XP:         10,
		AccessTill: &till,
		Order:      1,
	}
}

func TestChapterForm_DefaultsFromChapter(t *testing.T) {
	f := NewChapterForm(sampleChapter())
	if f.ChapterID != "c1" || f.SectionID != "s1" {
		t.Fatalf("binding: %+v", f)
	}
	in := f.Input
	if in.Title != "Intro" || in.Type != "video" || in.XP != "10" || in.AccessTill != "30" || in.AccessFrom != "" {
		t.Fatalf("unexpected defaults: %+v", in)
	}
	if in.VideoURL != "https://cdn.example.com/intro.mp4" || in.AttachmentURL != "" {
		t.Fatalf("unexpected url defaults: %+v", in)
	}
}

func TestChapterForm_EmptyAccessTillBecomesUnset(t *testing.T) {
	f := NewChapterForm(sampleChapter())
	f.Input.AccessTill = ""
	f.Input.VideoURL = "   "

	p, err := f.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !p.AccessTill.IsUnset() {
		t.Fatalf("accessTill: want unset, got %v", p.AccessTill)
	}
	if !p.VideoURL.IsUnset() {
		t.Fatalf("videoUrl: want unset, got %v", p.VideoURL)
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body map[string]any
	_ = json.Unmarshal(b, &body)
	if v, ok := body["accessTill"]; !ok || v != nil {
		t.Fatalf("accessTill must be sent as null, body: %s", b)
	}
	for k, v := range body {
		if s, ok := v.(string); ok && s == "" {
			t.Fatalf("field %s sent as empty string: %s", k, b)
		}
	}
}

func TestChapterForm_SubmitParsesValues(t *testing.T) {
	f := NewChapterForm(sampleChapter())
	f.Input.Title = "  Intro v2 "
	f.Input.Type = "article"
	f.Input.XP = "25"
	f.Input.AccessFrom = "2"
	f.Input.AccessFromDate = "2026-03-01T09:30"

	p, err := f.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if v, _ := p.Title.Value(); v != "Intro v2" {
		t.Fatalf("title: %q", v)
	}
	if v, _ := p.Type.Value(); v != model.ChapterTypeArticle {
		t.Fatalf("type: %q", v)
	}
	if v, ok := p.XP.Value(); !ok || v != 25 {
		t.Fatalf("xp: %v", p.XP)
	}
	if v, ok := p.AccessFrom.Value(); !ok || v != 2 {
		t.Fatalf("accessFrom: %v", p.AccessFrom)
	}
	want := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	if v, ok := p.AccessFromDate.Value(); !ok || !v.Equal(want) {
		t.Fatalf("accessFromDate: %v", p.AccessFromDate)
	}
	if !p.AccessTillDate.IsUnset() {
		t.Fatalf("accessTillDate: want unset, got %v", p.AccessTillDate)
	}
}

func TestChapterForm_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ChapterInput)
		field string
	}{
		{name: "empty title", edit: func(in *ChapterInput) { in.Title = "  " }, field: "title"},
		{name: "bad type", edit: func(in *ChapterInput) { in.Type = "podcast" }, field: "type"},
		{name: "bad url", edit: func(in *ChapterInput) { in.AttachmentURL = "not a url" }, field: "attachmentUrl"},
		{name: "negative xp", edit: func(in *ChapterInput) { in.XP = "-1" }, field: "xp"},
		{name: "signed xp", edit: func(in *ChapterInput) { in.XP = "+5" }, field: "xp"},
		{name: "fractional days", edit: func(in *ChapterInput) { in.AccessTill = "1.5" }, field: "accessTill"},
		{name: "bad date", edit: func(in *ChapterInput) { in.AccessTillDate = "next week" }, field: "accessTillDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewChapterForm(sampleChapter())
			tt.edit(&f.Input)
			_, err := f.Submit()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if msg := verr.Message(tt.field); msg == "" {
				t.Fatalf("expected message for %s; got %+v", tt.field, verr.Fields)
			}
		})
	}
}

func TestChapterForm_UnchangedSubmitKeepsDates(t *testing.T) {
	ch := sampleChapter()
	from := time.Date(2025, 3, 1, 10, 0, 30, 0, time.UTC)
	till := time.Date(2025, 6, 30, 23, 59, 59, 0, time.FixedZone("CET", 3600))
	ch.AccessFromDate = &from
	ch.AccessTillDate = &till

	p, err := NewChapterForm(ch).Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if v, ok := p.AccessFromDate.Value(); !ok || !v.Equal(from) {
		t.Fatalf("accessFromDate: got %v want %v", p.AccessFromDate, from)
	}
	if v, ok := p.AccessTillDate.Value(); !ok || !v.Equal(till) {
		t.Fatalf("accessTillDate: got %v want %v", p.AccessTillDate, till)
	}
}

func TestParseNonNegInt(t *testing.T) {
	for _, s := range []string{"0", "7", " 42 ", "007"} {
		if _, err := parseNonNegInt(s); err != nil {
			t.Fatalf("parseNonNegInt(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "+5", "-1", "1.5", "1e3", "5 5"} {
		if n, err := parseNonNegInt(s); err == nil {
			t.Fatalf("parseNonNegInt(%q) = %d, want error", s, n)
		}
	}
}

func TestEngine_InitialisesCleanly(t *testing.T) {
	v, tr, err := engine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if v == nil || tr == nil {
		t.Fatalf("engine returned nil validator or translator")
	}
	// Every custom tag must be registered with a translation.
	for _, tag := range []string{nonNegIntTag, dateTimeTag, "required"} {
		if got, err := tr.T(tag, "field"); err != nil || got == "" {
			t.Fatalf("translation for %s: %q, %v", tag, got, err)
		}
	}
}

func TestChapterForm_RequiredMessage(t *testing.T) {
	f := NewChapterForm(sampleChapter())
	f.Input.Title = ""
	err := f.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := verr.Message("title"); got != "title is required" {
		t.Fatalf("message: %q", got)
	}
}

func TestChapterForm_DeleteIntent(t *testing.T) {
	f := NewChapterForm(sampleChapter())
	got := f.Delete()
	if got.ChapterID != "c1" || got.SectionID != "s1" {
		t.Fatalf("unexpected intent: %+v", got)
	}
}

func TestCourseInput(t *testing.T) {
	p, err := CourseInput{Title: "Go 101", Price: "49.5", Status: "live", Currency: "usd"}.CoursePatch()
	if err != nil {
		t.Fatalf("CoursePatch: %v", err)
	}
	if *p.Title != "Go 101" || *p.Price != 49.5 || *p.Status != model.CourseStatusLive || *p.Currency != "USD" {
		t.Fatalf("unexpected patch: %+v", p)
	}
	if _, err := (CourseInput{}).CoursePatch(); err == nil {
		t.Fatalf("expected title required on create")
	}
	if _, err := (CourseInput{Partial: true, Status: "archived"}).CoursePatch(); err == nil {
		t.Fatalf("expected invalid status error")
	}
	if _, err := (CourseInput{Title: "x", StartDate: "2026-05-01", EndDate: "2026-04-01"}).CoursePatch(); err == nil {
		t.Fatalf("expected endDate before startDate error")
	}
}
