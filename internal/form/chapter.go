package form

import (
	"strconv"
	"strings"
	"time"

	"lms-admin/internal/model"
)

// ChapterInput mirrors the chapter edit form: every field is the raw text the user typed.
type ChapterInput struct {
	Title          string `json:"title" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=video liveClass assignment article"`
	Body           string `json:"body"`
	VideoURL       string `json:"videoUrl" validate:"omitempty,url"`
	AttachmentURL  string `json:"attachmentUrl" validate:"omitempty,url"`
	XP             string `json:"xp" validate:"omitempty,nonneg_int"`
	AccessFrom     string `json:"accessFrom" validate:"omitempty,nonneg_int"`
	AccessTill     string `json:"accessTill" validate:"omitempty,nonneg_int"`
	AccessFromDate string `json:"accessFromDate" validate:"omitempty,datetime_any"`
	AccessTillDate string `json:"accessTillDate" validate:"omitempty,datetime_any"`
}

// ChapterForm is a form bound to one chapter. A new form is built whenever the
// selection moves to another chapter, so defaults always come from that chapter.
type ChapterForm struct {
	ChapterID string
	SectionID string
	Input     ChapterInput
}

// NewChapterForm builds a form with ch's current values as defaults.
func NewChapterForm(ch model.Chapter) *ChapterForm {
	in := ChapterInput{
		Title: ch.Title,
		Type:  string(ch.Type),
		Body:  ch.Body,
		XP:    strconv.Itoa(ch.XP),
	}
	if ch.VideoURL != nil {
		in.VideoURL = *ch.VideoURL
	}
	if ch.AttachmentURL != nil {
		in.AttachmentURL = *ch.AttachmentURL
	}
	if ch.AccessFrom != nil {
		in.AccessFrom = strconv.Itoa(*ch.AccessFrom)
	}
	if ch.AccessTill != nil {
		in.AccessTill = strconv.Itoa(*ch.AccessTill)
	}
	if ch.AccessFromDate != nil {
		in.AccessFromDate = ch.AccessFromDate.UTC().Format(time.RFC3339)
	}
	if ch.AccessTillDate != nil {
		in.AccessTillDate = ch.AccessTillDate.UTC().Format(time.RFC3339)
	}
	return &ChapterForm{ChapterID: ch.ID, SectionID: ch.SectionID, Input: in}
}

// Validate checks the current input without building a payload.
func (f *ChapterForm) Validate() error {
	in := f.trimmed()
	return Struct(&in)
}

// Submit validates the input and returns the partial-update payload.
// Empty optional inputs become unset fields, never empty strings.
func (f *ChapterForm) Submit() (model.ChapterPatch, error) {
	in := f.trimmed()
	if err := Struct(&in); err != nil {
		return model.ChapterPatch{}, err
	}

	p := model.ChapterPatch{
		Title:          model.Set(in.Title),
		Type:           model.Set(model.ChapterType(in.Type)),
		Body:           optString(in.Body),
		VideoURL:       optString(in.VideoURL),
		AttachmentURL:  optString(in.AttachmentURL),
		XP:             optInt(in.XP),
		AccessFrom:     optInt(in.AccessFrom),
		AccessTill:     optInt(in.AccessTill),
		AccessFromDate: optTime(in.AccessFromDate),
		AccessTillDate: optTime(in.AccessTillDate),
	}
	return p, nil
}

// DeleteIntent asks the parent to delete the bound chapter.
type DeleteIntent struct {
	ChapterID string
	SectionID string
}

func (f *ChapterForm) Delete() DeleteIntent {
	return DeleteIntent{ChapterID: f.ChapterID, SectionID: f.SectionID}
}

func (f *ChapterForm) trimmed() ChapterInput {
	in := f.Input
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.TrimSpace(in.Type)
	in.VideoURL = strings.TrimSpace(in.VideoURL)
	in.AttachmentURL = strings.TrimSpace(in.AttachmentURL)
	in.XP = strings.TrimSpace(in.XP)
	in.AccessFrom = strings.TrimSpace(in.AccessFrom)
	in.AccessTill = strings.TrimSpace(in.AccessTill)
	in.AccessFromDate = strings.TrimSpace(in.AccessFromDate)
	in.AccessTillDate = strings.TrimSpace(in.AccessTillDate)
	return in
}

func optString(s string) model.Field[string] {
	if strings.TrimSpace(s) == "" {
		return model.Unset[string]()
	}
	return model.Set(s)
}

// optInt expects input that already passed nonneg_int validation.
func optInt(s string) model.Field[int] {
	if s == "" {
		return model.Unset[int]()
	}
	n, err := parseNonNegInt(s)
	if err != nil {
		return model.Unset[int]()
	}
	return model.Set(n)
}

func optTime(s string) model.Field[time.Time] {
	if s == "" {
		return model.Unset[time.Time]()
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return model.Unset[time.Time]()
	}
	return model.Set(t)
}
