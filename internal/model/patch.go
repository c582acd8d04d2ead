package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type fieldState uint8

const (
	fieldAbsent fieldState = iota
	fieldUnset
	fieldSet
)

// Field is one attribute of a partial update. The zero value is absent (not sent);
// Unset clears the attribute server-side (JSON null); Set carries a value.
type Field[T any] struct {
	state fieldState
	value T
}

func Set[T any](v T) Field[T] { return Field[T]{state: fieldSet, value: v} }

func Unset[T any]() Field[T] { return Field[T]{state: fieldUnset} }

func (f Field[T]) IsAbsent() bool { return f.state == fieldAbsent }
func (f Field[T]) IsUnset() bool  { return f.state == fieldUnset }
func (f Field[T]) IsSet() bool    { return f.state == fieldSet }

func (f Field[T]) Value() (T, bool) { return f.value, f.state == fieldSet }

// Ptr returns nil unless the field is set.
func (f Field[T]) Ptr() *T {
	if f.state != fieldSet {
		return nil
	}
	v := f.value
	return &v
}

func (f Field[T]) String() string {
	switch f.state {
	case fieldUnset:
		return "unset"
	case fieldSet:
		return fmt.Sprint(f.value)
	}
	return "absent"
}

func (f *Field[T]) decode(raw json.RawMessage) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*f = Unset[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}

func (f Field[T]) put(m map[string]any, key string) {
	switch f.state {
	case fieldUnset:
		m[key] = nil
	case fieldSet:
		m[key] = f.value
	}
}

// ChapterPatch is the body of a chapter update.
type ChapterPatch struct {
	Title          Field[string]
	Type           Field[ChapterType]
	Body           Field[string]
	VideoURL       Field[string]
	AttachmentURL  Field[string]
	XP             Field[int]
	AccessFrom     Field[int]
	AccessTill     Field[int]
	AccessFromDate Field[time.Time]
	AccessTillDate Field[time.Time]
}

func (p ChapterPatch) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	p.Title.put(m, "title")
	p.Type.put(m, "type")
	p.Body.put(m, "body")
	p.VideoURL.put(m, "videoUrl")
	p.AttachmentURL.put(m, "attachmentUrl")
	p.XP.put(m, "xp")
	p.AccessFrom.put(m, "accessFrom")
	p.AccessTill.put(m, "accessTill")
	p.AccessFromDate.put(m, "accessFromDate")
	p.AccessTillDate.put(m, "accessTillDate")
	return json.Marshal(m)
}

func (p *ChapterPatch) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fields := map[string]interface{ decode(json.RawMessage) error }{
		"title":          &p.Title,
		"type":           &p.Type,
		"body":           &p.Body,
		"videoUrl":       &p.VideoURL,
		"attachmentUrl":  &p.AttachmentURL,
		"xp":             &p.XP,
		"accessFrom":     &p.AccessFrom,
		"accessTill":     &p.AccessTill,
		"accessFromDate": &p.AccessFromDate,
		"accessTillDate": &p.AccessTillDate,
	}
	for k, v := range raw {
		f, ok := fields[k]
		if !ok {
			continue
		}
		if err := f.decode(v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// Apply returns ch with the patch applied. Absent fields keep their value; unset
// fields are cleared.
func (p ChapterPatch) Apply(ch Chapter) Chapter {
	if v, ok := p.Title.Value(); ok {
		ch.Title = v
	}
	if v, ok := p.Type.Value(); ok {
		ch.Type = v
	}
	if !p.Body.IsAbsent() {
		ch.Body, _ = p.Body.Value()
	}
	if !p.VideoURL.IsAbsent() {
		ch.VideoURL = p.VideoURL.Ptr()
	}
	if !p.AttachmentURL.IsAbsent() {
		ch.AttachmentURL = p.AttachmentURL.Ptr()
	}
	if !p.XP.IsAbsent() {
		ch.XP, _ = p.XP.Value()
	}
	if !p.AccessFrom.IsAbsent() {
		ch.AccessFrom = p.AccessFrom.Ptr()
	}
	if !p.AccessTill.IsAbsent() {
		ch.AccessTill = p.AccessTill.Ptr()
	}
	if !p.AccessFromDate.IsAbsent() {
		ch.AccessFromDate = p.AccessFromDate.Ptr()
	}
	if !p.AccessTillDate.IsAbsent() {
		ch.AccessTillDate = p.AccessTillDate.Ptr()
	}
	return ch
}

// SectionPatch is the body of a section update.
type SectionPatch struct {
	Title string `json:"title"`
}

// NewSection is the body of a section create.
type NewSection struct {
	Title string `json:"title"`
	Order int    `json:"order"`
}

// NewChapter is the body of a chapter create.
type NewChapter struct {
	Title string      `json:"title"`
	Type  ChapterType `json:"type"`
	Order int         `json:"order"`
}

// CoursePatch is the body of a course create or update. Nil fields are left as-is on update.
type CoursePatch struct {
	Title           *string       `json:"title,omitempty"`
	Slug            *string       `json:"slug,omitempty"`
	Description     *string       `json:"description,omitempty"`
	ThumbnailURL    *string       `json:"thumbnailUrl,omitempty"`
	StartDate       *time.Time    `json:"startDate,omitempty"`
	EndDate         *time.Time    `json:"endDate,omitempty"`
	Price           *float64      `json:"price,omitempty"`
	DiscountedPrice *float64      `json:"discountedPrice,omitempty"`
	Currency        *string       `json:"currency,omitempty"`
	Status          *CourseStatus `json:"status,omitempty"`
}

// ApplyTo returns c with the non-nil patch fields applied.
func (p CoursePatch) ApplyTo(c Course) Course {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ThumbnailURL != nil {
		c.ThumbnailURL = *p.ThumbnailURL
	}
	if p.StartDate != nil {
		c.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		c.EndDate = p.EndDate
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.DiscountedPrice != nil {
		c.DiscountedPrice = p.DiscountedPrice
	}
	if p.Currency != nil {
		c.Currency = *p.Currency
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	return c
}

// UserPatch is the body of a user update (role / status changes).
type UserPatch struct {
	Role   *UserRole   `json:"role,omitempty"`
	Status *UserStatus `json:"status,omitempty"`
}
