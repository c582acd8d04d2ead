package form

import (
	"strconv"
	"strings"

	"lms-admin/internal/model"
)

// CourseInput is the course create/edit form. Empty fields are left out of the patch.
type CourseInput struct {
	Title           string `json:"title" validate:"omitempty,max=200"`
	Slug            string `json:"slug" validate:"omitempty,max=120"`
	Description     string `json:"description"`
	ThumbnailURL    string `json:"thumbnailUrl" validate:"omitempty,url"`
	StartDate       string `json:"startDate" validate:"omitempty,datetime_any"`
	EndDate         string `json:"endDate" validate:"omitempty,datetime_any"`
	Price           string `json:"price" validate:"omitempty,numeric"`
	DiscountedPrice string `json:"discountedPrice" validate:"omitempty,numeric"`
	Currency        string `json:"currency" validate:"omitempty,len=3"`
	Status          string `json:"status" validate:"omitempty,oneof=private live inProgress completed"`

	// Partial marks an update, where no field is required.
	Partial bool `json:"-"`
}

// CoursePatch validates the input and builds the API payload.
func (in CourseInput) CoursePatch() (model.CoursePatch, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Price = strings.TrimSpace(in.Price)
	in.DiscountedPrice = strings.TrimSpace(in.DiscountedPrice)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.Status = strings.TrimSpace(in.Status)
	if err := Struct(&in); err != nil {
		return model.CoursePatch{}, err
	}
	if !in.Partial && in.Title == "" {
		return model.CoursePatch{}, &ValidationError{Fields: []FieldError{{Field: "title", Message: "title is required"}}}
	}

	var p model.CoursePatch
	if in.Title != "" {
		p.Title = &in.Title
	}
	if in.Slug != "" {
		p.Slug = &in.Slug
	}
	if in.Description != "" {
		p.Description = &in.Description
	}
	if in.ThumbnailURL != "" {
		p.ThumbnailURL = &in.ThumbnailURL
	}
	if in.StartDate != "" {
		t, _ := ParseDateTime(in.StartDate)
		p.StartDate = &t
	}
	if in.EndDate != "" {
		t, _ := ParseDateTime(in.EndDate)
		p.EndDate = &t
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return model.CoursePatch{}, &ValidationError{Fields: []FieldError{{Field: "endDate", Message: "endDate must not be before startDate"}}}
	}
	if in.Price != "" {
		v, _ := strconv.ParseFloat(in.Price, 64)
		if v < 0 {
			return model.CoursePatch{}, &ValidationError{Fields: []FieldError{{Field: "price", Message: "price must be 0 or more"}}}
		}
		p.Price = &v
	}
	if in.DiscountedPrice != "" {
		v, _ := strconv.ParseFloat(in.DiscountedPrice, 64)
		p.DiscountedPrice = &v
	}
	if in.Currency != "" {
		p.Currency = &in.Currency
	}
	if in.Status != "" {
		st := model.CourseStatus(in.Status)
		p.Status = &st
	}
	return p, nil
}

// SectionInput is the section title form.
type SectionInput struct {
	Title string `json:"title" validate:"required,max=200"`
}

func (in SectionInput) Validate() (string, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := Struct(&in); err != nil {
		return "", err
	}
	return in.Title, nil
}

// NewChapterInput is the quick "add chapter" form.
type NewChapterInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Type  string `json:"type" validate:"required,oneof=video liveClass assignment article"`
}

func (in NewChapterInput) Validate() (NewChapterInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.TrimSpace(in.Type)
	if err := Struct(&in); err != nil {
		return NewChapterInput{}, err
	}
	return in, nil
}

// UserInput changes a user's role and/or status.
type UserInput struct {
	Role   string `json:"role" validate:"omitempty,oneof=student admin instructor operations"`
	Status string `json:"status" validate:"omitempty,oneof=active banned suspended"`
}

func (in UserInput) UserPatch() (model.UserPatch, error) {
	in.Role = strings.TrimSpace(in.Role)
	in.Status = strings.TrimSpace(in.Status)
	if err := Struct(&in); err != nil {
		return model.UserPatch{}, err
	}
	var p model.UserPatch
	if in.Role != "" {
		r := model.UserRole(in.Role)
		p.Role = &r
	}
	if in.Status != "" {
		s := model.UserStatus(in.Status)
		p.Status = &s
	}
	return p, nil
}
