package devserver

import (
	"context"

	"github.com/pkg/errors"

	"lms-admin/internal/model"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// Seed creates an admin, a student and a demo course when the database has no
// users yet. It is a no-op otherwise.
func (s *Store) Seed(ctx context.Context, opts SeedOptions) error {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return errors.Wrap(err, "counting users")
	}
	if n > 0 {
		return nil
	}

	if _, err := s.CreateUser(ctx, model.User{Name: "Admin", Email: opts.AdminEmail, Role: model.RoleAdmin}, opts.AdminPassword); err != nil {
		return err
	}
	student, err := s.CreateUser(ctx, model.User{Name: "Demo Student", Email: "student@example.com", Role: model.RoleStudent}, opts.AdminPassword)
	if err != nil {
		return err
	}

	title, price := "Go for Administrators", 49.0
	course, err := s.CreateCourse(ctx, model.CoursePatch{Title: &title, Price: &price})
	if err != nil {
		return err
	}
	curriculum := []struct {
		section  string
		chapters []model.NewChapter
	}{
		{"Getting started", []model.NewChapter{
			{Title: "Welcome", Type: model.ChapterTypeVideo},
			{Title: "Course handbook", Type: model.ChapterTypeArticle},
		}},
		{"Working with the toolchain", []model.NewChapter{
			{Title: "Modules and packages", Type: model.ChapterTypeArticle},
			{Title: "Live Q&A", Type: model.ChapterTypeLiveClass},
			{Title: "First assignment", Type: model.ChapterTypeAssignment},
		}},
	}
	for _, sec := range curriculum {
		created, err := s.CreateSection(ctx, course.ID, model.NewSection{Title: sec.section})
		if err != nil {
			return err
		}
		for _, ch := range sec.chapters {
			if _, err := s.CreateContent(ctx, created.ID, ch); err != nil {
				return err
			}
		}
	}

	_, err = s.CreateEnrollment(ctx, model.Enrollment{
		UserID:        student.ID,
		CourseID:      course.ID,
		PaymentStatus: model.PaymentPaid,
		AmountPaid:    price,
	})
	return err
}
