package remote

import (
	"context"

	"lms-admin/internal/api"
	"lms-admin/internal/model"
	"lms-admin/internal/query"
)

func (s *Sync) Courses(ctx context.Context) ([]model.Course, error) {
	v, err := query.Fetch(ctx, s.cache, query.KeyCourses, s.api.ListCourses)
	if err != nil {
		return nil, s.fail("list courses", err)
	}
	return v, nil
}

func (s *Sync) Course(ctx context.Context, id string) (model.Course, error) {
	v, err := query.Fetch(ctx, s.cache, query.CourseKey(id), func(ctx context.Context) (model.Course, error) {
		return s.api.GetCourse(ctx, id)
	})
	if err != nil {
		return model.Course{}, s.fail("get course", err)
	}
	return v, nil
}

func (s *Sync) CreateCourse(ctx context.Context, p model.CoursePatch) (model.Course, error) {
	return mutate(ctx, s, "create course", "Course created", []query.Key{query.KeyCourses},
		func(ctx context.Context) (model.Course, error) { return s.api.CreateCourse(ctx, p) })
}

func (s *Sync) UpdateCourse(ctx context.Context, id string, p model.CoursePatch) (model.Course, error) {
	return mutate(ctx, s, "update course", "Course updated", []query.Key{query.KeyCourses, query.CourseKey(id)},
		func(ctx context.Context) (model.Course, error) { return s.api.UpdateCourse(ctx, id, p) })
}

func (s *Sync) DeleteCourse(ctx context.Context, id string) error {
	return mutateErr(ctx, s, "delete course", "Course deleted",
		[]query.Key{query.KeyCourses, query.CourseKey(id), query.SectionsKey(id)},
		func(ctx context.Context) error { return s.api.DeleteCourse(ctx, id) })
}

// Enrollments caches only the unfiltered listing.
func (s *Sync) Enrollments(ctx context.Context, f api.EnrollmentFilter) ([]model.Enrollment, error) {
	list := func(ctx context.Context) ([]model.Enrollment, error) { return s.api.ListEnrollments(ctx, f) }
	var (
		v   []model.Enrollment
		err error
	)
	if f == (api.EnrollmentFilter{}) {
		v, err = query.Fetch(ctx, s.cache, query.KeyEnrollments, list)
	} else {
		v, err = list(ctx)
	}
	if err != nil {
		return nil, s.fail("list enrollments", err)
	}
	return v, nil
}

func (s *Sync) Enrollment(ctx context.Context, id string) (model.Enrollment, error) {
	v, err := s.api.GetEnrollment(ctx, id)
	if err != nil {
		return v, s.fail("get enrollment", err)
	}
	return v, nil
}

// Users caches only the unfiltered listing.
func (s *Sync) Users(ctx context.Context, f api.UserFilter) ([]model.User, error) {
	list := func(ctx context.Context) ([]model.User, error) { return s.api.ListUsers(ctx, f) }
	var (
		v   []model.User
		err error
	)
	if f == (api.UserFilter{}) {
		v, err = query.Fetch(ctx, s.cache, query.KeyUsers, list)
	} else {
		v, err = list(ctx)
	}
	if err != nil {
		return nil, s.fail("list users", err)
	}
	return v, nil
}

func (s *Sync) User(ctx context.Context, id string) (model.User, error) {
	v, err := s.api.GetUser(ctx, id)
	if err != nil {
		return v, s.fail("get user", err)
	}
	return v, nil
}

func (s *Sync) UpdateUser(ctx context.Context, id string, p model.UserPatch) (model.User, error) {
	return mutate(ctx, s, "update user", "User updated", []query.Key{query.KeyUsers},
		func(ctx context.Context) (model.User, error) { return s.api.UpdateUser(ctx, id, p) })
}
