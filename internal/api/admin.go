package api

import (
	"context"
	"net/url"

	"lms-admin/internal/model"
)

func coursePath(id string) string { return "/api/admin/courses/" + url.PathEscape(id) }

func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	var out []model.Course
	if err := c.get(ctx, "/api/admin/courses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCourse(ctx context.Context, id string) (model.Course, error) {
	var out model.Course
	err := c.get(ctx, coursePath(id), nil, &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, p model.CoursePatch) (model.Course, error) {
	var out model.Course
	err := c.post(ctx, "/api/admin/courses", p, &out)
	return out, err
}

func (c *Client) UpdateCourse(ctx context.Context, id string, p model.CoursePatch) (model.Course, error) {
	var out model.Course
	err := c.put(ctx, coursePath(id), p, &out)
	return out, err
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.delete(ctx, coursePath(id))
}

type EnrollmentFilter struct {
	CourseID string
	UserID   string
}

func (c *Client) ListEnrollments(ctx context.Context, f EnrollmentFilter) ([]model.Enrollment, error) {
	var out []model.Enrollment
	q := map[string]string{"courseId": f.CourseID, "userId": f.UserID}
	if err := c.get(ctx, "/api/admin/enrollments", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEnrollment(ctx context.Context, id string) (model.Enrollment, error) {
	var out model.Enrollment
	err := c.get(ctx, "/api/admin/enrollments/"+url.PathEscape(id), nil, &out)
	return out, err
}

type UserFilter struct {
	Role   model.UserRole
	Status model.UserStatus
}

func (c *Client) ListUsers(ctx context.Context, f UserFilter) ([]model.User, error) {
	var out []model.User
	q := map[string]string{"role": string(f.Role), "status": string(f.Status)}
	if err := c.get(ctx, "/api/admin/users", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	var out model.User
	err := c.get(ctx, "/api/admin/users/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, p model.UserPatch) (model.User, error) {
	var out model.User
	err := c.put(ctx, "/api/admin/users/"+url.PathEscape(id), p, &out)
	return out, err
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.get(ctx, "/api/admin/me", nil, &out)
	return out, err
}
