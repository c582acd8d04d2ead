package devserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"lms-admin/internal/model"
)

type courseRow struct {
	ID              string   `db:"id"`
	Title           string   `db:"title"`
	Slug            string   `db:"slug"`
	Description     string   `db:"description"`
	ThumbnailURL    string   `db:"thumbnail_url"`
	StartDateMs     *int64   `db:"start_date_unixms"`
	EndDateMs       *int64   `db:"end_date_unixms"`
	Price           float64  `db:"price"`
	DiscountedPrice *float64 `db:"discounted_price"`
	Currency        string   `db:"currency"`
	Status          string   `db:"status"`
	CreatedAt       int64    `db:"created_at_unixms"`
	UpdatedAt       int64    `db:"updated_at_unixms"`
}

func (r courseRow) model() model.Course {
	return model.Course{
		ID:              r.ID,
		Title:           r.Title,
		Slug:            r.Slug,
		Description:     r.Description,
		ThumbnailURL:    r.ThumbnailURL,
		StartDate:       fromNullMs(r.StartDateMs),
		EndDate:         fromNullMs(r.EndDateMs),
		Price:           r.Price,
		DiscountedPrice: r.DiscountedPrice,
		Currency:        r.Currency,
		Status:          model.CourseStatus(r.Status),
		CreatedAt:       fromMs(r.CreatedAt),
		UpdatedAt:       fromMs(r.UpdatedAt),
	}
}

func courseRowFrom(c model.Course) courseRow {
	return courseRow{
		ID:              c.ID,
		Title:           c.Title,
		Slug:            c.Slug,
		Description:     c.Description,
		ThumbnailURL:    c.ThumbnailURL,
		StartDateMs:     toNullMs(c.StartDate),
		EndDateMs:       toNullMs(c.EndDate),
		Price:           c.Price,
		DiscountedPrice: c.DiscountedPrice,
		Currency:        c.Currency,
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt.UnixMilli(),
		UpdatedAt:       c.UpdatedAt.UnixMilli(),
	}
}

const courseCols = `id, title, slug, description, thumbnail_url, start_date_unixms, end_date_unixms,
	price, discounted_price, currency, status, created_at_unixms, updated_at_unixms`

func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	var rows []courseRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+courseCols+` FROM courses ORDER BY created_at_unixms, id`); err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}
	out := make([]model.Course, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (model.Course, error) {
	var r courseRow
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT `+courseCols+` FROM courses WHERE id = ?`), id); err != nil {
		return model.Course{}, errors.Wrapf(err, "getting course %s", id)
	}
	return r.model(), nil
}

func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (s *Store) CreateCourse(ctx context.Context, p model.CoursePatch) (model.Course, error) {
	if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
		return model.Course{}, errBadRequest("title is required")
	}
	now := fromMs(s.nowMs())
	c := p.ApplyTo(model.Course{
		ID:        uuid.NewString(),
		Status:    model.CourseStatusPrivate,
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if c.Slug == "" {
		c.Slug = slugify(c.Title)
	}
	if !model.ValidCourseStatus(c.Status) {
		return model.Course{}, errBadRequest("invalid status")
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO courses (`+courseCols+`) VALUES (
		:id, :title, :slug, :description, :thumbnail_url, :start_date_unixms, :end_date_unixms,
		:price, :discounted_price, :currency, :status, :created_at_unixms, :updated_at_unixms)`, courseRowFrom(c))
	if err != nil {
		return model.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (s *Store) UpdateCourse(ctx context.Context, id string, p model.CoursePatch) (model.Course, error) {
	cur, err := s.GetCourse(ctx, id)
	if err != nil {
		return model.Course{}, err
	}
	c := p.ApplyTo(cur)
	if !model.ValidCourseStatus(c.Status) {
		return model.Course{}, errBadRequest("invalid status")
	}
	c.UpdatedAt = fromMs(s.nowMs())
	_, err = s.db.NamedExecContext(ctx, `UPDATE courses SET
		title = :title, slug = :slug, description = :description, thumbnail_url = :thumbnail_url,
		start_date_unixms = :start_date_unixms, end_date_unixms = :end_date_unixms, price = :price,
		discounted_price = :discounted_price, currency = :currency, status = :status,
		updated_at_unixms = :updated_at_unixms
		WHERE id = :id`, courseRowFrom(c))
	if err != nil {
		return model.Course{}, errors.Wrap(err, "updating course")
	}
	return c, nil
}

// DeleteCourse removes the course with its sections, contents and enrollments.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	if _, err := s.GetCourse(ctx, id); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		stmts := []string{
			`DELETE FROM contents WHERE section_id IN (SELECT id FROM sections WHERE course_id = ?)`,
			`DELETE FROM sections WHERE course_id = ?`,
			`DELETE FROM enrollments WHERE course_id = ?`,
			`DELETE FROM courses WHERE id = ?`,
		}
		for _, st := range stmts {
			if _, err := tx.ExecContext(ctx, s.q(st), id); err != nil {
				return errors.Wrap(err, "deleting course")
			}
		}
		return nil
	})
}

type userRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Role         string `db:"role"`
	Status       string `db:"status"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at_unixms"`
}

func (r userRow) model() model.User {
	return model.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      model.UserRole(r.Role),
		Status:    model.UserStatus(r.Status),
		CreatedAt: fromMs(r.CreatedAt),
	}
}

const userCols = `id, name, email, role, status, password_hash, created_at_unixms`

// CreateUser stores a user with a bcrypt password hash.
func (s *Store) CreateUser(ctx context.Context, u model.User, password string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hashing password")
	}
	r := userRow{
		ID:           u.ID,
		Name:         u.Name,
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		Role:         string(u.Role),
		Status:       string(u.Status),
		PasswordHash: string(hash),
		CreatedAt:    s.nowMs(),
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = string(model.UserActive)
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO users (`+userCols+`) VALUES (
		:id, :name, :email, :role, :status, :password_hash, :created_at_unixms)`, r)
	if err != nil {
		return model.User{}, errors.Wrap(err, "inserting user")
	}
	return r.model(), nil
}

func (s *Store) userBy(ctx context.Context, col, v string) (userRow, error) {
	var r userRow
	err := s.db.GetContext(ctx, &r, s.q(`SELECT `+userCols+` FROM users WHERE `+col+` = ?`), v)
	return r, errors.Wrapf(err, "getting user by %s", col)
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	r, err := s.userBy(ctx, "id", id)
	if err != nil {
		return model.User{}, err
	}
	return r.model(), nil
}

// Authenticate checks email/password. Any mismatch is reported as errBadCredentials.
func (s *Store) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	r, err := s.userBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if isNoRows(err) {
			return model.User{}, errBadCredentials
		}
		return model.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(password)) != nil {
		return model.User{}, errBadCredentials
	}
	return r.model(), nil
}

func (s *Store) ListUsers(ctx context.Context, role, status string) ([]model.User, error) {
	query := `SELECT ` + userCols + ` FROM users WHERE 1 = 1`
	var args []any
	if role != "" {
		query += ` AND role = ?`
		args = append(args, role)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query+` ORDER BY created_at_unixms, id`), args...); err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	out := make([]model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, p model.UserPatch) (model.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if p.Role != nil {
		if !model.ValidUserRole(*p.Role) {
			return model.User{}, errBadRequest("invalid role")
		}
		u.Role = *p.Role
	}
	if p.Status != nil {
		if !model.ValidUserStatus(*p.Status) {
			return model.User{}, errBadRequest("invalid status")
		}
		u.Status = *p.Status
	}
	_, err = s.db.ExecContext(ctx, s.q(`UPDATE users SET role = ?, status = ? WHERE id = ?`), string(u.Role), string(u.Status), id)
	if err != nil {
		return model.User{}, errors.Wrap(err, "updating user")
	}
	return u, nil
}

type enrollmentRow struct {
	ID                  string  `db:"id"`
	UserID              string  `db:"user_id"`
	CourseID            string  `db:"course_id"`
	PaymentStatus       string  `db:"payment_status"`
	AmountPaid          float64 `db:"amount_paid"`
	Progress            float64 `db:"progress"`
	ChapterProgressJSON string  `db:"chapter_progress_json"`
	CertificateJSON     string  `db:"certificate_json"`
	EnrolledAt          int64   `db:"enrolled_at_unixms"`
}

func (r enrollmentRow) model() (model.Enrollment, error) {
	e := model.Enrollment{
		ID:            r.ID,
		UserID:        r.UserID,
		CourseID:      r.CourseID,
		PaymentStatus: model.PaymentStatus(r.PaymentStatus),
		AmountPaid:    r.AmountPaid,
		Progress:      r.Progress,
		EnrolledAt:    fromMs(r.EnrolledAt),
	}
	if err := json.Unmarshal([]byte(r.ChapterProgressJSON), &e.ChapterProgress); err != nil {
		return e, errors.Wrap(err, "decoding chapter progress")
	}
	if err := json.Unmarshal([]byte(r.CertificateJSON), &e.Certificate); err != nil {
		return e, errors.Wrap(err, "decoding certificate")
	}
	return e, nil
}

const enrollmentCols = `id, user_id, course_id, payment_status, amount_paid, progress,
	chapter_progress_json, certificate_json, enrolled_at_unixms`

func (s *Store) CreateEnrollment(ctx context.Context, e model.Enrollment) (model.Enrollment, error) {
	cp, err := json.Marshal(e.ChapterProgress)
	if err != nil {
		return model.Enrollment{}, errors.Wrap(err, "encoding chapter progress")
	}
	cert, err := json.Marshal(e.Certificate)
	if err != nil {
		return model.Enrollment{}, errors.Wrap(err, "encoding certificate")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = fromMs(s.nowMs())
	}
	r := enrollmentRow{
		ID:                  e.ID,
		UserID:              e.UserID,
		CourseID:            e.CourseID,
		PaymentStatus:       string(e.PaymentStatus),
		AmountPaid:          e.AmountPaid,
		Progress:            e.Progress,
		ChapterProgressJSON: string(cp),
		CertificateJSON:     string(cert),
		EnrolledAt:          e.EnrolledAt.UnixMilli(),
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO enrollments (`+enrollmentCols+`) VALUES (
		:id, :user_id, :course_id, :payment_status, :amount_paid, :progress,
		:chapter_progress_json, :certificate_json, :enrolled_at_unixms)`, r)
	if err != nil {
		return model.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return e, nil
}

func (s *Store) ListEnrollments(ctx context.Context, courseID, userID string) ([]model.Enrollment, error) {
	query := `SELECT ` + enrollmentCols + ` FROM enrollments WHERE 1 = 1`
	var args []any
	if courseID != "" {
		query += ` AND course_id = ?`
		args = append(args, courseID)
	}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}
	var rows []enrollmentRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query+` ORDER BY enrolled_at_unixms, id`), args...); err != nil {
		return nil, errors.Wrap(err, "listing enrollments")
	}
	out := make([]model.Enrollment, 0, len(rows))
	for _, r := range rows {
		e, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) GetEnrollment(ctx context.Context, id string) (model.Enrollment, error) {
	var r enrollmentRow
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT `+enrollmentCols+` FROM enrollments WHERE id = ?`), id); err != nil {
		return model.Enrollment{}, errors.Wrapf(err, "getting enrollment %s", id)
	}
	return r.model()
}
