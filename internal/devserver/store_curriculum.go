package devserver

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"lms-admin/internal/model"
)

type sectionRow struct {
	ID        string `db:"id"`
	CourseID  string `db:"course_id"`
	Title     string `db:"title"`
	Ord       int    `db:"ord"`
	CreatedAt int64  `db:"created_at_unixms"`
	UpdatedAt int64  `db:"updated_at_unixms"`
}

func (r sectionRow) model() model.Section {
	return model.Section{
		ID:        r.ID,
		CourseID:  r.CourseID,
		Title:     r.Title,
		Order:     r.Ord,
		CreatedAt: fromMs(r.CreatedAt),
		UpdatedAt: fromMs(r.UpdatedAt),
	}
}

type contentRow struct {
	ID            string  `db:"id"`
	SectionID     string  `db:"section_id"`
	Title         string  `db:"title"`
	Type          string  `db:"type"`
	Body          string  `db:"body"`
	VideoURL      *string `db:"video_url"`
	AttachmentURL *string `db:"attachment_url"`
	XP            int     `db:"xp"`
	Ord           int     `db:"ord"`
	AccessFrom    *int    `db:"access_from"`
	AccessTill    *int    `db:"access_till"`
	AccessFromMs  *int64  `db:"access_from_unixms"`
	AccessTillMs  *int64  `db:"access_till_unixms"`
	CreatedAt     int64   `db:"created_at_unixms"`
	UpdatedAt     int64   `db:"updated_at_unixms"`
}

func (r contentRow) model() model.Chapter {
	return model.Chapter{
		ID:             r.ID,
		SectionID:      r.SectionID,
		Title:          r.Title,
		Type:           model.ChapterType(r.Type),
		Body:           r.Body,
		VideoURL:       r.VideoURL,
		AttachmentURL:  r.AttachmentURL,
		XP:             r.XP,
		Order:          r.Ord,
		AccessFrom:     r.AccessFrom,
		AccessTill:     r.AccessTill,
		AccessFromDate: fromNullMs(r.AccessFromMs),
		AccessTillDate: fromNullMs(r.AccessTillMs),
		CreatedAt:      fromMs(r.CreatedAt),
		UpdatedAt:      fromMs(r.UpdatedAt),
	}
}

const sectionCols = `id, course_id, title, ord, created_at_unixms, updated_at_unixms`

const contentCols = `id, section_id, title, type, body, video_url, attachment_url, xp, ord,
	access_from, access_till, access_from_unixms, access_till_unixms, created_at_unixms, updated_at_unixms`

func (s *Store) ListSections(ctx context.Context, courseID string) ([]model.Section, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	var rows []sectionRow
	err := s.db.SelectContext(ctx, &rows,
		s.q(`SELECT `+sectionCols+` FROM sections WHERE course_id = ? ORDER BY ord, created_at_unixms, id`), courseID)
	if err != nil {
		return nil, errors.Wrap(err, "listing sections")
	}
	out := make([]model.Section, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (s *Store) GetSection(ctx context.Context, id string) (model.Section, error) {
	var r sectionRow
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT `+sectionCols+` FROM sections WHERE id = ?`), id); err != nil {
		return model.Section{}, errors.Wrapf(err, "getting section %s", id)
	}
	return r.model(), nil
}

// CreateSection appends a section. Order <= 0 means after the last one.
func (s *Store) CreateSection(ctx context.Context, courseID string, in model.NewSection) (model.Section, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return model.Section{}, err
	}
	r := sectionRow{ID: uuid.NewString(), CourseID: courseID, Title: in.Title, Ord: in.Order}
	r.CreatedAt = s.nowMs()
	r.UpdatedAt = r.CreatedAt
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if r.Ord <= 0 {
			var max sql.NullInt64
			if err := tx.GetContext(ctx, &max, s.q(`SELECT MAX(ord) FROM sections WHERE course_id = ?`), courseID); err != nil {
				return errors.Wrap(err, "next section order")
			}
			r.Ord = int(max.Int64) + 1
		}
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO sections (`+sectionCols+`) VALUES (:id, :course_id, :title, :ord, :created_at_unixms, :updated_at_unixms)`, r)
		return errors.Wrap(err, "inserting section")
	})
	if err != nil {
		return model.Section{}, err
	}
	return r.model(), nil
}

func (s *Store) UpdateSection(ctx context.Context, id string, p model.SectionPatch) (model.Section, error) {
	sec, err := s.GetSection(ctx, id)
	if err != nil {
		return model.Section{}, err
	}
	now := s.nowMs()
	if _, err := s.db.ExecContext(ctx, s.q(`UPDATE sections SET title = ?, updated_at_unixms = ? WHERE id = ?`), p.Title, now, id); err != nil {
		return model.Section{}, errors.Wrap(err, "updating section")
	}
	sec.Title = p.Title
	sec.UpdatedAt = fromMs(now)
	return sec, nil
}

// DeleteSection removes the section and its contents.
func (s *Store) DeleteSection(ctx context.Context, id string) error {
	if _, err := s.GetSection(ctx, id); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM contents WHERE section_id = ?`), id); err != nil {
			return errors.Wrap(err, "deleting section contents")
		}
		_, err := tx.ExecContext(ctx, s.q(`DELETE FROM sections WHERE id = ?`), id)
		return errors.Wrap(err, "deleting section")
	})
}

func (s *Store) ListContents(ctx context.Context, sectionID string) ([]model.Chapter, error) {
	if _, err := s.GetSection(ctx, sectionID); err != nil {
		return nil, err
	}
	var rows []contentRow
	err := s.db.SelectContext(ctx, &rows,
		s.q(`SELECT `+contentCols+` FROM contents WHERE section_id = ? ORDER BY ord, created_at_unixms, id`), sectionID)
	if err != nil {
		return nil, errors.Wrap(err, "listing contents")
	}
	out := make([]model.Chapter, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (s *Store) GetContent(ctx context.Context, id string) (model.Chapter, error) {
	var r contentRow
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT `+contentCols+` FROM contents WHERE id = ?`), id); err != nil {
		return model.Chapter{}, errors.Wrapf(err, "getting content %s", id)
	}
	return r.model(), nil
}

// CreateContent appends a chapter to a section. Order <= 0 means after the last one.
func (s *Store) CreateContent(ctx context.Context, sectionID string, in model.NewChapter) (model.Chapter, error) {
	if _, err := s.GetSection(ctx, sectionID); err != nil {
		return model.Chapter{}, err
	}
	r := contentRow{ID: uuid.NewString(), SectionID: sectionID, Title: in.Title, Type: string(in.Type), Ord: in.Order}
	r.CreatedAt = s.nowMs()
	r.UpdatedAt = r.CreatedAt
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if r.Ord <= 0 {
			var max sql.NullInt64
			if err := tx.GetContext(ctx, &max, s.q(`SELECT MAX(ord) FROM contents WHERE section_id = ?`), sectionID); err != nil {
				return errors.Wrap(err, "next content order")
			}
			r.Ord = int(max.Int64) + 1
		}
		return s.insertContent(ctx, tx, r)
	})
	if err != nil {
		return model.Chapter{}, err
	}
	return r.model(), nil
}

func (s *Store) insertContent(ctx context.Context, tx *sqlx.Tx, r contentRow) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO contents (`+contentCols+`) VALUES (
		:id, :section_id, :title, :type, :body, :video_url, :attachment_url, :xp, :ord,
		:access_from, :access_till, :access_from_unixms, :access_till_unixms, :created_at_unixms, :updated_at_unixms)`, r)
	return errors.Wrap(err, "inserting content")
}

// UpdateContent applies a partial update. Placement (section, order) never changes here.
func (s *Store) UpdateContent(ctx context.Context, id string, p model.ChapterPatch) (model.Chapter, error) {
	cur, err := s.GetContent(ctx, id)
	if err != nil {
		return model.Chapter{}, err
	}
	ch := p.Apply(cur)
	ch.UpdatedAt = fromMs(s.nowMs())
	_, err = s.db.ExecContext(ctx, s.q(`UPDATE contents SET
		title = ?, type = ?, body = ?, video_url = ?, attachment_url = ?, xp = ?,
		access_from = ?, access_till = ?, access_from_unixms = ?, access_till_unixms = ?, updated_at_unixms = ?
		WHERE id = ?`),
		ch.Title, string(ch.Type), ch.Body, ch.VideoURL, ch.AttachmentURL, ch.XP,
		ch.AccessFrom, ch.AccessTill, toNullMs(ch.AccessFromDate), toNullMs(ch.AccessTillDate), ch.UpdatedAt.UnixMilli(),
		id)
	if err != nil {
		return model.Chapter{}, errors.Wrap(err, "updating content")
	}
	return ch, nil
}

func (s *Store) DeleteContent(ctx context.Context, id string) error {
	if _, err := s.GetContent(ctx, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM contents WHERE id = ?`), id)
	return errors.Wrap(err, "deleting content")
}

// Reorder rewrites orders in one transaction. Every id must exist; a content
// reorder must stay within one section.
func (s *Store) Reorder(ctx context.Context, req model.ReorderRequest) error {
	var table string
	switch req.Type {
	case model.ReorderSection:
		table = "sections"
	case model.ReorderContent:
		table = "contents"
	default:
		return errBadRequest("type must be section or content")
	}
	if len(req.SortedOrder) == 0 {
		return nil
	}
	now := s.nowMs()
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		scope := ""
		for _, e := range req.SortedOrder {
			var owner string
			ownerCol := "course_id"
			if table == "contents" {
				ownerCol = "section_id"
			}
			err := tx.GetContext(ctx, &owner, s.q(`SELECT `+ownerCol+` FROM `+table+` WHERE id = ?`), e.ID)
			if err != nil {
				return errors.Wrapf(err, "reorder %s %s", req.Type, e.ID)
			}
			if scope == "" {
				scope = owner
			} else if owner != scope {
				return errBadRequest("sortedOrder spans more than one parent")
			}
			if _, err := tx.ExecContext(ctx, s.q(`UPDATE `+table+` SET ord = ?, updated_at_unixms = ? WHERE id = ?`), e.Order, now, e.ID); err != nil {
				return errors.Wrap(err, "updating order")
			}
		}
		return nil
	})
}
