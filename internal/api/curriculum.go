package api

import (
	"context"
	"net/url"

	"lms-admin/internal/model"
)

func sectionsPath(courseID string) string {
	return "/api/admin/courses/" + url.PathEscape(courseID) + "/sections"
}

func sectionPath(sectionID string) string {
	return "/api/admin/sections/" + url.PathEscape(sectionID)
}

func contentsPath(sectionID string) string {
	return sectionPath(sectionID) + "/content"
}

func contentPath(chapterID string) string {
	return "/api/admin/content/" + url.PathEscape(chapterID)
}

func (c *Client) ListSections(ctx context.Context, courseID string) ([]model.Section, error) {
	var out []model.Section
	if err := c.get(ctx, sectionsPath(courseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSection(ctx context.Context, courseID string, in model.NewSection) (model.Section, error) {
	var out model.Section
	err := c.post(ctx, sectionsPath(courseID), in, &out)
	return out, err
}

func (c *Client) UpdateSection(ctx context.Context, sectionID string, p model.SectionPatch) (model.Section, error) {
	var out model.Section
	err := c.put(ctx, sectionPath(sectionID), p, &out)
	return out, err
}

func (c *Client) DeleteSection(ctx context.Context, sectionID string) error {
	return c.delete(ctx, sectionPath(sectionID))
}

func (c *Client) ListChapters(ctx context.Context, sectionID string) ([]model.Chapter, error) {
	var out []model.Chapter
	if err := c.get(ctx, contentsPath(sectionID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetChapter(ctx context.Context, chapterID string) (model.Chapter, error) {
	var out model.Chapter
	err := c.get(ctx, contentPath(chapterID), nil, &out)
	return out, err
}

func (c *Client) CreateChapter(ctx context.Context, sectionID string, in model.NewChapter) (model.Chapter, error) {
	var out model.Chapter
	err := c.post(ctx, contentsPath(sectionID), in, &out)
	return out, err
}

// UpdateChapter sends a partial update; unset fields go out as null.
func (c *Client) UpdateChapter(ctx context.Context, chapterID string, p model.ChapterPatch) (model.Chapter, error) {
	var out model.Chapter
	err := c.put(ctx, contentPath(chapterID), p, &out)
	return out, err
}

func (c *Client) DeleteChapter(ctx context.Context, chapterID string) error {
	return c.delete(ctx, contentPath(chapterID))
}

// Reorder rewrites the order of sections or of one section's chapters in one call.
func (c *Client) Reorder(ctx context.Context, req model.ReorderRequest) error {
	return c.put(ctx, "/api/admin/sort-order", req, nil)
}
