package publish

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lms-admin/internal/curriculum"
	"lms-admin/internal/model"
)

type RenderOptions struct {
	// IncludeBody adds each chapter's markdown body to its page.
	IncludeBody bool
}

// RenderCourseIndexMarkdown renders the course overview with its ordered curriculum.
func RenderCourseIndexMarkdown(course model.Course, t *curriculum.Tree) (string, error) {
	if t == nil {
		return "", fmt.Errorf("missing curriculum")
	}
	if t.CourseID != course.ID {
		return "", fmt.Errorf("curriculum belongs to course %s, not %s", t.CourseID, course.ID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(course.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + course.ID)
	if course.Slug != "" {
		writeLn("- Slug: " + course.Slug)
	}
	writeLn("- Status: " + string(course.Status))
	writeLn("- Price: " + formatPrice(course))
	if course.StartDate != nil {
		writeLn("- Starts: " + course.StartDate.UTC().Format(time.RFC3339))
	}
	if course.EndDate != nil {
		writeLn("- Ends: " + course.EndDate.UTC().Format(time.RFC3339))
	}

	if desc := strings.TrimSpace(course.Description); desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}

	writeLn("")
	writeLn("## Curriculum")
	writeLn("")
	if t.Len() == 0 {
		writeLn("(no sections)")
		return buf.String(), nil
	}
	for _, n := range t.Sections() {
		fmt.Fprintf(&buf, "%d. %s\n", n.Section.Order, strings.TrimSpace(n.Section.Title))
		for _, ch := range n.Chapters {
			fmt.Fprintf(&buf, "   - [%s](chapters/%s.md) (%s)\n", strings.TrimSpace(ch.Title), ch.ID, ch.Type)
		}
	}
	return buf.String(), nil
}

// RenderChapterMarkdown renders one chapter page.
func RenderChapterMarkdown(section model.Section, ch model.Chapter, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(ch.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + ch.ID)
	writeLn("- Section: " + strings.TrimSpace(section.Title) + " (" + section.ID + ")")
	writeLn("- Type: " + string(ch.Type))
	writeLn("- Position: " + strconv.Itoa(ch.Order))
	if ch.XP > 0 {
		writeLn("- XP: " + strconv.Itoa(ch.XP))
	}
	if ch.VideoURL != nil && *ch.VideoURL != "" {
		writeLn("- Video: " + *ch.VideoURL)
	}
	if ch.AttachmentURL != nil && *ch.AttachmentURL != "" {
		writeLn("- Attachment: " + *ch.AttachmentURL)
	}
	if access := formatAccess(ch); access != "" {
		writeLn("- Access: " + access)
	}
	writeLn("- Updated: " + ch.UpdatedAt.UTC().Format(time.RFC3339))

	if opt.IncludeBody {
		body := strings.TrimSpace(ch.Body)
		if body == "" {
			body = "(empty)"
		}
		writeLn("")
		writeLn("## Content")
		writeLn("")
		writeLn(body)
	}
	return buf.String()
}

func formatPrice(c model.Course) string {
	cur := strings.TrimSpace(c.Currency)
	p := strconv.FormatFloat(c.Price, 'f', 2, 64)
	if c.DiscountedPrice != nil {
		p = strconv.FormatFloat(*c.DiscountedPrice, 'f', 2, 64) + " (was " + p + ")"
	}
	if cur != "" {
		p += " " + cur
	}
	return p
}

// formatAccess describes the relative and absolute access windows, if any.
func formatAccess(ch model.Chapter) string {
	var parts []string
	switch {
	case ch.AccessFrom != nil && ch.AccessTill != nil:
		parts = append(parts, fmt.Sprintf("days %d-%d after enrollment", *ch.AccessFrom, *ch.AccessTill))
	case ch.AccessFrom != nil:
		parts = append(parts, fmt.Sprintf("from day %d after enrollment", *ch.AccessFrom))
	case ch.AccessTill != nil:
		parts = append(parts, fmt.Sprintf("until day %d after enrollment", *ch.AccessTill))
	}
	if ch.AccessFromDate != nil {
		parts = append(parts, "from "+ch.AccessFromDate.UTC().Format(time.RFC3339))
	}
	if ch.AccessTillDate != nil {
		parts = append(parts, "until "+ch.AccessTillDate.UTC().Format(time.RFC3339))
	}
	return strings.Join(parts, ", ")
}
