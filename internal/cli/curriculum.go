package cli

import (
	"github.com/spf13/cobra"

	"lms-admin/internal/curriculum"
)

type curriculumRow struct {
	Kind      string `json:"kind"`
	ID        string `json:"id"`
	SectionID string `json:"sectionId,omitempty"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Type      string `json:"type,omitempty"`
	Chapters  *int   `json:"chapters,omitempty"`
}

func newCurriculumCmd(app *App) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:     "curriculum <course-id>",
		Aliases: []string{"edit"},
		Short:   "Edit a course curriculum (sections and chapters) interactively",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !printOnly {
				if err := runCurriculumTUI(app, args[0]); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}
			t, err := loadTree(cmd.Context(), app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := t.Rows()
			out := make([]curriculumRow, 0, len(rows))
			for _, r := range rows {
				cr := curriculumRow{ID: r.ID(), Title: r.Title, Order: r.Order}
				if r.Kind == curriculum.RowSection {
					n := r.ChapterCount
					cr.Kind = "section"
					cr.Chapters = &n
				} else {
					cr.Kind = "chapter"
					cr.SectionID = r.SectionID
					cr.Type = string(r.Type)
				}
				out = append(out, cr)
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"courseId": t.CourseID, "sections": t.Len()},
			})
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the curriculum tree instead of opening the editor")
	return cmd
}
