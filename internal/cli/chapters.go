package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"lms-admin/internal/curriculum"
	"lms-admin/internal/form"
	"lms-admin/internal/model"
)

func newChaptersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chapters",
		Aliases: []string{"chapter", "content"},
		Short:   "Curriculum chapter commands",
	}
	cmd.AddCommand(newChaptersListCmd(app))
	cmd.AddCommand(newChaptersShowCmd(app))
	cmd.AddCommand(newChaptersCreateCmd(app))
	cmd.AddCommand(newChaptersUpdateCmd(app))
	cmd.AddCommand(newChaptersDeleteCmd(app))
	cmd.AddCommand(newChaptersMoveCmd(app))
	return cmd
}

func newChaptersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <section-id>",
		Short: "List a section's chapters in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chs, err := app.sync.Chapters(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			curriculum.SortChapters(chs)
			return writeOut(cmd, app, map[string]any{"data": chs, "meta": map[string]any{"count": len(chs)}})
		},
	}
}

func newChaptersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <chapter-id>",
		Short: "Show a chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.sync.GetChapter(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ch})
		},
	}
}

func newChaptersCreateCmd(app *App) *cobra.Command {
	var in form.NewChapterInput
	var order int
	cmd := &cobra.Command{
		Use:   "create <section-id>",
		Short: "Append a chapter to a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clean, err := in.Validate()
			if err != nil {
				return writeErr(cmd, err)
			}
			ch, err := app.sync.CreateChapter(cmd.Context(), args[0], model.NewChapter{
				Title: clean.Title,
				Type:  model.ChapterType(clean.Type),
				Order: order,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ch})
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "Chapter title")
	cmd.Flags().StringVar(&in.Type, "type", string(model.ChapterTypeArticle), "Type (video|liveClass|assignment|article)")
	cmd.Flags().IntVar(&order, "order", 0, "Position (default: after the last chapter)")
	return cmd
}

func newChaptersUpdateCmd(app *App) *cobra.Command {
	var in form.ChapterInput
	cmd := &cobra.Command{
		Use:   "update <chapter-id>",
		Short: "Edit a chapter; an empty value clears an optional field",
		Example: strings.TrimSpace(`
  lmsadmin chapters update <chapter-id> --title "Welcome" --xp 10
  lmsadmin chapters update <chapter-id> --access-till ""   # remove the access limit
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.sync.GetChapter(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			f := form.NewChapterForm(ch)
			// Only flags given on the command line override the chapter's current values.
			fl := cmd.Flags()
			set := func(name string, dst *string, v string) {
				if fl.Changed(name) {
					*dst = v
				}
			}
			set("title", &f.Input.Title, in.Title)
			set("type", &f.Input.Type, in.Type)
			set("body", &f.Input.Body, in.Body)
			set("video-url", &f.Input.VideoURL, in.VideoURL)
			set("attachment-url", &f.Input.AttachmentURL, in.AttachmentURL)
			set("xp", &f.Input.XP, in.XP)
			set("access-from", &f.Input.AccessFrom, in.AccessFrom)
			set("access-till", &f.Input.AccessTill, in.AccessTill)
			set("access-from-date", &f.Input.AccessFromDate, in.AccessFromDate)
			set("access-till-date", &f.Input.AccessTillDate, in.AccessTillDate)

			p, err := f.Submit()
			if err != nil {
				return writeErr(cmd, err)
			}
			out, err := app.sync.UpdateChapter(cmd.Context(), f.SectionID, f.ChapterID, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "Title")
	cmd.Flags().StringVar(&in.Type, "type", "", "Type (video|liveClass|assignment|article)")
	cmd.Flags().StringVar(&in.Body, "body", "", "Body (markdown)")
	cmd.Flags().StringVar(&in.VideoURL, "video-url", "", "Video URL")
	cmd.Flags().StringVar(&in.AttachmentURL, "attachment-url", "", "Attachment URL")
	cmd.Flags().StringVar(&in.XP, "xp", "", "Experience points")
	cmd.Flags().StringVar(&in.AccessFrom, "access-from", "", "Available from N days after enrollment")
	cmd.Flags().StringVar(&in.AccessTill, "access-till", "", "Available until N days after enrollment")
	cmd.Flags().StringVar(&in.AccessFromDate, "access-from-date", "", "Available from (date-time)")
	cmd.Flags().StringVar(&in.AccessTillDate, "access-till-date", "", "Available until (date-time)")
	return cmd
}

func newChaptersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <chapter-id>",
		Short: "Delete a chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.sync.GetChapter(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			intent := form.NewChapterForm(ch).Delete()
			if err := app.sync.DeleteChapter(cmd.Context(), intent.SectionID, intent.ChapterID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": intent.ChapterID, "deleted": true}})
		},
	}
}

func newChaptersMoveCmd(app *App) *cobra.Command {
	var courseID string
	var onto string
	cmd := &cobra.Command{
		Use:   "move <chapter-id>",
		Short: "Move a chapter to the position of another chapter in the same section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTree(cmd.Context(), app, courseID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := t.SectionOfChapter(args[0]); !ok {
				return writeErr(cmd, errNotFound("chapter", args[0]))
			}
			drop, err := curriculum.NewController(t).Move(curriculum.DragPayload{Kind: curriculum.DragChapter, ID: args[0]}, strings.TrimSpace(onto))
			if err != nil {
				return writeErr(cmd, err)
			}
			return applyDrop(cmd, app, t, drop)
		},
	}
	cmd.Flags().StringVar(&courseID, "course", "", "Course id")
	cmd.Flags().StringVar(&onto, "onto", "", "Chapter to drop onto")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("onto")
	return cmd
}
