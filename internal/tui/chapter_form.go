package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lms-admin/internal/form"
	"lms-admin/internal/model"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldType
	fieldBody
)

type formField struct {
	key   string // json name, matches form.FieldError.Field
	label string
	kind  fieldKind
	input textinput.Model
}

// chapterPane is the edit form for the selected chapter. It is rebuilt from the
// chapter's values whenever the selection changes.
type chapterPane struct {
	form   *form.ChapterForm
	fields []formField
	body   textarea.Model
	typeIx int
	focus  int
	dirty  bool
	errs   *form.ValidationError
}

func newChapterPane(ch model.Chapter) *chapterPane {
	f := form.NewChapterForm(ch)
	p := &chapterPane{form: f}

	add := func(key, label, value, placeholder string) {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = 500
		in.SetValue(value)
		p.fields = append(p.fields, formField{key: key, label: label, kind: fieldText, input: in})
	}
	add("title", "Title", f.Input.Title, "required")
	p.fields = append(p.fields, formField{key: "type", label: "Type", kind: fieldType})
	add("xp", "XP", f.Input.XP, "0")
	add("videoUrl", "Video URL", f.Input.VideoURL, "https://…")
	add("attachmentUrl", "Attachment URL", f.Input.AttachmentURL, "https://…")
	add("accessFrom", "Access from (days)", f.Input.AccessFrom, "empty: no limit")
	add("accessTill", "Access till (days)", f.Input.AccessTill, "empty: no limit")
	add("accessFromDate", "Access from (date)", f.Input.AccessFromDate, "2006-01-02T15:04")
	add("accessTillDate", "Access till (date)", f.Input.AccessTillDate, "2006-01-02T15:04")
	p.fields = append(p.fields, formField{key: "body", label: "Body (markdown)", kind: fieldBody})

	p.typeIx = 0
	for i, t := range model.ChapterTypes {
		if string(t) == f.Input.Type {
			p.typeIx = i
		}
	}

	p.body = textarea.New()
	p.body.ShowLineNumbers = false
	p.body.CharLimit = 0
	p.body.SetHeight(6)
	p.body.SetValue(f.Input.Body)
	p.body.Blur()
	return p
}

func (p *chapterPane) chapterID() string { return p.form.ChapterID }
func (p *chapterPane) sectionID() string { return p.form.SectionID }

func (p *chapterPane) title() string { return p.fields[0].input.Value() }

// focusFirst gives keyboard focus to the pane's current field.
func (p *chapterPane) focusFirst() tea.Cmd {
	return p.setFocus(p.focus)
}

func (p *chapterPane) blur() {
	for i := range p.fields {
		p.fields[i].input.Blur()
	}
	p.body.Blur()
}

func (p *chapterPane) setFocus(i int) tea.Cmd {
	n := len(p.fields)
	p.focus = ((i % n) + n) % n
	p.blur()
	switch f := &p.fields[p.focus]; f.kind {
	case fieldText:
		return f.input.Focus()
	case fieldBody:
		return p.body.Focus()
	}
	return nil
}

// Update routes a key to the focused field. titleChanged reports a title edit
// so the caller can mirror it into the tree.
func (p *chapterPane) Update(msg tea.KeyMsg) (cmd tea.Cmd, titleChanged bool) {
	switch msg.String() {
	case "tab":
		return p.setFocus(p.focus + 1), false
	case "shift+tab":
		return p.setFocus(p.focus - 1), false
	}

	f := &p.fields[p.focus]
	switch f.kind {
	case fieldType:
		switch msg.String() {
		case "left", "h":
			p.typeIx = (p.typeIx + len(model.ChapterTypes) - 1) % len(model.ChapterTypes)
			p.dirty = true
		case "right", "l", " ":
			p.typeIx = (p.typeIx + 1) % len(model.ChapterTypes)
			p.dirty = true
		}
		return nil, false
	case fieldBody:
		before := p.body.Value()
		p.body, cmd = p.body.Update(msg)
		if p.body.Value() != before {
			p.dirty = true
		}
		return cmd, false
	}

	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() == before {
		return cmd, false
	}
	p.dirty = true
	return cmd, f.key == "title"
}

// syncInput copies the widget values into the bound form.
func (p *chapterPane) syncInput() {
	in := &p.form.Input
	for _, f := range p.fields {
		v := f.input.Value()
		switch f.key {
		case "title":
			in.Title = v
		case "xp":
			in.XP = v
		case "videoUrl":
			in.VideoURL = v
		case "attachmentUrl":
			in.AttachmentURL = v
		case "accessFrom":
			in.AccessFrom = v
		case "accessTill":
			in.AccessTill = v
		case "accessFromDate":
			in.AccessFromDate = v
		case "accessTillDate":
			in.AccessTillDate = v
		}
	}
	in.Type = string(model.ChapterTypes[p.typeIx])
	in.Body = p.body.Value()
}

// submit validates and returns the partial update. Field errors are kept for
// rendering next to the inputs.
func (p *chapterPane) submit() (model.ChapterPatch, error) {
	p.syncInput()
	patch, err := p.form.Submit()
	p.errs = nil
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		p.errs = ve
	}
	return patch, err
}

func (p *chapterPane) deleteIntent() form.DeleteIntent { return p.form.Delete() }

func (p *chapterPane) View(width int, focused bool) string {
	if width < 20 {
		width = 20
	}
	labelW := 20
	inputW := width - labelW - 3
	if inputW < 8 {
		inputW = 8
	}

	var b strings.Builder
	head := "Chapter"
	if p.dirty {
		head += " *"
	}
	b.WriteString(styleAccent().Render(head) + "\n\n")

	for i, f := range p.fields {
		label := f.label
		active := focused && i == p.focus
		marker := "  "
		if active {
			marker = styleAccent().Render("› ")
		}
		labelSt := lipgloss.NewStyle().Width(labelW)
		if !active {
			labelSt = labelSt.Inherit(styleMuted())
		}

		switch f.kind {
		case fieldText:
			in := f.input
			in.Width = inputW
			b.WriteString(marker + labelSt.Render(label) + renderInputLine(inputW+2, in.View()) + "\n")
		case fieldType:
			var opts []string
			for j, t := range model.ChapterTypes {
				s := string(t)
				if j == p.typeIx {
					s = styleSelected().Render(s)
				} else {
					s = styleMuted().Render(s)
				}
				opts = append(opts, s)
			}
			b.WriteString(marker + labelSt.Render(label) + " " + strings.Join(opts, " ") + "\n")
		case fieldBody:
			b.WriteString(marker + labelSt.Render(label) + "\n")
			if active {
				ta := p.body
				ta.SetWidth(width - 2)
				b.WriteString(ta.View() + "\n")
			} else if md := renderMarkdown(p.body.Value(), width-2); md != "" {
				b.WriteString(md + "\n")
			} else {
				b.WriteString(styleMuted().Render("  (empty)") + "\n")
			}
		}
		if p.errs != nil {
			if msg := p.errs.Message(f.key); msg != "" {
				b.WriteString("  " + styleError().Render(msg) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
