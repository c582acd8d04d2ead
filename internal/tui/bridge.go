package tui

import tea "github.com/charmbracelet/bubbletea"

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

type toastMsg struct {
	kind toastKind
	text string
}

type navigateMsg struct{ route string }

// bridge feeds the sync layer's toasts and redirects into the bubbletea loop.
// It is called from command goroutines. Toasts are dropped when the buffer is
// full; redirects block until the loop drains the channel.
type bridge struct{ ch chan<- tea.Msg }

func (b bridge) Success(msg string) { b.send(toastMsg{kind: toastSuccess, text: msg}) }
func (b bridge) Error(msg string)   { b.send(toastMsg{kind: toastError, text: msg}) }

func (b bridge) Navigate(route string) {
	if b.ch == nil {
		return
	}
	b.ch <- navigateMsg{route: route}
}

func (b bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg { return <-ch }
}
