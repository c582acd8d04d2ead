package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lms-admin/internal/remote"
)

func TestBridge_NavigateSurvivesFullBuffer(t *testing.T) {
	events := make(chan tea.Msg, 32)
	b := bridge{ch: events}
	for i := 0; i < cap(events); i++ {
		b.Error("boom")
	}
	// Toasts past capacity are dropped without blocking.
	b.Success("dropped")

	done := make(chan struct{})
	go func() {
		b.Navigate(remote.RouteLogin)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-events:
			if nav, ok := msg.(navigateMsg); ok {
				if nav.route != remote.RouteLogin {
					t.Fatalf("route = %q, want %q", nav.route, remote.RouteLogin)
				}
				<-done
				return
			}
		case <-deadline:
			t.Fatalf("redirect to %s never arrived", remote.RouteLogin)
		}
	}
}

func TestBridge_ToastsDeliveredInOrder(t *testing.T) {
	events := make(chan tea.Msg, 4)
	b := bridge{ch: events}
	b.Success("saved")
	b.Error("failed")

	first := (<-events).(toastMsg)
	second := (<-events).(toastMsg)
	if first.kind != toastSuccess || first.text != "saved" {
		t.Fatalf("first toast = %+v", first)
	}
	if second.kind != toastError || second.text != "failed" {
		t.Fatalf("second toast = %+v", second)
	}
}
