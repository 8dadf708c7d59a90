package handlers

import (
	"github.com/courtvision/player-summary/internal/view"
)

// MockViewSource implements ViewSource for testing
type MockViewSource struct {
	StateFunc    func() view.State
	SnapshotFunc func() view.Snapshot
}

func (m *MockViewSource) State() view.State {
	if m.StateFunc != nil {
		return m.StateFunc()
	}
	return view.Uninitialized
}

func (m *MockViewSource) Snapshot() view.Snapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return view.Snapshot{State: m.State()}
}
