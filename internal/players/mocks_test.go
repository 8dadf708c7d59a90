package players

import (
	"context"
	"encoding/json"

	"github.com/courtvision/player-summary/internal/apiclient"
)

// MockAPI implements API for testing
type MockAPI struct {
	GetFunc func(ctx context.Context, path string) (json.RawMessage, error)
	// GoFunc overrides the default, which wraps GetFunc in a one-shot channel
	GoFunc func(ctx context.Context, path string) <-chan apiclient.Result

	Paths []string
}

func (m *MockAPI) Get(ctx context.Context, path string) (json.RawMessage, error) {
	m.Paths = append(m.Paths, path)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, path)
	}
	return json.RawMessage(`{}`), nil
}

func (m *MockAPI) Go(ctx context.Context, path string) <-chan apiclient.Result {
	if m.GoFunc != nil {
		m.Paths = append(m.Paths, path)
		return m.GoFunc(ctx, path)
	}
	out := make(chan apiclient.Result, 1)
	body, err := m.Get(ctx, path)
	out <- apiclient.Result{Body: body, Err: err}
	close(out)
	return out
}
