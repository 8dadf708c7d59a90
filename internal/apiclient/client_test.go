package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: baseURL, Logger: zap.NewNop()})
	require.NoError(t, err)
	return c
}

func TestNew_BaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "origin", raw: "http://localhost:8000", want: "http://localhost:8000"},
		{name: "trailing slash", raw: "https://stats.example.com/", want: "https://stats.example.com"},
		{name: "path prefix", raw: "http://gateway:8080/summary/", want: "http://gateway:8080/summary"},
		{name: "relative", raw: "/api", wantErr: true},
		{name: "bad scheme", raw: "ftp://example.com", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Config{BaseURL: tt.raw})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}
}

func TestGet_Success(t *testing.T) {
	var gotPath, gotRequestID, gotAccept string
	r := chi.NewRouter()
	r.Get("/api/v1/playerSummary/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"player_id":` + chi.URLParam(r, "playerID") + `}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/")
	before := testutil.ToFloat64(requestsTotal.WithLabelValues("ok"))

	body, err := c.Get(context.Background(), "/api/v1/playerSummary/12")
	require.NoError(t, err)
	assert.JSONEq(t, `{"player_id":12}`, string(body))
	assert.Equal(t, "/api/v1/playerSummary/12", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err, "X-Request-ID should be a UUID")
	assert.Equal(t, before+1, testutil.ToFloat64(requestsTotal.WithLabelValues("ok")))
}

func TestGet_PathPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/gateway")
	_, err := c.Get(context.Background(), "/api/v1/playerSummary/0")
	require.NoError(t, err)
	assert.Equal(t, "/gateway/api/v1/playerSummary/0", gotPath)
}

func TestGet_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		kind     ErrorKind
		sentinel error
		status   int
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
			},
			kind:     KindStatus,
			sentinel: ErrStatus,
			status:   http.StatusNotFound,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(strings.Repeat("x", 2*maxErrorBody)))
			},
			kind:     KindStatus,
			sentinel: ErrStatus,
			status:   http.StatusInternalServerError,
		},
		{
			name: "html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			},
			kind:     KindDecode,
			sentinel: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			before := testutil.ToFloat64(requestsTotal.WithLabelValues(tt.kind.String()))

			body, err := c.Get(context.Background(), "/api/v1/playerSummary/3")
			require.Error(t, err)
			assert.Nil(t, body)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.kind, KindOf(err))

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "/api/v1/playerSummary/3", apiErr.Path)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.LessOrEqual(t, len(apiErr.Body), maxErrorBody)
			assert.Equal(t, before+1, testutil.ToFloat64(requestsTotal.WithLabelValues(tt.kind.String())))
		})
	}
}

func TestGet_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.Get(context.Background(), "/api/v1/playerSummary/1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrStatus)
}

func TestGet_OversizedBody(t *testing.T) {
	// valid JSON array just over the read limit
	body := "[" + strings.Repeat("0,", maxResponseBody/2) + "0]"
	require.Greater(t, len(body), maxResponseBody)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	raw, err := c.Get(context.Background(), "/api/v1/playerSummary/1")
	require.Error(t, err)
	assert.Nil(t, raw)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestGet_ContextCanceled(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "/api/v1/playerSummary/1")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGo_DeliversOnceAndCloses(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	results := c.Go(context.Background(), "/anything")

	select {
	case <-results:
		t.Fatal("result delivered before the response")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)

	select {
	case res, ok := <-results:
		require.True(t, ok)
		require.NoError(t, res.Err)
		assert.JSONEq(t, `{"ok":true}`, string(res.Body))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}

	_, ok := <-results
	assert.False(t, ok, "channel should be closed after the single result")
}

func TestGo_NoListener(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	results := c.Go(context.Background(), "/")

	// Nobody reads; the buffered send must still let the goroutine finish
	// and close the channel.
	require.Eventually(t, func() bool {
		return len(results) == 1
	}, 5*time.Second, 5*time.Millisecond)
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindStatus, Path: "/p", StatusCode: 502, Body: "bad gateway"}
	assert.Equal(t, `GET /p: unexpected response status: status=502 body="bad gateway"`, err.Error())

	err = DecodeError("/p", errors.New("missing shots"))
	assert.Equal(t, "GET /p: malformed response body: missing shots", err.Error())
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("plain")))
}
