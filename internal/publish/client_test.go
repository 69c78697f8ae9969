package publish

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picfeed/realtime/internal/domain"
)

func TestClient_PublishPostsToRoomRoute(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte("Broadcasted"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Publish(context.Background(), domain.KindComments, "p1", []byte(`{"id":"c1"}`))

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/rooms/comments/p1/broadcast", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, `{"id":"c1"}`, string(gotBody))
}

func TestClient_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Publish(context.Background(), domain.KindDM, "c1", []byte("{}"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestClient_TryPublishSwallowsGatewayUnavailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // gateway is down

	c := NewClient(srv.URL, 100*time.Millisecond)
	// Must not panic or block beyond the timeout; the write is already durable.
	c.TryPublish(context.Background(), domain.KindNotifications, "u1", []byte("{}"))
}
