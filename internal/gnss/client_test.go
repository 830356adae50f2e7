package gnss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	mu      sync.Mutex
	calls   []string
	query   map[string]string
	payload string
}

func (s *fakeService) snapshot() ([]string, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := make(map[string]string, len(s.query))
	for k, v := range s.query {
		q[k] = v
	}
	return append([]string(nil), s.calls...), q
}

func newFakeService(t *testing.T, payload string) (*fakeService, *Client) {
	t.Helper()

	svc := &fakeService{payload: payload, query: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		svc.mu.Lock()
		svc.calls = append(svc.calls, r.URL.Path)
		for k := range r.URL.Query() {
			svc.query[k] = r.URL.Query().Get(k)
		}
		svc.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/get/lnglat":
			_, _ = w.Write([]byte(svc.payload))
		case "/update/loc/", "/start", "/stop":
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return svc, NewClient(srv.URL+"/", srv.Client())
}

func TestClientPosition(t *testing.T) {
	_, c := newFakeService(t, `{"lng":113.259105,"lat":23.131839}`)

	p, err := c.Position(context.Background())
	require.NoError(t, err)
	assert.Equal(t, orb.Point{113.259105, 23.131839}, p)
}

func TestClientPositionNoFix(t *testing.T) {
	_, c := newFakeService(t, `null`)

	_, err := c.Position(context.Background())
	assert.ErrorIs(t, err, ErrNoFix)
}

func TestClientSetVehicle(t *testing.T) {
	svc, c := newFakeService(t, `null`)

	require.NoError(t, c.SetVehicle(context.Background(), orb.Point{113.2591053801, 23.131839616}))

	calls, query := svc.snapshot()
	assert.Equal(t, []string{"/update/loc/"}, calls)
	assert.Equal(t, "113.2591053801", query["lng"])
	assert.Equal(t, "23.131839616", query["lat"])
}

func TestClientSimulator(t *testing.T) {
	svc, c := newFakeService(t, `null`)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Stop(context.Background()))
	calls, _ := svc.snapshot()
	assert.Equal(t, []string{"/start", "/stop"}, calls)
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
