package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/stretchr/testify/require"
)

const (
	goodEmail    = "a@b.com"
	goodPassword = "pw"
	goodRefresh  = "good"
)

// fakeBackend plays the REST API the client talks to.
type fakeBackend struct {
	srv *httptest.Server

	mu       sync.Mutex
	hits     map[string]int
	lastAuth map[string]string
	issued   int

	exchangeStarted chan struct{}
	exchangeRelease chan struct{}
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{hits: map[string]int{}, lastAuth: map[string]string{}}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

// blockExchanges makes /get-access-token wait for release.
func (b *fakeBackend) blockExchanges() (started <-chan struct{}, release func()) {
	b.exchangeStarted = make(chan struct{}, 16)
	b.exchangeRelease = make(chan struct{})
	var once sync.Once
	return b.exchangeStarted, func() { once.Do(func() { close(b.exchangeRelease) }) }
}

func (b *fakeBackend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *fakeBackend) Auth(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth[path]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.ContentTypeHeaderName, common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	b.mu.Lock()
	b.hits[path]++
	b.lastAuth[path] = r.Header.Get(common.AuthorizationHeaderName)
	b.mu.Unlock()

	authed := strings.HasPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix+"tok-")

	switch path {
	case common.PathAccessToken:
		if b.exchangeStarted != nil {
			b.exchangeStarted <- struct{}{}
			<-b.exchangeRelease
		}
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.RefreshToken != goodRefresh {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
			return
		}
		b.mu.Lock()
		b.issued++
		n := b.issued
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": fmt.Sprintf("tok-%d", n),
			"my_user":     map[string]string{"_id": "u-1", "name": "Ann", "userType": "admin"},
		})

	case common.PathLogin:
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != goodEmail || body["password"] != goodPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"refreshToken": goodRefresh})

	case common.PathLogout:
		writeJSON(w, http.StatusOK, map[string]string{"message": "bye"})

	case common.PathRegister:
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		resp := map[string]any{
			"user":         map[string]string{"_id": "u-9", "name": body["name"], "userType": "user"},
			"refreshToken": goodRefresh,
			"accessToken":  "tok-reg",
		}
		switch body["name"] {
		case "NoAccess":
			delete(resp, "accessToken")
		case "Stale":
			delete(resp, "accessToken")
			resp["refreshToken"] = "stale"
		}
		writeJSON(w, http.StatusCreated, resp)

	case common.PathForgotPassword, common.PathResetPassword:
		raw, _ := io.ReadAll(r.Body)
		w.Header().Set(common.ContentTypeHeaderName, common.ContentTypeJSON)
		_, _ = w.Write(raw)

	case "/get-lead":
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leads": []string{"l-1", "l-2"}, "q": r.URL.Query().Get("status")})

	case "/echo":
		writeJSON(w, http.StatusOK, map[string]string{
			"contentType": r.Header.Get(common.ContentTypeHeaderName),
			"custom":      r.Header.Get("X-Custom"),
			"method":      r.Method,
		})

	case common.PathProfileUpdate:
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad form"})
			return
		}
		name := r.FormValue("name")
		if name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "name is required"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user": map[string]string{"_id": "u-1", "name": name, "userType": "admin"},
		})

	case common.PathCreateGroup:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["name"] {
		case "":
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		case "Quiet":
			writeJSON(w, http.StatusOK, map[string]any{"success": false})
		default:
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "group": map[string]any{"_id": "g-new", "name": body["name"]}})
		}

	case common.PathGroupConversations:
		writeJSON(w, http.StatusOK, []map[string]string{{"_id": "g-1", "name": "Default"}})

	case common.PathUserGroupIDs + "u-1", common.PathUserGroupIDs + "u-7":
		writeJSON(w, http.StatusOK, map[string]any{"groupIds": []string{"g-1", strings.TrimPrefix(path, common.PathUserGroupIDs)}})

	case common.PathGroupsByUser + "u-1":
		writeJSON(w, http.StatusOK, []map[string]string{{"_id": "g-1"}, {"_id": "g-2"}})

	case common.PathGroupsByUser + "u-2":
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]string{{"_id": "g-3"}}})

	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	}
}

type notifications struct {
	mu   sync.Mutex
	list []Notification
}

func (n *notifications) Notify(_ context.Context, v Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, v)
}

func (n *notifications) All() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.list...)
}

type reasons struct {
	mu   sync.Mutex
	list []Reason
}

func (r *reasons) add(v Reason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, v)
}

func (r *reasons) All() []Reason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Reason(nil), r.list...)
}

type countingRecorder struct {
	refreshes atomic.Int64
	calls     atomic.Int64
}

func (r *countingRecorder) ObserveRefresh(string)                      { r.refreshes.Add(1) }
func (r *countingRecorder) ObserveCall(string, string, time.Duration) { r.calls.Add(1) }

type harness struct {
	backend  *fakeBackend
	store    *credentials.MemoryRepository
	client   *Client
	notes    *notifications
	reasons  *reasons
	recorder *countingRecorder
}

func newHarness(t *testing.T, singleFlight bool) *harness {
	t.Helper()
	h := &harness{
		backend:  newFakeBackend(t),
		store:    credentials.NewMemoryRepository(),
		notes:    &notifications{},
		reasons:  &reasons{},
		recorder: &countingRecorder{},
	}
	c, err := New(
		Config{BaseURL: h.backend.srv.URL, Timeout: 2 * time.Second, SingleFlight: singleFlight},
		h.store,
		WithNotifier(h.notes),
		WithRecorder(h.recorder),
		WithHTTPClient(h.backend.srv.Client()),
	)
	require.NoError(t, err)
	c.OnUnauthenticated(h.reasons.add)
	h.client = c
	return h
}

func (h *harness) persisted(t *testing.T) string {
	t.Helper()
	v, err := h.store.Get(context.Background(), common.RefreshTokenKey)
	require.NoError(t, err)
	return v
}
