package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatterbox/internal/app/auth"
	"chatterbox/internal/app/chat"
	"chatterbox/internal/app/user"
	"chatterbox/internal/configs"
)

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]user.User)}
}

func (f *fakeUserStore) Create(_ context.Context, username, passwordHash string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[username]; exists {
		return user.User{}, user.ErrUsernameTaken
	}

	u := user.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	f.users[username] = u
	return u, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, exists := f.users[username]
	if !exists {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

// fakeHistory is an in-memory chat.HistoryStore plus MessageCounter.
type fakeHistory struct {
	mu       sync.Mutex
	appended []chat.Message
}

func (f *fakeHistory) Append(_ context.Context, msg chat.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, msg)
	return nil
}

func (f *fakeHistory) RecentN(_ context.Context, n int) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.appended) > n {
		return append([]chat.Message(nil), f.appended[len(f.appended)-n:]...), nil
	}
	return append([]chat.Message(nil), f.appended...), nil
}

func (f *fakeHistory) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.appended)), nil
}

func (f *fakeHistory) appendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

// newTestDeps wires an AppDeps around in-memory fakes.
func newTestDeps() (*AppDeps, *fakeHistory) {
	registry := chat.NewRegistry()
	history := &fakeHistory{}

	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment:  "development",
			Port:         8080,
			HistoryLimit: 50,
		},
		Registry:    registry,
		Broadcaster: chat.NewBroadcaster(registry, history, 50),
		Sessions:    auth.NewSessionStore(),
		Users:       newFakeUserStore(),
		Messages:    history,
	}

	return deps, history
}

// doJSON performs one JSON request against the given handler and decodes the
// standard response envelope.
func doJSON(handler http.HandlerFunc, method, target, body string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	rec := httptest.NewRecorder()
	handler(rec, req)

	var envelope map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)

	return rec, envelope
}
