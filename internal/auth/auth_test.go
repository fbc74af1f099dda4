package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iurnickita/wbsales/internal/store"
	"github.com/iurnickita/wbsales/internal/token/config"
)

type memUsers struct {
	users map[string]string
	codes map[string]string
}

func (m *memUsers) AuthRegister(_ context.Context, login string, passwordHash string) (string, error) {
	if _, ok := m.users[login]; ok {
		return "", store.ErrAlreadyExists
	}
	m.users[login] = passwordHash
	m.codes[login] = strconv.Itoa(len(m.codes) + 1)
	return m.codes[login], nil
}

func (m *memUsers) AuthGetUser(_ context.Context, login string) (string, string, error) {
	hash, ok := m.users[login]
	if !ok {
		return "", "", store.ErrNoRows
	}
	return m.codes[login], hash, nil
}

func newTestAuth() Auth {
	return NewAuth(config.Config{SecretKey: "secret", TokenExp: time.Hour},
		&memUsers{users: map[string]string{}, codes: map[string]string{}},
		zap.NewNop())
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return w
}

func TestRegisterLogin(t *testing.T) {
	a := newTestAuth()

	w := post(a.Register, `{"login":"manager","password":"pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Authorization"), "Bearer "))
	require.Len(t, w.Result().Cookies(), 1)

	w = post(a.Register, `{"login":"manager","password":"other"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	w = post(a.Register, `{"login":"","password":"pass"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = post(a.Register, `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = post(a.Login, `{"login":"manager","password":"pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = post(a.Login, `{"login":"manager","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(a.Login, `{"login":"nobody","password":"pass"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware(t *testing.T) {
	a := newTestAuth()
	w := post(a.Register, `{"login":"manager","password":"pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	bearer := w.Header().Get("Authorization")
	cookie := w.Result().Cookies()[0]

	var got string
	protected := a.Middleware(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(HeaderUserCodeKey)
	})

	// заголовок Authorization
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", bearer)
	w = httptest.NewRecorder()
	protected(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1", got)

	// кука
	got = ""
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	protected(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1", got)

	// без токена и с подделанным кодом пользователя
	got = ""
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderUserCodeKey, "999")
	w = httptest.NewRecorder()
	protected(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, got)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer broken")
	w = httptest.NewRecorder()
	protected(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
