package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iurnickita/wbsales/internal/store"
	"github.com/iurnickita/wbsales/internal/token"
	"github.com/iurnickita/wbsales/internal/token/config"
)

type Auth interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Middleware(h http.HandlerFunc) http.HandlerFunc
}

// Store - учетные записи пользователей.
type Store interface {
	AuthRegister(ctx context.Context, login string, passwordHash string) (string, error)
	AuthGetUser(ctx context.Context, login string) (userCode string, passwordHash string, err error)
}

const (
	HeaderUserCodeKey = "userCode"
	CookieUserToken   = "wbsalesUserToken"
)

var ErrNoToken = errors.New("no token")

type auth struct {
	cfg    config.Config
	store  Store
	zaplog *zap.Logger
}

func NewAuth(cfg config.Config, store Store, zaplog *zap.Logger) Auth {
	return &auth{cfg: cfg, store: store, zaplog: zaplog}
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func readCredentials(r *http.Request) (credentials, bool) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return creds, false
	}
	creds.Login = strings.TrimSpace(creds.Login)
	return creds, creds.Login != "" && creds.Password != ""
}

func (a *auth) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(r)
	if !ok {
		http.Error(w, "login and password are required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userCode, err := a.store.AuthRegister(r.Context(), creds.Login, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			http.Error(w, "login is already taken", http.StatusConflict)
			return
		}
		a.zaplog.Error("register", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	a.authorize(w, userCode)
}

func (a *auth) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(r)
	if !ok {
		http.Error(w, "login and password are required", http.StatusBadRequest)
		return
	}

	userCode, hash, err := a.store.AuthGetUser(r.Context(), creds.Login)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			http.Error(w, "invalid login or password", http.StatusUnauthorized)
			return
		}
		a.zaplog.Error("login", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		http.Error(w, "invalid login or password", http.StatusUnauthorized)
		return
	}

	a.authorize(w, userCode)
}

// authorize выдает токен в куке и в заголовке Authorization
func (a *auth) authorize(w http.ResponseWriter, userCode string) {
	tokenString, err := token.BuildJWTString(a.cfg, userCode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieUserToken,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
	})
	w.Header().Set("Authorization", "Bearer "+tokenString)
	w.WriteHeader(http.StatusOK)
}

func (a *auth) Middleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// получение id пользователя
		userCode, err := a.getUserCode(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		// записываем
		r.Header.Set(HeaderUserCodeKey, userCode)

		// передаём управление хендлеру
		h.ServeHTTP(w, r)
	}
}

// getUserCode берет токен из заголовка Authorization, иначе из куки.
func (a *auth) getUserCode(r *http.Request) (string, error) {
	var tokenString string
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		tokenString = strings.TrimSpace(bearer)
	} else if cookie, err := r.Cookie(CookieUserToken); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		return "", ErrNoToken
	}
	return token.GetUserCode(a.cfg, tokenString)
}
