package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
	"github.com/zephapay/onboarding-gateway/internal/config"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"github.com/zephapay/onboarding-gateway/internal/utils"
)

// CookieHandler signs and encrypts cookie values, *securecookie.SecureCookie implements it.
type CookieHandler interface {
	Encode(name string, value interface{}) (string, error)
	Decode(name, value string, dst interface{}) error
}

type SessionStore struct {
	backend        kvstore.ExpiringStore
	cookieHandler  CookieHandler
	cookieTemplate func() http.Cookie
	sessionMaker   SessionMaker
	dataKeys       []string
}

// Middleware loads the session of the request, creating one when there is none,
// and persists it once the handler is done.
func (sessions *SessionStore) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, loadErr := sessions.load(c)
			if loadErr != nil {
				if !errors.Is(loadErr, gwerrors.ErrSessionNotFound) && !errors.Is(loadErr, gwerrors.ErrSessionExpired) {
					slog.Info(
						"SESSION MIDDLEWARE",
						"message",
						"could not load session",
						"error",
						loadErr,
						"requestID",
						utils.GetRequestID(c),
					)
				}
				session, loadErr = sessions.Create(c)
				if loadErr != nil {
					return loadErr
				}
			}
			c.Set(SessionCtxKey, session)
			err := next(c)
			saveErr := sessions.Save(c)
			if saveErr != nil && !errors.Is(saveErr, gwerrors.ErrSessionNotFound) && !errors.Is(saveErr, gwerrors.ErrSessionExpired) {
				slog.Info(
					"SESSION MIDDLEWARE",
					"message",
					"could not save session",
					"error",
					saveErr,
					"sessionID",
					session.ID,
					"requestID",
					utils.GetRequestID(c),
				)
			}
			return err
		}
	}
}

// Get returns the session of the request, from the context or else from the cookie.
func (sessions *SessionStore) Get(c echo.Context) (*Session, error) {
	session, err := FromContext(c)
	if err == nil {
		return session, nil
	}
	return sessions.load(c)
}

func (sessions *SessionStore) load(c echo.Context) (*Session, error) {
	sessionID, err := sessions.sessionIDFromCookie(c)
	if err != nil {
		return nil, err
	}
	raw, err := sessions.backend.Get(c.Request().Context(), sessions.recordKey(sessionID))
	if errors.Is(err, gwerrors.ErrMissingDBResource) {
		return nil, gwerrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session Session
	err = json.Unmarshal([]byte(raw), &session)
	if err != nil {
		return nil, fmt.Errorf("cannot decode the stored session: %w", err)
	}
	if session.ID != sessionID {
		return nil, gwerrors.ErrSessionNotFound
	}
	if session.Expired() {
		return nil, gwerrors.ErrSessionExpired
	}
	session.Touch()
	return &session, nil
}

// Create starts a new session and sets its cookie.
func (sessions *SessionStore) Create(c echo.Context) (*Session, error) {
	session, err := sessions.sessionMaker.NewSession()
	if err != nil {
		return nil, err
	}
	cookie, err := sessions.cookie(session)
	if err != nil {
		return nil, err
	}
	c.SetCookie(&cookie)
	c.Set(SessionCtxKey, &session)
	return &session, nil
}

func (sessions *SessionStore) Save(c echo.Context) error {
	session, err := FromContext(c)
	if err != nil {
		return err
	}
	ttl := session.TTL()
	if ttl <= 0 {
		return gwerrors.ErrSessionExpired
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return sessions.backend.SetWithTTL(c.Request().Context(), sessions.recordKey(session.ID), string(raw), ttl)
}

// Delete ends the session of the request: the cookie is cleared and the session
// record is removed together with all the data keys the store knows about.
func (sessions *SessionStore) Delete(c echo.Context) error {
	newCookie := sessions.cookieTemplate()
	newCookie.MaxAge = -1
	c.SetCookie(&newCookie)

	session, err := sessions.Get(c)
	c.Set(SessionCtxKey, nil)
	if err != nil {
		if errors.Is(err, gwerrors.ErrSessionNotFound) || errors.Is(err, gwerrors.ErrSessionExpired) {
			return nil
		}
		return err
	}
	keys := append([]string{sessionRecordKey}, sessions.dataKeys...)
	return sessions.Data(session).Delete(c.Request().Context(), keys...)
}

// Data is the key-value namespace of the session.
func (sessions *SessionStore) Data(session *Session) kvstore.Store {
	return sessionData{backend: sessions.backend, session: *session}
}

func (sessions *SessionStore) recordKey(sessionID string) string {
	return sessionNamespacePrefix + ":" + sessionID + ":" + sessionRecordKey
}

func (sessions *SessionStore) cookie(session Session) (http.Cookie, error) {
	cookie := sessions.cookieTemplate()
	if sessions.cookieHandler == nil {
		cookie.Value = session.ID
		return cookie, nil
	}
	value, err := sessions.cookieHandler.Encode(cookie.Name, session.ID)
	if err != nil {
		return http.Cookie{}, err
	}
	cookie.Value = value
	return cookie, nil
}

func (sessions *SessionStore) sessionIDFromCookie(c echo.Context) (string, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return "", gwerrors.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	if cookie.Value == "" {
		return "", gwerrors.ErrSessionNotFound
	}
	if sessions.cookieHandler == nil {
		return cookie.Value, nil
	}
	var sessionID string
	err = sessions.cookieHandler.Decode(SessionCookieName, cookie.Value, &sessionID)
	if err != nil {
		// a tampered or stale cookie is treated like no cookie
		slog.Debug("SESSION MIDDLEWARE", "message", "cannot decode the session cookie", "error", err, "requestID", utils.GetRequestID(c))
		return "", gwerrors.ErrSessionNotFound
	}
	return sessionID, nil
}

type SessionStoreOption func(*SessionStore) error

func WithBackend(backend kvstore.ExpiringStore) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sessions.backend = backend
		return nil
	}
}

func WithCookieHandler(handler CookieHandler) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sessions.cookieHandler = handler
		return nil
	}
}

func WithCookieTemplate(cookieTemplate func() http.Cookie) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sessions.cookieTemplate = cookieTemplate
		return nil
	}
}

// WithDataKeys lists the keys handlers write into the session namespace, they
// are removed when the session is deleted.
func WithDataKeys(keys ...string) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sessions.dataKeys = append(sessions.dataKeys, keys...)
		return nil
	}
}

func WithConfig(c config.SessionConfig) SessionStoreOption {
	return func(sessions *SessionStore) error {
		sessions.sessionMaker = NewSessionMaker(c.IdleSessionTTLSeconds, c.MaxSessionTTLSeconds)
		if c.UnsafeNoCookieHandler {
			sessions.cookieHandler = nil
			return nil
		}
		sessions.cookieHandler = securecookie.New([]byte(c.CookieHashKey), []byte(c.CookieEncodingKey))
		return nil
	}
}

func NewSessionStore(options ...SessionStoreOption) (*SessionStore, error) {
	sessions := SessionStore{
		cookieTemplate: func() http.Cookie {
			return http.Cookie{
				Name:     SessionCookieName,
				Path:     "/",
				Secure:   true,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode}
		},
	}
	for _, opt := range options {
		err := opt(&sessions)
		if err != nil {
			return &SessionStore{}, err
		}
	}
	if sessions.backend == nil {
		return &SessionStore{}, fmt.Errorf("key-value store is not initialized")
	}
	if sessions.cookieTemplate == nil {
		return &SessionStore{}, fmt.Errorf("cookie template is not initialized")
	}
	if sessions.sessionMaker == nil {
		return &SessionStore{}, fmt.Errorf("session maker is not initialized")
	}
	return &sessions, nil
}
