// Package tokenstore persists the access/refresh token pair of one credential
// scope and answers whether the stored access token is still usable.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"golang.org/x/oauth2"
)

// Keys are the storage keys of one credential scope.
type Keys struct {
	AccessToken  string
	RefreshToken string
	LoggedIn     string
}

func (k Keys) all() []string {
	return []string{k.AccessToken, k.RefreshToken, k.LoggedIn}
}

func (k Keys) validate() error {
	if k.AccessToken == "" || k.RefreshToken == "" || k.LoggedIn == "" {
		return fmt.Errorf("all token store keys have to be set")
	}
	if k.AccessToken == k.RefreshToken || k.AccessToken == k.LoggedIn || k.RefreshToken == k.LoggedIn {
		return fmt.Errorf("the token store keys have to be distinct")
	}
	return nil
}

var CustomerKeys = Keys{AccessToken: "accessToken", RefreshToken: "refreshToken", LoggedIn: "isLoggedIn"}
var AdminKeys = Keys{AccessToken: "adminAccessToken", RefreshToken: "adminRefreshToken", LoggedIn: "isAdminLoggedIn"}

const loggedInValue string = "true"

// nowFunc is replaced in tests.
var nowFunc = time.Now

type TokenStore struct {
	keys  Keys
	store kvstore.Store
}

// SetTokens stores both tokens and the logged in marker.
func (ts *TokenStore) SetTokens(ctx context.Context, accessToken, refreshToken string) error {
	err := ts.store.Set(ctx, ts.keys.AccessToken, accessToken)
	if err != nil {
		return err
	}
	err = ts.store.Set(ctx, ts.keys.RefreshToken, refreshToken)
	if err != nil {
		return err
	}
	return ts.store.Set(ctx, ts.keys.LoggedIn, loggedInValue)
}

func (ts *TokenStore) get(ctx context.Context, key string) (string, error) {
	val, err := ts.store.Get(ctx, key)
	if errors.Is(err, gwerrors.ErrMissingDBResource) || (err == nil && val == "") {
		return "", gwerrors.ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (ts *TokenStore) GetAccessToken(ctx context.Context) (string, error) {
	return ts.get(ctx, ts.keys.AccessToken)
}

func (ts *TokenStore) GetRefreshToken(ctx context.Context) (string, error) {
	return ts.get(ctx, ts.keys.RefreshToken)
}

// ClearTokens removes the tokens and the logged in marker. Clearing an empty store is fine.
func (ts *TokenStore) ClearTokens(ctx context.Context) error {
	return ts.store.Delete(ctx, ts.keys.all()...)
}

// IsAuthenticated reports whether a usable access token is stored. A stale
// token is removed together with the rest of the scope.
func (ts *TokenStore) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := ts.GetAccessToken(ctx)
	if errors.Is(err, gwerrors.ErrTokenNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !IsTokenExpired(token) {
		return true, nil
	}
	slog.Debug("TOKEN STORE", "message", "stored access token is expired, clearing the scope", "key", ts.keys.AccessToken)
	return false, ts.ClearTokens(ctx)
}

// Token returns the stored pair, with the expiry read from the access token.
func (ts *TokenStore) Token(ctx context.Context) (*oauth2.Token, error) {
	accessToken, err := ts.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	refreshToken, err := ts.GetRefreshToken(ctx)
	if err != nil && !errors.Is(err, gwerrors.ErrTokenNotFound) {
		return nil, err
	}
	token := &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "Bearer"}
	if expiry, ok := tokenExpiry(accessToken); ok {
		token.Expiry = expiry
	}
	return token, nil
}

func parseClaims(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func tokenExpiry(token string) (time.Time, bool) {
	claims, err := parseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsTokenExpired decodes the claims of a JWT without verifying it and compares
// the exp claim against the current time. Anything that cannot be decoded counts
// as expired. A token without exp never expires.
func IsTokenExpired(token string) bool {
	claims, err := parseClaims(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(nowFunc())
}

type TokenStoreOption func(*TokenStore) error

func WithKeys(keys Keys) TokenStoreOption {
	return func(ts *TokenStore) error {
		err := keys.validate()
		if err != nil {
			return err
		}
		ts.keys = keys
		return nil
	}
}

func WithStore(store kvstore.Store) TokenStoreOption {
	return func(ts *TokenStore) error {
		ts.store = store
		return nil
	}
}

func NewTokenStore(options ...TokenStoreOption) (*TokenStore, error) {
	ts := TokenStore{}
	for _, opt := range options {
		err := opt(&ts)
		if err != nil {
			return &TokenStore{}, err
		}
	}
	if ts.store == nil {
		return &TokenStore{}, fmt.Errorf("key-value store not initialized")
	}
	if ts.keys == (Keys{}) {
		return &TokenStore{}, fmt.Errorf("token store keys not initialized")
	}
	return &ts, nil
}
