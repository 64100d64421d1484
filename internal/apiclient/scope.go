package apiclient

import "github.com/zephapay/onboarding-gateway/internal/tokenstore"

// Scope describes one credential scope: where its tokens live, which backend
// endpoints manage its session and where the browser goes when the session ends.
type Scope struct {
	Name            string
	Keys            tokenstore.Keys
	LoginPath       string
	RefreshPath     string
	LogoutPath      string
	LogoutAllPath   string
	LoginLocation   string
	ExpiredLocation string
}

var CustomerScope = Scope{
	Name:            "customer",
	Keys:            tokenstore.CustomerKeys,
	LoginPath:       "/identities/auth",
	RefreshPath:     "/identities/refresh-token",
	LogoutPath:      "/identities/logout",
	LoginLocation:   "/?login=true",
	ExpiredLocation: "/?login=true&expired=true",
}

var AdminScope = Scope{
	Name:            "admin",
	Keys:            tokenstore.AdminKeys,
	LoginPath:       "/backoffice/auth/login",
	RefreshPath:     "/backoffice/auth/refresh",
	LogoutPath:      "/backoffice/auth/logout",
	LogoutAllPath:   "/backoffice/auth/logout-all",
	LoginLocation:   "/admin",
	ExpiredLocation: "/admin",
}
