// Package services exposes the backend endpoints used by the onboarding portal
// as typed methods on top of the authenticated API client of a credential scope.
// The gateway itself only logs in through it, the wallet, KYC and admin services
// are a library surface for callers that need typed access to the backend.
package services

import (
	"context"
	"io"
	"net/url"

	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/models"
)

// LimitedAPIClient is the part of *apiclient.Client the services need.
type LimitedAPIClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in any, out any) error
	Put(ctx context.Context, path string, in any, out any) error
	Patch(ctx context.Context, path string, in any, out any) error
	Delete(ctx context.Context, path string, in any, out any) error
	PostAnonymous(ctx context.Context, path string, in any, out any) error
	Upload(ctx context.Context, path string, fields map[string]string, fileField string, fileName string, r io.Reader, out any) error
	Download(ctx context.Context, path string) (*apiclient.Download, error)
	Login(ctx context.Context, credentials models.LoginRequest) (models.TokenPair, error)
	VerifyCredentials(ctx context.Context, credentials models.LoginRequest) (bool, error)
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) error
}

func pathOf(segments ...string) string {
	output := ""
	for _, segment := range segments {
		output += "/" + url.PathEscape(segment)
	}
	return output
}

// list decodes a listing that may come as a bare array or a page.
func list[T any](ctx context.Context, client LimitedAPIClient, path string, query url.Values) ([]T, error) {
	var output models.Page[T]
	err := client.Get(ctx, path, query, &output)
	if err != nil {
		return nil, err
	}
	if output.Items == nil {
		return []T{}, nil
	}
	return output.Items, nil
}

func page[T any](ctx context.Context, client LimitedAPIClient, path string, query url.Values) (models.Page[T], error) {
	var output models.Page[T]
	err := client.Get(ctx, path, query, &output)
	if err != nil {
		return models.Page[T]{}, err
	}
	if output.Items == nil {
		output.Items = []T{}
	}
	return output, nil
}
