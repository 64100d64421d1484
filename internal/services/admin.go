package services

import (
	"context"
	"fmt"

	"github.com/zephapay/onboarding-gateway/internal/models"
)

// AdminService wraps the back-office endpoints. Every call goes through the
// admin scope client so expired admin tokens are refreshed like customer ones.
type AdminService struct {
	client LimitedAPIClient
}

func (s *AdminService) Login(ctx context.Context, credentials models.LoginRequest) (models.TokenPair, error) {
	return s.client.Login(ctx, credentials)
}

func (s *AdminService) Logout(ctx context.Context) error {
	return s.client.Logout(ctx)
}

func (s *AdminService) LogoutAll(ctx context.Context) error {
	return s.client.LogoutAll(ctx)
}

func (s *AdminService) Sessions(ctx context.Context) ([]models.AdminSession, error) {
	return list[models.AdminSession](ctx, s.client, "/backoffice/auth/sessions", nil)
}

func (s *AdminService) SenderRequests(ctx context.Context) ([]models.SenderIDRequest, error) {
	return list[models.SenderIDRequest](ctx, s.client, "/backoffice/sender-requests", nil)
}

func (s *AdminService) UpdateSenderRequestStatus(ctx context.Context, requestID string, status int) error {
	return s.client.Patch(ctx, pathOf("backoffice", "sender-requests", requestID, "status"), models.SenderIDStatusUpdate{Status: status}, nil)
}

func (s *AdminService) DashboardMetrics(ctx context.Context) (models.DashboardMetrics, error) {
	var output models.DashboardMetrics
	err := s.client.Get(ctx, "/metrics/dashboard", nil, &output)
	return output, err
}

func (s *AdminService) CustomerSummaries(ctx context.Context, query models.ListQuery) (models.Page[models.CustomerSummary], error) {
	return page[models.CustomerSummary](ctx, s.client, "/backoffice/customer-summaries", query.Values())
}

func (s *AdminService) PendingReviews(ctx context.Context) ([]models.PendingReview, error) {
	return list[models.PendingReview](ctx, s.client, "/backoffice/pending-reviews", nil)
}

func (s *AdminService) AssignReview(ctx context.Context, reviewID string, reviewerID string) error {
	return s.client.Put(ctx, pathOf("backoffice", "reviews", reviewID, "assign", reviewerID), nil, nil)
}

func (s *AdminService) BackofficeUsers(ctx context.Context, query models.ListQuery) (models.Page[models.BackofficeUser], error) {
	return page[models.BackofficeUser](ctx, s.client, "/backoffice/users", query.Values())
}

func NewAdminService(client LimitedAPIClient) (*AdminService, error) {
	if client == nil {
		return nil, fmt.Errorf("api client not initialized")
	}
	return &AdminService{client: client}, nil
}
