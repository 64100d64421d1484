package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/models"
)

// DashboardService backs the signed-in customer dashboard.
type DashboardService struct {
	client LimitedAPIClient
}

func (s *DashboardService) CurrentUser(ctx context.Context) (models.CurrentUser, error) {
	var output models.CurrentUser
	err := s.client.Get(ctx, "/identities/current-user", nil, &output)
	return output, err
}

func (s *DashboardService) CustomerProfile(ctx context.Context) (models.Profile, error) {
	output := models.Profile{}
	err := s.client.Get(ctx, "/customers/profile", nil, &output)
	return output, err
}

func (s *DashboardService) BusinessInformation(ctx context.Context) (models.BusinessInformation, error) {
	var output models.BusinessInformation
	err := s.client.Get(ctx, "/business-information", nil, &output)
	return output, err
}

func (s *DashboardService) UpdateBusinessInformation(ctx context.Context, update models.BusinessUpdate) error {
	return s.client.Put(ctx, "/business-information", update, nil)
}

func (s *DashboardService) UpdateProfile(ctx context.Context, customerID string, profile models.Profile) error {
	return s.client.Put(ctx, pathOf("customers", customerID), profile, nil)
}

// LockProfile marks the profile as finalized.
func (s *DashboardService) LockProfile(ctx context.Context, customerID string, profile models.Profile) error {
	return s.UpdateProfile(ctx, customerID, profile.WithLock(true))
}

// UnlockProfile checks the password against the login endpoint before it
// clears the finalized flag. The stored tokens are left alone.
func (s *DashboardService) UnlockProfile(ctx context.Context, customerID string, credentials models.LoginRequest, profile models.Profile) error {
	ok, err := s.client.VerifyCredentials(ctx, credentials)
	if err != nil {
		return err
	}
	if !ok {
		return &gwerrors.APIError{StatusCode: http.StatusForbidden, Message: "the password is not correct"}
	}
	return s.UpdateProfile(ctx, customerID, profile.WithLock(false))
}

func (s *DashboardService) Logout(ctx context.Context) error {
	return s.client.Logout(ctx)
}

func (s *DashboardService) ApiKeys(ctx context.Context) ([]models.ApiKey, error) {
	return list[models.ApiKey](ctx, s.client, "/ApiKeys", nil)
}

func (s *DashboardService) CreateApiKey(ctx context.Context, key models.CreateApiKeyRequest) (models.ApiKey, error) {
	var output models.ApiKey
	err := s.client.Post(ctx, "/ApiKeys", key, &output)
	return output, err
}

func (s *DashboardService) DeleteApiKey(ctx context.Context, keyID string) error {
	return s.client.Delete(ctx, pathOf("ApiKeys", keyID), nil, nil)
}

func (s *DashboardService) BlockApiKey(ctx context.Context, keyID string) error {
	return s.client.Patch(ctx, pathOf("ApiKeys", keyID, "block"), nil, nil)
}

func (s *DashboardService) UnblockApiKey(ctx context.Context, keyID string) error {
	return s.client.Patch(ctx, pathOf("ApiKeys", keyID, "unblock"), nil, nil)
}

func (s *DashboardService) RotateApiKey(ctx context.Context, keyID string) (models.ApiKey, error) {
	var output models.ApiKey
	err := s.client.Post(ctx, "/ApiKeys/rotate", models.RotateApiKeyRequest{ApiKeyID: keyID}, &output)
	return output, err
}

func (s *DashboardService) SenderRequests(ctx context.Context) ([]models.SenderIDRequest, error) {
	return list[models.SenderIDRequest](ctx, s.client, "/sender-requests", nil)
}

func (s *DashboardService) SenderRequest(ctx context.Context, id string) (models.SenderIDRequest, error) {
	var output models.SenderIDRequest
	err := s.client.Get(ctx, pathOf("sender-requests", id), nil, &output)
	return output, err
}

func (s *DashboardService) CustomerSenderRequests(ctx context.Context, customerID string) ([]models.SenderIDRequest, error) {
	return list[models.SenderIDRequest](ctx, s.client, pathOf("sender-requests", "customer", customerID), nil)
}

func (s *DashboardService) CreateSenderRequest(ctx context.Context, request models.SenderIDRequest) (models.SenderIDRequest, error) {
	var output models.SenderIDRequest
	err := s.client.Post(ctx, "/sender-requests", request, &output)
	return output, err
}

func (s *DashboardService) UpdateSenderRequest(ctx context.Context, id string, request models.SenderIDRequest) error {
	return s.client.Put(ctx, pathOf("sender-requests", id), request, nil)
}

func (s *DashboardService) DeleteSenderRequest(ctx context.Context, id string) error {
	return s.client.Delete(ctx, pathOf("sender-requests", id), nil, nil)
}

func (s *DashboardService) Campaigns(ctx context.Context) ([]models.Campaign, error) {
	return list[models.Campaign](ctx, s.client, "/campaigns", nil)
}

func (s *DashboardService) PauseCampaign(ctx context.Context, campaignID string) error {
	return s.client.Patch(ctx, pathOf("campaigns", campaignID, "pause"), nil, nil)
}

func (s *DashboardService) ResumeCampaign(ctx context.Context, campaignID string) error {
	return s.client.Patch(ctx, pathOf("campaigns", campaignID, "resume"), nil, nil)
}

func (s *DashboardService) DeleteCampaign(ctx context.Context, campaignID string) error {
	return s.client.Delete(ctx, pathOf("campaigns", campaignID), nil, nil)
}

func NewDashboardService(client LimitedAPIClient) (*DashboardService, error) {
	if client == nil {
		return nil, fmt.Errorf("api client not initialized")
	}
	return &DashboardService{client: client}, nil
}
