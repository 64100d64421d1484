package services

import (
	"context"
	"fmt"

	"github.com/zephapay/onboarding-gateway/internal/models"
)

// CustomerService covers signup and the public authentication endpoints.
type CustomerService struct {
	client LimitedAPIClient
}

func (s *CustomerService) Create(ctx context.Context, customer models.CustomerCreate) (models.CurrentUser, error) {
	var output models.CurrentUser
	err := s.client.PostAnonymous(ctx, "/customers", customer, &output)
	return output, err
}

// Login exchanges the credentials for a token pair and stores it in the customer scope.
func (s *CustomerService) Login(ctx context.Context, credentials models.LoginRequest) (models.TokenPair, error) {
	return s.client.Login(ctx, credentials)
}

func (s *CustomerService) VerifyEmail(ctx context.Context, verification models.VerifyEmailRequest) error {
	return s.client.PostAnonymous(ctx, "/email-verification/verify", verification, nil)
}

func (s *CustomerService) ResendVerification(ctx context.Context, email string) error {
	return s.client.PostAnonymous(ctx, "/email-verification/resend", models.ResendVerificationRequest{Email: email}, nil)
}

func NewCustomerService(client LimitedAPIClient) (*CustomerService, error) {
	if client == nil {
		return nil, fmt.Errorf("api client not initialized")
	}
	return &CustomerService{client: client}, nil
}

// ReferenceDataService reads the lookup tables used by the signup form.
type ReferenceDataService struct {
	client LimitedAPIClient
}

func (s *ReferenceDataService) Countries(ctx context.Context) ([]models.Country, error) {
	return list[models.Country](ctx, s.client, "/countries", nil)
}

func (s *ReferenceDataService) CountryPhoneCodes(ctx context.Context) ([]models.CountryPhoneCode, error) {
	return list[models.CountryPhoneCode](ctx, s.client, "/countryphonecodes", nil)
}

func (s *ReferenceDataService) Roles(ctx context.Context) ([]models.Role, error) {
	return list[models.Role](ctx, s.client, "/roles", nil)
}

func (s *ReferenceDataService) Sectors(ctx context.Context) ([]models.Sector, error) {
	return list[models.Sector](ctx, s.client, "/sectors", nil)
}

func (s *ReferenceDataService) Referrals(ctx context.Context) ([]models.Referral, error) {
	return list[models.Referral](ctx, s.client, "/referrals", nil)
}

func (s *ReferenceDataService) DocumentTypes(ctx context.Context) ([]models.DocumentType, error) {
	return list[models.DocumentType](ctx, s.client, "/document-types", nil)
}

func NewReferenceDataService(client LimitedAPIClient) (*ReferenceDataService, error) {
	if client == nil {
		return nil, fmt.Errorf("api client not initialized")
	}
	return &ReferenceDataService{client: client}, nil
}
