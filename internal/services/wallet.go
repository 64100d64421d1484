package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/zephapay/onboarding-gateway/internal/models"
)

const defaultTransactionPageSize int = 10

type WalletService struct {
	client LimitedAPIClient
}

func (s *WalletService) CreateWallet(ctx context.Context, currency string) (models.Wallet, error) {
	var output models.Wallet
	err := s.client.Post(ctx, "/wallets", models.CreateWalletRequest{Currency: currency}, &output)
	return output, err
}

func (s *WalletService) Wallet(ctx context.Context) (models.Wallet, error) {
	var output models.Wallet
	err := s.client.Get(ctx, "/wallets", nil, &output)
	return output, err
}

func (s *WalletService) ActivateWallet(ctx context.Context) (models.Wallet, error) {
	var output models.Wallet
	err := s.client.Post(ctx, "/wallets/activate", nil, &output)
	return output, err
}

// Transactions reads one page of the history. Non-positive arguments fall back
// to the first page of ten.
func (s *WalletService) Transactions(ctx context.Context, pageNumber int, pageSize int) (models.Page[models.WalletTransaction], error) {
	if pageNumber <= 0 {
		pageNumber = 1
	}
	if pageSize <= 0 {
		pageSize = defaultTransactionPageSize
	}
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(pageNumber))
	query.Set("pageSize", strconv.Itoa(pageSize))
	return page[models.WalletTransaction](ctx, s.client, "/wallets/transactions", query)
}

func (s *WalletService) ValidatePayment(ctx context.Context) (models.Wallet, error) {
	var output models.Wallet
	err := s.client.Post(ctx, "/wallets/validate-payment", nil, &output)
	return output, err
}

func NewWalletService(client LimitedAPIClient) (*WalletService, error) {
	if client == nil {
		return nil, fmt.Errorf("api client not initialized")
	}
	return &WalletService{client: client}, nil
}
