package services

import (
	"context"
	"fmt"
	"io"

	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/models"
)

type KycService struct {
	client LimitedAPIClient
}

func (s *KycService) DocumentTypes(ctx context.Context) ([]models.DocumentType, error) {
	return list[models.DocumentType](ctx, s.client, "/document-types", nil)
}

func (s *KycService) UploadDocument(ctx context.Context, documentTypeID string, fileName string, file io.Reader) (models.KycDocument, error) {
	var output models.KycDocument
	fields := map[string]string{"DocumentTypeId": documentTypeID}
	err := s.client.Upload(ctx, "/kyc-documents/upload", fields, "File", fileName, file, &output)
	return output, err
}

func (s *KycService) CustomerDocuments(ctx context.Context, customerID string) ([]models.KycDocument, error) {
	return list[models.KycDocument](ctx, s.client, pathOf("kyc-documents", "customer", customerID), nil)
}

// DownloadDocument streams the document, the caller has to close the body.
func (s *KycService) DownloadDocument(ctx context.Context, documentID string) (*apiclient.Download, error) {
	return s.client.Download(ctx, pathOf("kyc-documents", documentID, "download"))
}

func (s *KycService) DeleteDocument(ctx context.Context, documentID string) error {
	return s.client.Delete(ctx, pathOf("kyc-documents", documentID), nil, nil)
}

func NewKycService(client LimitedAPIClient) (*KycService, error) {
	if client == nil {
		return nil, fmt.Errorf("api client not initialized")
	}
	return &KycService{client: client}, nil
}
