package models

type ApiKeyType int

const (
	ApiKeyDevelopment ApiKeyType = 1
	ApiKeyProduction  ApiKeyType = 2
)

func (t ApiKeyType) String() string {
	if t == ApiKeyProduction {
		return "Production"
	}
	return "Development"
}

type ApiKeyStatus int

const (
	ApiKeyActive  ApiKeyStatus = 1
	ApiKeyBlocked ApiKeyStatus = 2
	ApiKeyRevoked ApiKeyStatus = 3
)

func (s ApiKeyStatus) String() string {
	switch s {
	case ApiKeyActive:
		return "Active"
	case ApiKeyBlocked:
		return "Blocked"
	default:
		return "Revoked"
	}
}

type ApiKey struct {
	ID        string       `json:"id"`
	KeyName   string       `json:"keyName"`
	KeyType   ApiKeyType   `json:"keyType"`
	Status    ApiKeyStatus `json:"status"`
	ApiKey    string       `json:"apiKey,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
}

type CreateApiKeyRequest struct {
	KeyName string     `json:"keyName"`
	KeyType ApiKeyType `json:"keyType"`
}

type RotateApiKeyRequest struct {
	ApiKeyID string `json:"apiKeyId"`
}

type SenderIDRequest struct {
	ID                string  `json:"id"`
	SenderID          string  `json:"senderId"`
	SenderIDType      int     `json:"senderIdType"`
	UseCase           int     `json:"useCase"`
	SampleMessage     string  `json:"sampleMessage"`
	ApprovalLetterURL string  `json:"approvalLetterUrl"`
	IsActive          bool    `json:"isActive"`
	Status            int     `json:"status"`
	CustomerID        string  `json:"customerId"`
	CreatedAt         string  `json:"createdAt"`
	CreatedBy         *string `json:"createdBy"`
	UpdatedAt         string  `json:"updatedAt,omitempty"`
}

type SenderIDStatusUpdate struct {
	Status int `json:"status"`
}

type Campaign struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	ContactList string `json:"contactList,omitempty"`
	Description string `json:"description,omitempty"`
	Delivered   int    `json:"delivered"`
	Failed      int    `json:"failed"`
	Progress    int    `json:"progress,omitempty"`
	Target      int    `json:"target,omitempty"`
	Type        string `json:"type,omitempty"`
	CreatedAt   string `json:"createdAt"`
}
