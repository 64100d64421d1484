package models

type KycStatus int

const (
	KycUnderReview KycStatus = 1
	KycApproved    KycStatus = 2
	KycRejected    KycStatus = 3
	KycSuspended   KycStatus = 4
	KycPending     KycStatus = 11
)

func (s KycStatus) String() string {
	switch s {
	case KycPending:
		return "Pending"
	case KycUnderReview:
		return "Under Review"
	case KycApproved:
		return "Approved"
	case KycRejected:
		return "Rejected"
	case KycSuspended:
		return "Suspended"
	default:
		return "Unknown"
	}
}

type KycDocument struct {
	ID              string `json:"id"`
	FileName        string `json:"fileName"`
	FileURL         string `json:"fileUrl"`
	DocumentTypeID  string `json:"documentTypeId"`
	UploadedAt      string `json:"uploadedAt"`
	Status          string `json:"status"`
	CustomerID      string `json:"customerId"`
	CreatedAt       string `json:"createdAt,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	ReviewNotes     string `json:"reviewNotes,omitempty"`
	ReviewedAt      string `json:"reviewedAt,omitempty"`
}
