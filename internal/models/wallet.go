package models

type WalletStatus int

const (
	WalletInactive  WalletStatus = 0
	WalletActive    WalletStatus = 1
	WalletSuspended WalletStatus = 2
)

func (s WalletStatus) String() string {
	switch s {
	case WalletInactive:
		return "Inactive"
	case WalletActive:
		return "Active"
	case WalletSuspended:
		return "Suspended"
	default:
		return "Unknown"
	}
}

type TransactionType int

const (
	TransactionCredit TransactionType = 0
	TransactionDebit  TransactionType = 1
)

func (t TransactionType) String() string {
	switch t {
	case TransactionCredit:
		return "Credit"
	case TransactionDebit:
		return "Debit"
	default:
		return "Unknown"
	}
}

type Wallet struct {
	ID                   string       `json:"id"`
	CustomerID           string       `json:"customerId"`
	Balance              float64      `json:"balance"`
	Currency             string       `json:"currency"`
	Status               WalletStatus `json:"status"`
	ActivatedAt          *string      `json:"activatedAt"`
	VirtualAccountNumber string       `json:"virtualAccountNumber"`
	BankName             string       `json:"bankName"`
	AccountName          string       `json:"accountName"`
	CreatedAt            string       `json:"createdAt"`
}

type WalletTransaction struct {
	ID           string          `json:"id"`
	Amount       float64         `json:"amount"`
	Type         TransactionType `json:"type"`
	Description  string          `json:"description"`
	Reference    *string         `json:"reference"`
	BalanceAfter float64         `json:"balanceAfter"`
	CreatedAt    string          `json:"createdAt"`
	Status       string          `json:"status,omitempty"`
}

type CreateWalletRequest struct {
	Currency string `json:"currency"`
}
