package models

import (
	"net/url"
	"strconv"
)

type BackofficeRole int

const (
	BackofficeAdmin    BackofficeRole = 1
	BackofficeManager  BackofficeRole = 2
	BackofficeReviewer BackofficeRole = 3
	BackofficeAnalyst  BackofficeRole = 4
	BackofficeSupport  BackofficeRole = 5
)

func (r BackofficeRole) String() string {
	switch r {
	case BackofficeAdmin:
		return "Admin"
	case BackofficeManager:
		return "Manager"
	case BackofficeReviewer:
		return "Reviewer"
	case BackofficeAnalyst:
		return "Analyst"
	case BackofficeSupport:
		return "Support"
	default:
		return "Unknown"
	}
}

type BackofficeUser struct {
	ID        string         `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Role      BackofficeRole `json:"role"`
}

type CustomerSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type DashboardMetrics struct {
	TotalCustomers    int `json:"totalCustomers"`
	PendingReviews    int `json:"pendingReviews"`
	ApprovedCustomers int `json:"approvedCustomers"`
	RejectedCustomers int `json:"rejectedCustomers"`
}

type PendingReview struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	Priority     int    `json:"priority"`
	CreatedAt    string `json:"createdAt"`
}

type AdminSession struct {
	ID        string `json:"id"`
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// ListQuery holds the optional paging and search parameters of the back-office
// listings. Zero values are left out of the query string.
type ListQuery struct {
	PageNumber     int
	PageSize       int
	SearchTerm     string
	SortBy         string
	SortDescending *bool
}

func (q ListQuery) Values() url.Values {
	values := url.Values{}
	if q.PageNumber > 0 {
		values.Set("pageNumber", strconv.Itoa(q.PageNumber))
	}
	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.SearchTerm != "" {
		values.Set("searchTerm", q.SearchTerm)
	}
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	if q.SortDescending != nil {
		values.Set("sortDescending", strconv.FormatBool(*q.SortDescending))
	}
	return values
}
