package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"github.com/zephapay/onboarding-gateway/internal/models"
	"github.com/zephapay/onboarding-gateway/internal/tokenstore"
)

type recordedRequest struct {
	Method        string
	Path          string
	Query         string
	Body          string
	Authorization string
}

// fakeBackend answers every request with the response registered for
// "METHOD /path" and records what it received.
type fakeBackend struct {
	lock      sync.Mutex
	responses map[string]string
	statuses  map[string]int
	requests  []recordedRequest
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + strings.TrimPrefix(r.URL.EscapedPath(), "/api/v1")
	f.lock.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          strings.TrimPrefix(r.URL.EscapedPath(), "/api/v1"),
		Query:         r.URL.RawQuery,
		Body:          string(body),
		Authorization: r.Header.Get("Authorization"),
	})
	response, ok := f.responses[key]
	status := f.statuses[key]
	f.lock.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, response)
}

func (f *fakeBackend) last() recordedRequest {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.requests[len(f.requests)-1]
}

func newBackend(t *testing.T, scope apiclient.Scope, responses map[string]string) (*fakeBackend, *apiclient.Client, *tokenstore.TokenStore) {
	backend := &fakeBackend{responses: responses, statuses: map[string]int{}}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	tokens, err := tokenstore.NewTokenStore(tokenstore.WithKeys(scope.Keys), tokenstore.WithStore(kvstore.NewMemoryStore()))
	require.NoError(t, err)
	client, err := apiclient.NewClient(
		apiclient.WithBaseURL(server.URL+"/api/v1"),
		apiclient.WithScope(scope),
		apiclient.WithTokenStore(tokens),
	)
	require.NoError(t, err)
	return backend, client, tokens
}

func TestCustomerLoginStoresTokens(t *testing.T) {
	ctx := context.Background()
	backend, client, tokens := newBackend(t, apiclient.CustomerScope, map[string]string{
		"POST /identities/auth": `{"accessToken":"access","refreshToken":"refresh"}`,
	})
	customers, err := NewCustomerService(client)
	require.NoError(t, err)

	pair, err := customers.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, "access", pair.AccessToken)
	access, err := tokens.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access", access)
	assert.JSONEq(t, `{"email":"ada@example.com","password":"secret"}`, backend.last().Body)
	assert.Empty(t, backend.last().Authorization)
}

func TestCustomerPublicEndpoints(t *testing.T) {
	ctx := context.Background()
	backend, client, _ := newBackend(t, apiclient.CustomerScope, map[string]string{
		"POST /customers":                 `{"data":{"id":"c-1","email":"ada@example.com"},"success":true}`,
		"POST /email-verification/verify": `{"success":true,"message":"verified"}`,
		"POST /email-verification/resend": `{"success":true}`,
	})
	customers, err := NewCustomerService(client)
	require.NoError(t, err)

	user, err := customers.Create(ctx, models.CustomerCreate{Email: "ada@example.com", ReceiveNewsletter: true})
	require.NoError(t, err)
	assert.Equal(t, "c-1", user.ID)
	assert.Contains(t, backend.last().Body, `"recieveNewsletter":true`)

	require.NoError(t, customers.VerifyEmail(ctx, models.VerifyEmailRequest{Token: "abc", Email: "ada@example.com"}))
	require.NoError(t, customers.ResendVerification(ctx, "ada@example.com"))
	assert.JSONEq(t, `{"email":"ada@example.com"}`, backend.last().Body)
}

func TestReferenceDataListShapes(t *testing.T) {
	ctx := context.Background()
	_, client, _ := newBackend(t, apiclient.CustomerScope, map[string]string{
		"GET /countries":         `[{"id":"gh","name":"Ghana"}]`,
		"GET /roles":             `{"data":[{"id":"r1","name":"CTO"}],"success":true}`,
		"GET /sectors":           `{"data":{"data":[{"id":"s1","name":"Fintech"}],"totalCount":1},"success":true}`,
		"GET /referrals":         `{"data":null,"success":true}`,
		"GET /countryphonecodes": `{"items":[{"id":"p1","countryId":"gh","phoneCode":"+233"}]}`,
		"GET /document-types":    `[{"id":"d1","name":"Passport"}]`,
	})
	reference, err := NewReferenceDataService(client)
	require.NoError(t, err)

	countries, err := reference.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Country{{ID: "gh", Name: "Ghana"}}, countries)

	roles, err := reference.Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{{ID: "r1", Name: "CTO"}}, roles)

	sectors, err := reference.Sectors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Sector{{ID: "s1", Name: "Fintech"}}, sectors)

	referrals, err := reference.Referrals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Referral{}, referrals)

	codes, err := reference.CountryPhoneCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+233", codes[0].PhoneCode)

	types, err := reference.DocumentTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)
}

func TestDashboardEndpoints(t *testing.T) {
	ctx := context.Background()
	backend, client, tokens := newBackend(t, apiclient.CustomerScope, map[string]string{
		"GET /identities/current-user": `{"data":{"id":"c-1","firstName":"Ada"},"success":true}`,
		"GET /ApiKeys":                 `{"data":[{"id":"k1","keyName":"dev","keyType":1,"status":2}],"success":true}`,
		"POST /ApiKeys/rotate":         `{"data":{"id":"k1","apiKey":"new-secret"},"success":true}`,
		"PATCH /ApiKeys/k%201/block":   `{"success":true}`,
		"PATCH /campaigns/cmp/pause":   `{"success":true}`,
		"DELETE /sender-requests/s1":   `{"success":true}`,
	})
	require.NoError(t, tokens.SetTokens(ctx, "access", "refresh"))
	dashboard, err := NewDashboardService(client)
	require.NoError(t, err)

	user, err := dashboard.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Bearer access", backend.last().Authorization)

	keys, err := dashboard.ApiKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "Blocked", keys[0].Status.String())
	assert.Equal(t, "Development", keys[0].KeyType.String())

	rotated, err := dashboard.RotateApiKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "new-secret", rotated.ApiKey)
	assert.JSONEq(t, `{"apiKeyId":"k1"}`, backend.last().Body)

	require.NoError(t, dashboard.BlockApiKey(ctx, "k 1"))
	assert.Equal(t, "/ApiKeys/k%201/block", backend.last().Path)

	require.NoError(t, dashboard.PauseCampaign(ctx, "cmp"))
	assert.Equal(t, http.MethodPatch, backend.last().Method)

	require.NoError(t, dashboard.DeleteSenderRequest(ctx, "s1"))
	assert.Equal(t, http.MethodDelete, backend.last().Method)
}

func TestProfileLock(t *testing.T) {
	ctx := context.Background()
	backend, client, tokens := newBackend(t, apiclient.CustomerScope, map[string]string{
		"PUT /customers/c-1":    `{"success":true}`,
		"POST /identities/auth": `{"accessToken":"other","refreshToken":"other-refresh"}`,
	})
	require.NoError(t, tokens.SetTokens(ctx, "access", "refresh"))
	dashboard, err := NewDashboardService(client)
	require.NoError(t, err)
	profile := models.Profile{"firstName": "Ada", "company": "Zepha"}

	require.NoError(t, dashboard.LockProfile(ctx, "c-1", profile))
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(backend.last().Body), &sent))
	assert.Equal(t, true, sent["isFinalizedLock"])
	assert.Equal(t, "Zepha", sent["company"])
	_, untouched := profile["isFinalizedLock"]
	assert.False(t, untouched)

	credentials := models.LoginRequest{Email: "ada@example.com", Password: "secret"}
	require.NoError(t, dashboard.UnlockProfile(ctx, "c-1", credentials, profile))
	require.NoError(t, json.Unmarshal([]byte(backend.last().Body), &sent))
	assert.Equal(t, false, sent["isFinalizedLock"])
	access, err := tokens.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access", access)
}

func TestProfileUnlockWithWrongPassword(t *testing.T) {
	ctx := context.Background()
	backend, client, tokens := newBackend(t, apiclient.CustomerScope, map[string]string{
		"POST /identities/auth": `{"message":"invalid credentials","success":false}`,
	})
	backend.statuses["POST /identities/auth"] = http.StatusBadRequest
	require.NoError(t, tokens.SetTokens(ctx, "access", "refresh"))
	dashboard, err := NewDashboardService(client)
	require.NoError(t, err)

	err = dashboard.UnlockProfile(ctx, "c-1", models.LoginRequest{Email: "ada@example.com", Password: "wrong"}, models.Profile{})

	var apiErr *gwerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "/identities/auth", backend.last().Path)
}

func TestWalletTransactions(t *testing.T) {
	ctx := context.Background()
	backend, client, tokens := newBackend(t, apiclient.CustomerScope, map[string]string{
		"GET /wallets/transactions": `{"data":{"data":[{"id":"t1","amount":20.5,"type":1}],"totalCount":11,"totalPages":2,"hasNext":true},"success":true}`,
		"POST /wallets":             `{"data":{"id":"w1","currency":"GHS","status":0},"success":true}`,
	})
	require.NoError(t, tokens.SetTokens(ctx, "access", "refresh"))
	wallets, err := NewWalletService(client)
	require.NoError(t, err)

	history, err := wallets.Transactions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "pageNumber=1&pageSize=10", backend.last().Query)
	expected := models.Page[models.WalletTransaction]{
		Items:      []models.WalletTransaction{{ID: "t1", Amount: 20.5, Type: models.TransactionDebit}},
		TotalCount: 11,
		TotalPages: 2,
		HasNext:    true,
	}
	if diff := cmp.Diff(expected, history); diff != "" {
		t.Errorf("unexpected page (-want +got):\n%s", diff)
	}

	wallet, err := wallets.CreateWallet(ctx, "GHS")
	require.NoError(t, err)
	assert.Equal(t, "Inactive", wallet.Status.String())
	assert.JSONEq(t, `{"currency":"GHS"}`, backend.last().Body)
}

func TestKycUpload(t *testing.T) {
	ctx := context.Background()
	var fields map[string][]string
	var fileName, content string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = r.MultipartForm.Value
		file, header, err := r.FormFile("File")
		require.NoError(t, err)
		defer file.Close()
		raw, _ := io.ReadAll(file)
		fileName, content = header.Filename, string(raw)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"id":"doc-1","fileName":"passport.pdf","status":"Pending"},"success":true}`)
	}))
	defer server.Close()
	tokens, err := tokenstore.NewTokenStore(tokenstore.WithKeys(tokenstore.CustomerKeys), tokenstore.WithStore(kvstore.NewMemoryStore()))
	require.NoError(t, err)
	client, err := apiclient.NewClient(apiclient.WithBaseURL(server.URL), apiclient.WithTokenStore(tokens))
	require.NoError(t, err)
	kyc, err := NewKycService(client)
	require.NoError(t, err)

	document, err := kyc.UploadDocument(ctx, "dt-1", "passport.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "doc-1", document.ID)
	assert.Equal(t, []string{"dt-1"}, fields["DocumentTypeId"])
	assert.Equal(t, "passport.pdf", fileName)
	assert.Equal(t, "%PDF", content)
}

func TestKycDownload(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kyc-documents/doc-1/download", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="passport.pdf"`)
		fmt.Fprint(w, "%PDF-1.7")
	}))
	defer server.Close()
	tokens, err := tokenstore.NewTokenStore(tokenstore.WithKeys(tokenstore.CustomerKeys), tokenstore.WithStore(kvstore.NewMemoryStore()))
	require.NoError(t, err)
	client, err := apiclient.NewClient(apiclient.WithBaseURL(server.URL), apiclient.WithTokenStore(tokens))
	require.NoError(t, err)
	kyc, err := NewKycService(client)
	require.NoError(t, err)

	download, err := kyc.DownloadDocument(ctx, "doc-1")
	require.NoError(t, err)
	defer download.Body.Close()
	raw, err := io.ReadAll(download.Body)
	require.NoError(t, err)

	assert.Equal(t, "%PDF-1.7", string(raw))
	assert.Equal(t, "passport.pdf", download.Filename)
	assert.Equal(t, "application/pdf", download.ContentType)
}

func TestAdminEndpoints(t *testing.T) {
	ctx := context.Background()
	backend, client, tokens := newBackend(t, apiclient.AdminScope, map[string]string{
		"POST /backoffice/auth/login":                  `{"data":{"token":"admin-access","refreshToken":"admin-refresh"},"success":true}`,
		"GET /backoffice/customer-summaries":           `{"data":{"items":[{"id":"c-1","company":"Zepha"}],"totalCount":1,"pageNumber":2,"pageSize":5},"success":true}`,
		"PUT /backoffice/reviews/r-1/assign/u-9":       `{"success":true}`,
		"PATCH /backoffice/sender-requests/s-1/status": `{"success":true}`,
		"GET /metrics/dashboard":                       `{"data":{"totalCustomers":40,"pendingReviews":3},"success":true}`,
		"POST /backoffice/auth/logout-all":             `{"success":true}`,
	})
	admin, err := NewAdminService(client)
	require.NoError(t, err)

	_, err = admin.Login(ctx, models.LoginRequest{Email: "root@example.com", Password: "secret"})
	require.NoError(t, err)
	access, err := tokens.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin-access", access)

	descending := true
	summaries, err := admin.CustomerSummaries(ctx, models.ListQuery{PageNumber: 2, PageSize: 5, SearchTerm: "zep", SortDescending: &descending})
	require.NoError(t, err)
	assert.Equal(t, "Bearer admin-access", backend.last().Authorization)
	assert.Equal(t, "pageNumber=2&pageSize=5&searchTerm=zep&sortDescending=true", backend.last().Query)
	assert.Equal(t, 2, summaries.PageNumber)
	require.Len(t, summaries.Items, 1)
	assert.Equal(t, "Zepha", summaries.Items[0].Company)

	require.NoError(t, admin.AssignReview(ctx, "r-1", "u-9"))
	assert.Equal(t, http.MethodPut, backend.last().Method)

	require.NoError(t, admin.UpdateSenderRequestStatus(ctx, "s-1", 2))
	assert.JSONEq(t, `{"status":2}`, backend.last().Body)

	metrics, err := admin.DashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, metrics.TotalCustomers)

	require.NoError(t, admin.LogoutAll(ctx))
	_, err = tokens.GetAccessToken(ctx)
	assert.ErrorIs(t, err, gwerrors.ErrTokenNotFound)
}

func TestNewServicesRequireClient(t *testing.T) {
	_, err := NewCustomerService(nil)
	assert.Error(t, err)
	_, err = NewReferenceDataService(nil)
	assert.Error(t, err)
	_, err = NewDashboardService(nil)
	assert.Error(t, err)
	_, err = NewWalletService(nil)
	assert.Error(t, err)
	_, err = NewKycService(nil)
	assert.Error(t, err)
	_, err = NewAdminService(nil)
	assert.Error(t, err)
}
