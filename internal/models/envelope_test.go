package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelopeWrapped(t *testing.T) {
	body := []byte(`{"data":{"accessToken":"a","refreshToken":"r","sessionId":"s"},"message":"ok","success":true,"statusCode":200}`)

	env, err := DecodeEnvelope[TokenPair](body)

	require.NoError(t, err)
	expected := Envelope[TokenPair]{
		Data:       TokenPair{AccessToken: "a", RefreshToken: "r", SessionID: "s"},
		Message:    "ok",
		Success:    true,
		StatusCode: 200,
	}
	assert.Empty(t, cmp.Diff(expected, env))
}

func TestDecodeEnvelopeFlat(t *testing.T) {
	body := []byte(`{"accessToken":"a","refreshToken":"r"}`)

	env, err := DecodeEnvelope[TokenPair](body)

	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, TokenPair{AccessToken: "a", RefreshToken: "r"}, env.Data)
}

func TestDecodeEnvelopeResourceWithDataField(t *testing.T) {
	// a resource that happens to have a data field but none of the envelope markers
	type blob struct {
		Data string `json:"data"`
		Name string `json:"name"`
	}
	env, err := DecodeEnvelope[blob]([]byte(`{"data":"x","name":"y"}`))

	require.NoError(t, err)
	assert.Equal(t, blob{Data: "x", Name: "y"}, env.Data)
}

func TestDecodeEnvelopeFailure(t *testing.T) {
	env, err := DecodeEnvelope[TokenPair]([]byte(`{"data":null,"success":false,"message":"invalid refresh token"}`))

	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid refresh token", env.Message)
	assert.False(t, env.Data.Valid())
}

func TestDecodeEnvelopeEmptyAndInvalid(t *testing.T) {
	env, err := DecodeEnvelope[TokenPair](nil)
	require.NoError(t, err)
	assert.True(t, env.Success)

	_, err = DecodeEnvelope[TokenPair]([]byte(`{"accessToken":`))
	assert.Error(t, err)

	_, err = DecodeEnvelope[TokenPair]([]byte(`{"data":[1,2],"success":true}`))
	assert.Error(t, err)
}

func TestDecodeEnvelopeBareArray(t *testing.T) {
	env, err := DecodeEnvelope[[]Country]([]byte(`[{"id":"1","name":"Ghana"},{"id":"2","name":"Kenya"}]`))

	require.NoError(t, err)
	assert.Equal(t, []Country{{ID: "1", Name: "Ghana"}, {ID: "2", Name: "Kenya"}}, env.Data)
}

func TestPageNestedData(t *testing.T) {
	body := []byte(`{
		"data": {
			"data": [{"id":"1","senderId":"ACME","status":1}],
			"pageNumber": 1, "pageSize": 10, "totalCount": 1, "totalPages": 1,
			"hasPrevious": false, "hasNext": false
		},
		"message": "", "success": true, "statusCode": 200
	}`)

	env, err := DecodeEnvelope[Page[SenderIDRequest]](body)

	require.NoError(t, err)
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, "ACME", env.Data.Items[0].SenderID)
	assert.Equal(t, 1, env.Data.TotalCount)
	assert.Equal(t, 10, env.Data.PageSize)
}

func TestPageDoublyNestedData(t *testing.T) {
	body := []byte(`{"data":{"data":{"data":[{"id":"1","name":"Passport"}],"totalCount":1}},"success":true}`)

	env, err := DecodeEnvelope[Page[DocumentType]](body)

	require.NoError(t, err)
	assert.Equal(t, []DocumentType{{ID: "1", Name: "Passport"}}, env.Data.Items)
	assert.Equal(t, 1, env.Data.TotalCount)
}

func TestPageItems(t *testing.T) {
	body := []byte(`{"items":[{"id":"c1","company":"Acme"}],"totalCount":31,"pageNumber":2,"pageSize":10}`)

	env, err := DecodeEnvelope[Page[CustomerSummary]](body)

	require.NoError(t, err)
	expected := Page[CustomerSummary]{
		Items:      []CustomerSummary{{ID: "c1", Company: "Acme"}},
		TotalCount: 31,
		PageNumber: 2,
		PageSize:   10,
	}
	assert.Empty(t, cmp.Diff(expected, env.Data))
}

func TestPageBareArrayAndNull(t *testing.T) {
	var page Page[PendingReview]
	err := page.UnmarshalJSON([]byte(`[{"id":"r1"},{"id":"r2"}]`))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalCount)

	err = page.UnmarshalJSON([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	err = page.UnmarshalJSON([]byte(`{"data":null}`))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestTokenPairAcceptsTokenAlias(t *testing.T) {
	env, err := DecodeEnvelope[TokenPair]([]byte(`{"data":{"token":"admin-access","user":{"id":"u1"}},"success":true}`))

	require.NoError(t, err)
	assert.Equal(t, "admin-access", env.Data.AccessToken)
	assert.True(t, env.Data.Valid())
}
