package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tryteddy/teddyadmin/auth"
	"github.com/tryteddy/teddyadmin/model"
)

func decodeJSONBody(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *auth.Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	creds := auth.NewStore(t.TempDir())
	return NewClient(srv.URL, creds, nil), creds, srv
}

func TestNoCredentialShortCircuits(t *testing.T) {
	var hits atomic.Int32
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	_, err := client.ListCompanies(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, NoCredential, apiErr.Kind)
	assert.Equal(t, int32(0), hits.Load(), "no network call should be issued")
}

func TestPasswordAttachedToEveryRequest(t *testing.T) {
	var seen string
	client, creds, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query().Get("password")
		w.Write([]byte(`[]`))
	}))
	require.NoError(t, creds.Set("abc123"))

	_, err := client.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", seen)
}

func TestListCompaniesDecodes(t *testing.T) {
	client, creds, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/companies/", r.URL.Path)
		w.Write([]byte(`[{"id":"1","name":"Acme","email":"a@acme.com","sms_remining":5}]`))
	}))
	require.NoError(t, creds.Set("abc123"))

	companies, err := client.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, 5, companies[0].SMSRemaining)
}

func TestAuthFailureClearsCredential(t *testing.T) {
	client, creds, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	require.NoError(t, creds.Set("wrong"))

	_, err := client.ListCalls(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, AuthFailed, apiErr.Kind)
	assert.Equal(t, 401, apiErr.Status)

	_, ok := creds.Get()
	assert.False(t, ok, "credential should be cleared after a 401")
}

func TestCallsPagination(t *testing.T) {
	client, creds, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/calls/", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		w.Write([]byte(`[]`))
	}))
	require.NoError(t, creds.Set("abc123"))

	_, err := client.ListCalls(context.Background())
	require.NoError(t, err)
}

func TestUpdateCompanyPostsPasswordInBody(t *testing.T) {
	client, creds, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/companies/1/update/", r.URL.Path)

		var body map[string]any
		require.NoError(t, decodeJSONBody(r, &body))
		assert.Equal(t, "abc123", body["password"])
		assert.Equal(t, "NewName", body["name"])

		w.Write([]byte(`{"id":"1","name":"NewName"}`))
	}))
	require.NoError(t, creds.Set("abc123"))

	updated, err := client.UpdateCompany(context.Background(), "1", model.CompanyPatch{Name: "NewName"})
	require.NoError(t, err)
	assert.Equal(t, "NewName", updated.Name)
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantTyp string
	}{
		{
			name:    "nested detail message wins",
			status:  400,
			body:    `{"detail":{"message":"bad phone","type":"validation"},"message":"outer"}`,
			want:    "bad phone",
			wantTyp: "validation",
		},
		{
			name:   "top-level message",
			status: 500,
			body:   `{"message":"server exploded"}`,
			want:   "server exploded",
		},
		{
			name:   "unparseable body falls back",
			status: 502,
			body:   `<html>bad gateway</html>`,
			want:   "request failed with status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, creds, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			require.NoError(t, creds.Set("abc123"))

			_, err := client.ListTexts(context.Background())
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, RequestFailed, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.wantTyp, apiErr.Type)
		})
	}
}

func TestFieldErrorsSurfaced(t *testing.T) {
	client, creds, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":{"message":"invalid form","errors":[{"field":"email","message":"not an email"}]}}`))
	}))
	require.NoError(t, creds.Set("abc123"))

	_, err := client.UpdateCompany(context.Background(), "1", model.CompanyPatch{Email: "nope"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "email", apiErr.Fields[0].Field)
	assert.Equal(t, "not an email", apiErr.Fields[0].Message)
}

func TestDecodeFailure(t *testing.T) {
	client, creds, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	require.NoError(t, creds.Set("abc123"))

	_, err := client.ListCompanies(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, DecodeFailed, apiErr.Kind)
}

func TestTransportErrorIsRequestFailed(t *testing.T) {
	creds := auth.NewStore(t.TempDir())
	require.NoError(t, creds.Set("abc123"))
	client := NewClient("http://127.0.0.1:1", creds, nil) // nothing listening

	_, err := client.Dashboard(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, RequestFailed, apiErr.Kind)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestErrorsAsWorksThroughWrapping(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), &Error{Kind: AuthFailed, Status: 401, Message: "nope"})
	var apiErr *Error
	require.ErrorAs(t, wrapped, &apiErr)
	assert.Equal(t, AuthFailed, apiErr.Kind)
}
