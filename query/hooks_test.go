package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tryteddy/teddyadmin/api"
	"github.com/tryteddy/teddyadmin/auth"
	"github.com/tryteddy/teddyadmin/model"
)

// TestUpdateFlowsBackIntoReads drives the full edit path: the company is
// cached, the update succeeds, and the next reads of both the single
// company and the list hit the server again and see the new name.
func TestUpdateFlowsBackIntoReads(t *testing.T) {
	name := "Acme"
	var listHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/admin/companies/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/companies/":
			listHits.Add(1)
			json.NewEncoder(w).Encode([]model.Company{{ID: "1", Name: name}})
		case "/admin/companies/1/":
			json.NewEncoder(w).Encode(model.Company{ID: "1", Name: name})
		case "/admin/companies/1/update/":
			var body struct {
				Name string `json:"name"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			name = body.Name
			json.NewEncoder(w).Encode(model.Company{ID: "1", Name: name})
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := auth.NewStore(t.TempDir())
	require.NoError(t, creds.Set("abc123"))
	hooks := NewHooks(api.NewClient(srv.URL, creds, nil), time.Minute)

	ctx := context.Background()
	companies, err := hooks.Companies.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", companies[0].Name)

	company, err := hooks.Company("1").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)

	updated, err := hooks.UpdateCompany("1").Run(ctx, model.CompanyPatch{Name: "NewName"})
	require.NoError(t, err)
	assert.Equal(t, "NewName", updated.Name)

	company, err = hooks.Company("1").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NewName", company.Name, "single-company entry should have been invalidated")

	companies, err = hooks.Companies.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NewName", companies[0].Name)
	assert.Equal(t, int32(2), listHits.Load(), "list should refetch exactly once after the update")
}

func TestListErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"db down"}`))
	}))
	defer srv.Close()

	creds := auth.NewStore(t.TempDir())
	require.NoError(t, creds.Set("abc123"))
	hooks := NewHooks(api.NewClient(srv.URL, creds, nil), time.Minute)

	_, err := hooks.Texts.Get(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "db down", apiErr.Message)
}
