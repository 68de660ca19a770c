package query

import (
	"context"
	"time"

	"github.com/tryteddy/teddyadmin/api"
	"github.com/tryteddy/teddyadmin/model"
)

// Cache keys, one per semantic resource. Single-company entries append the
// company id.
const (
	KeyCompanies = "companies"
	KeyCalls     = "calls"
	KeyTexts     = "texts"
	KeyDashboard = "dashboard"
)

// KeyCompany is the cache key for a single company.
func KeyCompany(id string) string { return "company/" + id }

// Hooks bundles the typed resource bindings for every admin resource over
// one shared cache.
type Hooks struct {
	Companies *Resource[[]model.Company]
	Calls     *Resource[[]model.Call]
	Texts     *Resource[[]model.Text]
	Dashboard *Resource[model.Dashboard]

	cache  *Cache
	client *api.Client
}

// NewHooks wires the list and dashboard resources over a fresh cache.
func NewHooks(client *api.Client, staleTime time.Duration) *Hooks {
	cache := NewCache(staleTime)
	return &Hooks{
		Companies: NewResource(cache, KeyCompanies, client.ListCompanies),
		Calls:     NewResource(cache, KeyCalls, client.ListCalls),
		Texts:     NewResource(cache, KeyTexts, client.ListTexts),
		Dashboard: NewResource(cache, KeyDashboard, client.Dashboard),
		cache:     cache,
		client:    client,
	}
}

// Company returns the single-company resource for id.
func (h *Hooks) Company(id string) *Resource[model.Company] {
	return NewResource(h.cache, KeyCompany(id), func(ctx context.Context) (model.Company, error) {
		return h.client.GetCompany(ctx, id)
	})
}

// UpdateCompany returns the mutation for editing company id. On success both
// the single-company entry and the companies list are invalidated, so the
// list view reflects the edit without a full reload.
func (h *Hooks) UpdateCompany(id string) *Mutation[model.CompanyPatch, model.Company] {
	fn := func(ctx context.Context, patch model.CompanyPatch) (model.Company, error) {
		return h.client.UpdateCompany(ctx, id, patch)
	}
	return NewMutation(h.cache, fn, KeyCompany(id), KeyCompanies)
}
