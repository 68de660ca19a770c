package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tryteddy/teddyadmin/auth"
	"github.com/tryteddy/teddyadmin/model"
)

// callsPageSize is the fixed server-side page for call logs. There are no
// pagination controls in the console; only the first page is shown.
const callsPageSize = 20

// Client talks to the remote admin API. Every request carries the shared
// admin password from the credential store; a 401 clears the store so the
// next render falls back to the password prompt.
type Client struct {
	base  string // base URL including the admin/ subpath, trailing slash
	http  *http.Client
	creds *auth.Store
	log   *zap.Logger
}

// NewClient builds a client for baseURL (the admin/ subpath is appended if
// missing). A nil logger is replaced with a no-op one.
func NewClient(baseURL string, creds *auth.Store, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if !strings.HasSuffix(baseURL, "admin/") {
		baseURL += "admin/"
	}
	return &Client{
		base:  baseURL,
		http:  &http.Client{},
		creds: creds,
		log:   log,
	}
}

// ListCompanies fetches all customer companies.
func (c *Client) ListCompanies(ctx context.Context) ([]model.Company, error) {
	var out []model.Company
	if err := c.get(ctx, "companies/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCompany fetches a single company by id.
func (c *Client) GetCompany(ctx context.Context, id string) (model.Company, error) {
	var out model.Company
	if err := c.get(ctx, "companies/"+url.PathEscape(id)+"/", nil, &out); err != nil {
		return model.Company{}, err
	}
	return out, nil
}

// UpdateCompany posts an edited company form and returns the updated record.
func (c *Client) UpdateCompany(ctx context.Context, id string, patch model.CompanyPatch) (model.Company, error) {
	var out model.Company
	path := "companies/" + url.PathEscape(id) + "/update/"
	if err := c.post(ctx, path, patch, &out); err != nil {
		return model.Company{}, err
	}
	return out, nil
}

// ListCalls fetches the first page of call logs.
func (c *Client) ListCalls(ctx context.Context) ([]model.Call, error) {
	params := url.Values{
		"limit":  {fmt.Sprint(callsPageSize)},
		"offset": {"0"},
	}
	var out []model.Call
	if err := c.get(ctx, "calls/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTexts fetches the text-message log.
func (c *Client) ListTexts(ctx context.Context) ([]model.Text, error) {
	var out []model.Text
	if err := c.get(ctx, "texts/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard fetches the aggregate counters snapshot.
func (c *Client) Dashboard(ctx context.Context) (model.Dashboard, error) {
	var out model.Dashboard
	if err := c.get(ctx, "dashboard/", nil, &out); err != nil {
		return model.Dashboard{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	password, ok := c.creds.Get()
	if !ok {
		return errNoCredential()
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+params.Encode(), nil)
	if err != nil {
		return &Error{Kind: RequestFailed, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	password, ok := c.creds.Get()
	if !ok {
		return errNoCredential()
	}

	// the password travels in the body on posts, alongside the form fields
	raw, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: RequestFailed, Message: err.Error()}
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return &Error{Kind: RequestFailed, Message: err.Error()}
	}
	body["password"] = password
	raw, err = json.Marshal(body)
	if err != nil {
		return &Error{Kind: RequestFailed, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return &Error{Kind: RequestFailed, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	reqID := uuid.NewString()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("request_id", reqID),
			zap.String("path", path),
			zap.Error(err))
		return &Error{Kind: RequestFailed, Message: err.Error()}
	}
	defer resp.Body.Close()

	c.log.Info("request",
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: RequestFailed, Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseErrorBody(body, resp.StatusCode, fmt.Sprintf("request failed with status %d", resp.StatusCode))
		if resp.StatusCode == 401 {
			if clearErr := c.creds.Clear(); clearErr != nil {
				c.log.Warn("clearing credential failed", zap.Error(clearErr))
			}
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: DecodeFailed, Status: resp.StatusCode, Message: "unexpected response shape: " + err.Error()}
	}
	return nil
}
