package launcher

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tryteddy/teddyadmin/model"
)

func TestBuildLoginURL(t *testing.T) {
	c := model.Company{Email: "owner@acme.com"}
	got := BuildLoginURL("https://app.tryteddy.com/", c, "abc123")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/login", u.Path)
	assert.Equal(t, "owner@acme.com", u.Query().Get("email"))
	assert.Equal(t, "abc123", u.Query().Get("password"))
}

func TestBuildLoginURLEscapesParams(t *testing.T) {
	c := model.Company{Email: "a+b@acme.com"}
	got := BuildLoginURL("https://app.tryteddy.com", c, "p&ss wörd")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "a+b@acme.com", u.Query().Get("email"))
	assert.Equal(t, "p&ss wörd", u.Query().Get("password"))
}

func TestBuildLoginURLAddsSlash(t *testing.T) {
	got := BuildLoginURL("https://app.tryteddy.com", model.Company{}, "")
	assert.Contains(t, got, "tryteddy.com/login?")
}
