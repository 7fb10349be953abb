package forms

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleForm() url.Values {
	return url.Values{
		"title":     {"Ski Boots Guide"},
		"plural":    {"boots"},
		"genitive":  {"boots'"},
		"keywords":  {"ski boots"},
		"size_from": {"38"},
		"size_to":   {"45"},
		"theme":     {"sport"},
	}
}

func bindArticle(t *testing.T, values url.Values) (ArticleDraft, []FieldError) {
	t.Helper()
	r := httptest.NewRequest("POST", "/dashboard/create_article", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return BindArticleDraft(r)
}

func TestBindArticleDraftValid(t *testing.T) {
	draft, errs := bindArticle(t, articleForm())
	require.Empty(t, errs)
	assert.Equal(t, "Ski Boots Guide", draft.Title)
	assert.Equal(t, "ski boots", draft.Keywords)
	assert.Equal(t, 38, draft.SizeFrom)
	assert.Equal(t, 45, draft.SizeTo)
	assert.Equal(t, "sport", draft.Theme)
}

func TestBindArticleDraftConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(url.Values)
		field  string
	}{
		{"missing title", func(v url.Values) { v.Del("title") }, "title"},
		{"blank keywords", func(v url.Values) { v.Set("keywords", "   ") }, "keywords"},
		{"missing plural", func(v url.Values) { v.Del("plural") }, "plural"},
		{"missing genitive", func(v url.Values) { v.Del("genitive") }, "genitive"},
		{"non-numeric size_from", func(v url.Values) { v.Set("size_from", "abc") }, "size_from"},
		{"negative size_to", func(v url.Values) { v.Set("size_to", "-3") }, "size_to"},
		{"inverted range", func(v url.Values) { v.Set("size_from", "50") }, "size_to"},
		{"unknown theme", func(v url.Values) { v.Set("theme", "gardening") }, "theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := articleForm()
			tt.mutate(values)
			_, errs := bindArticle(t, values)
			require.NotEmpty(t, errs)

			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestBindArticleDraftEchoesSubmittedValues(t *testing.T) {
	values := articleForm()
	values.Del("title")
	draft, errs := bindArticle(t, values)
	require.NotEmpty(t, errs)
	// The invalid draft still carries everything that was submitted.
	assert.Equal(t, "ski boots", draft.Keywords)
	assert.Equal(t, "sport", draft.Theme)
	assert.Equal(t, 38, draft.SizeFrom)
}

func TestProfileDraftPasswordsMatch(t *testing.T) {
	assert.True(t, ProfileDraft{Password: "hunter22", PasswordConfirm: "hunter22"}.PasswordsMatch())
	assert.False(t, ProfileDraft{Password: "hunter22", PasswordConfirm: "Hunter22"}.PasswordsMatch())
	assert.True(t, ProfileDraft{}.PasswordsMatch())
}

func TestProfileDraftValidate(t *testing.T) {
	assert.Empty(t, ProfileDraft{}.Validate())
	assert.Empty(t, ProfileDraft{Username: "alice", Email: "alice@example.com", Password: "hunter22"}.Validate())
	assert.NotEmpty(t, ProfileDraft{Email: "not-an-email"}.Validate())
	assert.NotEmpty(t, ProfileDraft{Username: "ab"}.Validate())
	assert.NotEmpty(t, ProfileDraft{Password: "short"}.Validate())
}

func TestValidTier(t *testing.T) {
	assert.True(t, ValidTier("USER"))
	assert.True(t, ValidTier("PREMIUM"))
	assert.True(t, ValidTier("PRO"))
	assert.False(t, ValidTier("ADMIN"), "self-service ADMIN would be privilege escalation")
	assert.False(t, ValidTier("premium"))
	assert.False(t, ValidTier(""))
}
