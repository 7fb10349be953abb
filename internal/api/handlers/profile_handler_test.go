package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileHandler() (*ProfileHandler, *stubUserService, *stubActivityService) {
	users := &stubUserService{user: testUser()}
	activity := &stubActivityService{}
	return NewProfileHandler(users, activity, "en"), users, activity
}

func TestSubmitProfileTokenForm(t *testing.T) {
	h, users, activity := newProfileHandler()

	w := httptest.NewRecorder()
	h.SubmitProfile(w, formPost(t, "/dashboard/profile", url.Values{"regenerate_token": {"1"}}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, users.reissueCalled)
	assert.False(t, users.editCalled, "token form must not touch the profile")
	assert.Equal(t, "Token updated successfully", flashMessage(t, w))
	assert.Contains(t, activity.recorded, "profile.token")
}

func TestSubmitProfileMismatchedPasswords(t *testing.T) {
	h, users, _ := newProfileHandler()

	w := httptest.NewRecorder()
	h.SubmitProfile(w, formPost(t, "/dashboard/profile", url.Values{
		"username":         {"newname"},
		"password":         {"hunter22hunter22"},
		"password_confirm": {"Hunter22hunter22"},
	}))

	// The whole submission is discarded, including the valid username.
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, users.editCalled, "mismatch must never mutate the user")
	assert.Equal(t, "Passwords do not match", flashMessage(t, w))
}

func TestSubmitProfileSuccess(t *testing.T) {
	h, users, activity := newProfileHandler()

	w := httptest.NewRecorder()
	h.SubmitProfile(w, formPost(t, "/dashboard/profile", url.Values{
		"username":         {"alicia"},
		"email":            {"alicia@example.com"},
		"password":         {"hunter22hunter22"},
		"password_confirm": {"hunter22hunter22"},
	}))

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, users.editCalled)
	assert.Equal(t, "alicia", users.editUsername)
	assert.Equal(t, "alicia@example.com", users.editEmail)
	assert.Equal(t, "hunter22hunter22", users.editPassword)
	assert.Equal(t, "Profile updated successfully", flashMessage(t, w))
	assert.Contains(t, activity.recorded, "profile.update")
}

func TestSubmitProfileInvalidDraft(t *testing.T) {
	h, users, _ := newProfileHandler()

	w := httptest.NewRecorder()
	h.SubmitProfile(w, formPost(t, "/dashboard/profile", url.Values{
		"email": {"not-an-email"},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, users.editCalled)
}

func TestSubmitProfileBothFormsInOneRequest(t *testing.T) {
	h, users, _ := newProfileHandler()

	w := httptest.NewRecorder()
	h.SubmitProfile(w, formPost(t, "/dashboard/profile", url.Values{
		"regenerate_token": {"1"},
		"username":         {"alicia"},
		"password":         {""},
		"password_confirm": {""},
	}))

	// Each form is applied independently of the other.
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, users.reissueCalled)
	assert.True(t, users.editCalled)
}

func TestSubmitSubscriptionReplacesRoles(t *testing.T) {
	h, users, activity := newProfileHandler()

	w := httptest.NewRecorder()
	h.SubmitSubscription(w, formPost(t, "/dashboard/subscription", url.Values{"subscription": {"PREMIUM"}}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PREMIUM", users.changedTier)

	var body struct {
		Roles []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"ROLE_PREMIUM"}, body.Roles, "replacement, not union")

	assert.Equal(t, "Subscription PREMIUM activated", flashMessage(t, w))
	assert.Contains(t, activity.recorded, "subscription.change")
}

func TestSubmitSubscriptionRejectsUnlistedTier(t *testing.T) {
	for _, tier := range []string{"ADMIN", "SUPERUSER", "premium", ""} {
		t.Run("tier "+tier, func(t *testing.T) {
			h, users, _ := newProfileHandler()

			w := httptest.NewRecorder()
			h.SubmitSubscription(w, formPost(t, "/dashboard/subscription", url.Values{"subscription": {tier}}))

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Empty(t, users.changedTier, "no mutation for unlisted tiers")
		})
	}
}

func TestSubscriptionGetDoesNotMutate(t *testing.T) {
	h, users, _ := newProfileHandler()

	w := httptest.NewRecorder()
	h.Subscription(w, withClaims(httptest.NewRequest("GET", "/dashboard/subscription", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, users.changedTier)
	assert.False(t, users.editCalled)

	var body struct {
		Roles []string `json:"roles"`
		Tiers []string `json:"tiers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"ROLE_USER"}, body.Roles)
	assert.Contains(t, body.Tiers, "PREMIUM")
}
