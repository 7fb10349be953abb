package handlers

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
	"github.com/scriberly/scriberly-be/internal/flash"
	"github.com/scriberly/scriberly-be/internal/forms"
	"github.com/scriberly/scriberly-be/internal/messages"
	"github.com/scriberly/scriberly-be/internal/services"
)

// ProfileHandler handles the profile page (API-token regeneration and
// profile editing) and the subscription page.
type ProfileHandler struct {
	users    services.UserServiceProvider
	activity services.ActivityServiceProvider
	locale   string
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users services.UserServiceProvider, activity services.ActivityServiceProvider, locale string) *ProfileHandler {
	return &ProfileHandler{users: users, activity: activity, locale: locale}
}

// Profile renders the profile page with the current user state.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load current user")
		respondError(w, r, http.StatusInternalServerError, "Failed to load user")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"user":  user,
		"flash": flash.Take(w, r),
	})
}

// SubmitProfile handles the profile page's two independent forms. Each
// form is applied only when its fields are present in the POST body, and
// each is validated independently of the other.
func (h *ProfileHandler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	user, err := currentUser(r, h.users)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load current user")
		respondError(w, r, http.StatusInternalServerError, "Failed to load user")
		return
	}

	if forms.HasTokenField(r) {
		user, err = h.users.ReissueAPIToken(user.ID)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to reissue API token")
			respondError(w, r, http.StatusInternalServerError, "Failed to reissue token")
			return
		}
		if err := h.activity.Record("profile.token", "API token reissued", user.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to record activity")
		}
		flash.Set(w, messages.T(h.locale, messages.TokenUpdated))
	}

	if forms.HasProfileFields(r) {
		draft := forms.BindProfileDraft(r)
		if !draft.PasswordsMatch() {
			// All-or-nothing: a confirmation mismatch discards the whole
			// submission, including otherwise-valid fields.
			flash.Set(w, messages.T(h.locale, messages.PasswordMismatch))
			render.JSON(w, r, map[string]interface{}{"user": user})
			return
		}
		if fieldErrs := draft.Validate(); len(fieldErrs) > 0 {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, map[string]interface{}{
				"errors": fieldErrs,
				"values": draft,
			})
			return
		}

		user, err = h.users.EditProfile(user.ID, draft.Username, draft.Email, draft.Password)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to edit profile")
			respondError(w, r, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		if err := h.activity.Record("profile.update", "Profile updated", user.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to record activity")
		}
		flash.Set(w, messages.T(h.locale, messages.ProfileUpdated))
	}

	render.JSON(w, r, map[string]interface{}{"user": user})
}

// Subscription renders the current tier state with no mutation.
func (h *ProfileHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load current user")
		respondError(w, r, http.StatusInternalServerError, "Failed to load user")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"roles": user.Roles,
		"tiers": forms.Tiers(),
		"flash": flash.Take(w, r),
	})
}

// SubmitSubscription switches the user's subscription tier. The tier must
// be on the allow-list; the user's role set is then replaced wholesale
// with the single derived role.
func (h *ProfileHandler) SubmitSubscription(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	tier := r.PostFormValue("subscription")
	if !forms.ValidTier(tier) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]interface{}{
			"errors": []forms.FieldError{{Field: "subscription", Message: "Unknown subscription tier"}},
		})
		return
	}

	user, err := currentUser(r, h.users)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load current user")
		respondError(w, r, http.StatusInternalServerError, "Failed to load user")
		return
	}

	user, err = h.users.ChangeSubscription(user.ID, tier)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Str("tier", tier).Msg("Failed to change subscription")
		respondError(w, r, http.StatusInternalServerError, "Failed to change subscription")
		return
	}

	if err := h.activity.Record("subscription.change", "Switched to "+tier, user.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to record activity")
	}

	flash.Set(w, messages.T(h.locale, messages.SubscriptionChanged, tier))
	render.JSON(w, r, map[string]interface{}{"roles": user.Roles})
}
