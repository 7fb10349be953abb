package forms

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// FieldError describes a single failed constraint on a submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ThemeChoices are the themes the content generator knows how to write about.
var ThemeChoices = []string{"sport", "science", "travel", "fashion", "technology"}

// allowedTiers is the set of subscription tiers a user may select for
// themselves. ADMIN is deliberately absent: the tier arrives as free-form
// form data, and accepting it would let any user grant themselves the
// admin role.
var allowedTiers = map[string]bool{
	"USER":    true,
	"PREMIUM": true,
	"PRO":     true,
}

// ValidTier reports whether tier is a selectable subscription tier.
func ValidTier(tier string) bool {
	return allowedTiers[tier]
}

// Tiers lists the selectable subscription tiers for rendering.
func Tiers() []string {
	return []string{"USER", "PREMIUM", "PRO"}
}

// ArticleDraft is the request-scoped form data for creating an article.
// It is never persisted; a valid draft is turned into a models.Article
// by the create-article handler.
type ArticleDraft struct {
	Title    string `json:"title"`
	Plural   string `json:"plural"`
	Genitive string `json:"genitive"`
	Keywords string `json:"keywords"`
	SizeFrom int    `json:"sizeFrom"`
	SizeTo   int    `json:"sizeTo"`
	Theme    string `json:"theme"`
}

// BindArticleDraft binds the submitted form fields to an ArticleDraft and
// validates it. A non-empty error list means the draft must not be acted on;
// the draft still carries the submitted values so the form can be
// re-rendered with them.
func BindArticleDraft(r *http.Request) (ArticleDraft, []FieldError) {
	draft := ArticleDraft{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Plural:   strings.TrimSpace(r.FormValue("plural")),
		Genitive: strings.TrimSpace(r.FormValue("genitive")),
		Keywords: strings.TrimSpace(r.FormValue("keywords")),
		Theme:    strings.TrimSpace(r.FormValue("theme")),
	}

	var errs []FieldError
	for field, value := range map[string]string{
		"title":    draft.Title,
		"plural":   draft.Plural,
		"genitive": draft.Genitive,
		"keywords": draft.Keywords,
		"theme":    draft.Theme,
	} {
		if value == "" {
			errs = append(errs, FieldError{Field: field, Message: "This field is required"})
		}
	}

	if draft.Theme != "" && !validTheme(draft.Theme) {
		errs = append(errs, FieldError{Field: "theme", Message: fmt.Sprintf("Unknown theme %q", draft.Theme)})
	}

	var fromErr, toErr bool
	draft.SizeFrom, fromErr = parseSize(r.FormValue("size_from"))
	draft.SizeTo, toErr = parseSize(r.FormValue("size_to"))
	if fromErr {
		errs = append(errs, FieldError{Field: "size_from", Message: "Must be a positive number"})
	}
	if toErr {
		errs = append(errs, FieldError{Field: "size_to", Message: "Must be a positive number"})
	}
	if !fromErr && !toErr && draft.SizeFrom > draft.SizeTo {
		errs = append(errs, FieldError{Field: "size_to", Message: "Must not be smaller than size_from"})
	}

	return draft, errs
}

func parseSize(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, true
	}
	return n, false
}

func validTheme(theme string) bool {
	for _, t := range ThemeChoices {
		if t == theme {
			return true
		}
	}
	return false
}

// ProfileDraft is the request-scoped form data for editing a profile.
// Empty fields mean "leave unchanged".
type ProfileDraft struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"-"`
	PasswordConfirm string `json:"-"`
}

// BindProfileDraft binds the submitted profile form fields.
func BindProfileDraft(r *http.Request) ProfileDraft {
	return ProfileDraft{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}
}

// PasswordsMatch reports whether the password and its confirmation are
// byte-for-byte identical. A mismatch discards the entire submission, not
// just the password fields.
func (d ProfileDraft) PasswordsMatch() bool {
	return d.Password == d.PasswordConfirm
}

// Validate checks the per-field constraints of the supplied fields.
func (d ProfileDraft) Validate() []FieldError {
	var errs []FieldError
	if d.Email != "" && !strings.Contains(d.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "Must be a valid email address"})
	}
	if d.Username != "" && len(d.Username) < 3 {
		errs = append(errs, FieldError{Field: "username", Message: "Must be at least 3 characters"})
	}
	if d.Password != "" && len(d.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "Must be at least 8 characters"})
	}
	return errs
}

// HasProfileFields reports whether the POST body carries any profile-form
// fields. The profile page hosts two independent forms; each one is handled
// only when its fields are present.
func HasProfileFields(r *http.Request) bool {
	for _, f := range []string{"username", "email", "password", "password_confirm"} {
		if r.PostForm.Has(f) {
			return true
		}
	}
	return false
}

// HasTokenField reports whether the POST body carries the token
// regeneration form.
func HasTokenField(r *http.Request) bool {
	return r.PostForm.Has("regenerate_token")
}
