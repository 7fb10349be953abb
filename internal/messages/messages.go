// Package messages is the catalog of user-facing notification and template
// strings, keyed so the dashboard can serve localized text.
package messages

import "fmt"

// Message keys.
const (
	ArticleDescription      = "article.description"
	ArticleCreated          = "article.created"
	ArticleGenerationFailed = "article.generation_failed"
	TokenUpdated            = "profile.token_updated"
	ProfileUpdated          = "profile.updated"
	PasswordMismatch        = "profile.password_mismatch"
	SubscriptionChanged     = "subscription.changed"
)

var catalogs = map[string]map[string]string{
	"en": {
		ArticleDescription:      "Article about %s",
		ArticleCreated:          "Article created successfully",
		ArticleGenerationFailed: "Failed to generate the article text",
		TokenUpdated:            "Token updated successfully",
		ProfileUpdated:          "Profile updated successfully",
		PasswordMismatch:        "Passwords do not match",
		SubscriptionChanged:     "Subscription %s activated",
	},
	"ru": {
		ArticleDescription:      "Статья о %s",
		ArticleCreated:          "Статья успешно создана",
		ArticleGenerationFailed: "Не удалось сгенерировать текст статьи",
		TokenUpdated:            "Токен успешно изменен",
		ProfileUpdated:          "Профиль успешно изменен",
		PasswordMismatch:        "Пароли не совпадают",
		SubscriptionChanged:     "Подписка %s оформлена",
	},
}

// T renders the message for key in the given locale, applying args to the
// template. Unknown locales fall back to English; unknown keys come back
// as the key itself so a missing translation is visible, not silent.
func T(locale, key string, args ...interface{}) string {
	catalog, ok := catalogs[locale]
	if !ok {
		catalog = catalogs["en"]
	}
	tmpl, ok := catalog[key]
	if !ok {
		if tmpl, ok = catalogs["en"][key]; !ok {
			return key
		}
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
