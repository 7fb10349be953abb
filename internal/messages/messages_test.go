package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Article about ski boots", T("en", ArticleDescription, "ski boots"))
	assert.Equal(t, "Статья о ski boots", T("ru", ArticleDescription, "ski boots"))
	assert.Equal(t, "Подписка PREMIUM оформлена", T("ru", SubscriptionChanged, "PREMIUM"))
	assert.Equal(t, "Article created successfully", T("en", ArticleCreated))
}

func TestTFallbacks(t *testing.T) {
	// Unknown locale falls back to English.
	assert.Equal(t, "Passwords do not match", T("de", PasswordMismatch))
	// Unknown key comes back as the key so the gap is visible.
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}
