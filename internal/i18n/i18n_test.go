package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundledLocales(t *testing.T) {
	i := &I18n{translations: map[string]map[string]string{}, defaultLang: "en"}
	require.NoError(t, i.LoadTranslations("locales"))

	assert.Equal(t, "Business not found", i.T("en", KeyBusinessNotFound))
	assert.Equal(t, "व्यवसाय नहीं मिला", i.T("hi", KeyBusinessNotFound))
	assert.Equal(t, "Invalid input", i.T("en", KeyValidationInvalid, "input"))
}

func TestFallbacks(t *testing.T) {
	i := &I18n{
		translations: map[string]map[string]string{
			"en": {"only.en": "English"},
			"hi": {},
		},
		defaultLang: "en",
	}

	assert.Equal(t, "English", i.T("hi", "only.en"))
	assert.Equal(t, "missing.key", i.T("hi", "missing.key"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hi", Normalize("hi-IN,hi;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", Normalize("en-GB"))
	assert.Equal(t, "hi", Normalize("fr-FR, hi;q=0.5"))
	assert.Equal(t, "en", Normalize(""))
}

func TestEveryKeyHasBothLocales(t *testing.T) {
	i := &I18n{translations: map[string]map[string]string{}, defaultLang: "en"}
	require.NoError(t, i.LoadTranslations("locales"))

	for key := range i.translations["en"] {
		_, ok := i.translations["hi"][key]
		assert.True(t, ok, "hi locale missing %s", key)
	}
}
