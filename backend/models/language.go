package models

// Languages supported for user metadata. The leaderboard can filter by
// these; no other i18n handling happens server-side.
var Languages = map[string]bool{
	"en": true,
	"es": true,
	"fr": true,
	"de": true,
	"it": true,
	"pt": true,
	"ru": true,
	"zh": true,
	"ja": true,
	"ko": true,
}

func IsValidLanguage(code string) bool {
	return Languages[code]
}
