package core

import "strings"

// Keyword sets for platform attribution. Meta keywords are checked
// first: an origin naming both families ("Busca paga | Facebook Ads")
// belongs to Meta. The check order is part of the contract.
var (
	metaKeywords   = []string{"facebook", "meta", "instagram", "fb"}
	googleKeywords = []string{"google", "gads", "adwords", "busca paga"}
)

// ClassifyPlatform buckets a free-text lead origin into a Platform.
// An empty origin is Unknown; an origin that matches neither keyword
// family is Other.
func ClassifyPlatform(origin string) Platform {
	s := strings.ToLower(strings.TrimSpace(origin))
	if s == "" {
		return Unknown
	}
	for _, kw := range metaKeywords {
		if strings.Contains(s, kw) {
			return MetaAds
		}
	}
	for _, kw := range googleKeywords {
		if strings.Contains(s, kw) {
			return GoogleAds
		}
	}
	return Other
}
