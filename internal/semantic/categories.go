package semantic

import "sort"

// categoryLexicon is the fixed set of semantic category keywords C6
// classifies against (spec §4.6: "the category lexicon is configuration,
// not code" — this is the in-repo default; callers may override via
// NewWithLexicon).
var defaultLexicon = map[string][]string{
	"authentication":  {"auth", "login", "logout", "credential", "token", "session", "password"},
	"error_handling":  {"error", "err", "fail", "failure", "exception", "panic", "recover"},
	"validation":      {"valid", "validate", "check", "verify", "sanitize", "assert"},
	"api":             {"api", "endpoint", "handler", "route", "request", "response", "rest"},
	"database":        {"db", "database", "query", "sql", "repository", "model", "migration"},
	"caching":         {"cache", "memoize", "ttl", "evict", "lru"},
	"security":        {"secure", "encrypt", "decrypt", "hash", "sign", "permission", "acl"},
	"network":         {"network", "socket", "http", "tcp", "connection", "client", "server"},
	"file_operations":  {"file", "read", "write", "path", "directory", "scan"},
	"performance":      {"perf", "performance", "benchmark", "optimize", "latency", "throughput"},
}

// CategoryScore is one inferred category and its lexicon-overlap weight.
type CategoryScore struct {
	Category string
	Score    float64
}

// Categories returns the top-k semantic categories inferred for name from
// the fixed lexicon, by fraction of name's stemmed word tokens matching
// each category's keyword stems.
func Categories(name string, topK int) []string {
	words := tokenize(name)
	if len(words) == 0 {
		return nil
	}
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	var scores []CategoryScore
	for category, keywords := range defaultLexicon {
		matches := 0
		for _, kw := range keywords {
			stem := tokenize(kw)
			for _, s := range stem {
				if wordSet[s] {
					matches++
					break
				}
			}
		}
		if matches > 0 {
			scores = append(scores, CategoryScore{Category: category, Score: float64(matches) / float64(len(keywords))})
		}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Category < scores[j].Category
	})

	if topK <= 0 || topK > len(scores) {
		topK = len(scores)
	}
	out := make([]string, topK)
	for i := 0; i < topK; i++ {
		out[i] = scores[i].Category
	}
	return out
}

// HasCategory reports whether text (an intent string or identifier) maps
// to the given category per the fixed lexicon — used by C12's critical-
// line domain boost.
func HasCategory(text, category string) bool {
	for _, c := range Categories(text, 0) {
		if c == category {
			return true
		}
	}
	return false
}
