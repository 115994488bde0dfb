// Package classify assigns animal categories to free-text incident detail
// using an ordered keyword taxonomy.
package classify

import (
	"strings"

	"rescuemap/internal/config"
)

// CategoryOther is the reserved fallback label for text no category matches.
const CategoryOther = "other"

type rule struct {
	category string
	keywords []string
}

// Classifier matches text against taxonomy categories in priority order.
// It carries no per-record state: classification is a pure function of the
// text and the taxonomy.
type Classifier struct {
	rules []rule
}

// New builds a classifier from the configured taxonomy. Keyword casing in
// the config is irrelevant; matching is always case-insensitive.
func New(taxonomy []config.TaxonomyRule) *Classifier {
	rules := make([]rule, 0, len(taxonomy))

	for _, t := range taxonomy {
		keywords := make([]string, 0, len(t.Keywords))
		for _, kw := range t.Keywords {
			// Keyword padding is significant: " dear " must not match
			// inside a longer word.
			if strings.TrimSpace(kw) == "" {
				continue
			}

			keywords = append(keywords, strings.ToLower(kw))
		}

		rules = append(rules, rule{category: t.Category, keywords: keywords})
	}

	return &Classifier{rules: rules}
}

// Classify returns the first category whose keywords match text, scanning
// categories in taxonomy order, or CategoryOther when nothing matches.
// Empty text always classifies as CategoryOther.
func (c *Classifier) Classify(text string) string {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return CategoryOther
	}

	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.category
			}
		}
	}

	return CategoryOther
}

// Categories returns the category labels in priority order, with the
// fallback label appended.
func (c *Classifier) Categories() []string {
	out := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.category)
	}

	return append(out, CategoryOther)
}
