package moderation

import "slices"

// Verdict is the result of classifying one piece of text.
type Verdict struct {
	Flagged    bool       `json:"flagged"`
	Categories []Category `json:"categories"`
	Severity   Severity   `json:"severity"`
}

// HasCategory reports whether the verdict matched c.
func (v Verdict) HasCategory(c Category) bool {
	return slices.Contains(v.Categories, c)
}

type compiledCategory struct {
	category Category
	matchers []termMatcher
}

// Classifier checks text against a lexicon compiled once at construction.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	categories []compiledCategory
}

func NewClassifier(lexicon Lexicon) *Classifier {
	c := &Classifier{categories: make([]compiledCategory, 0, len(lexicon))}
	for _, entry := range lexicon {
		cc := compiledCategory{category: entry.Category}
		for _, term := range entry.Terms {
			cc.matchers = append(cc.matchers, compileTerm(term))
		}
		c.categories = append(c.categories, cc)
	}
	return c
}

// Classify normalizes text and evaluates every category against it.
func (c *Classifier) Classify(text string) Verdict {
	normalized := Normalize(text)

	categories := make([]Category, 0)
	for _, cc := range c.categories {
		if slices.Contains(categories, cc.category) {
			continue
		}
		for _, m := range cc.matchers {
			if m.match(normalized) {
				categories = append(categories, cc.category)
				break
			}
		}
	}

	return Verdict{
		Flagged:    len(categories) > 0,
		Categories: categories,
		Severity:   ResolveSeverity(categories),
	}
}
