package moderation

import (
	"regexp"
	"strings"
)

// CategoryTerms is the ordered word list for one category.
type CategoryTerms struct {
	Category Category
	Terms    []string
}

// Lexicon is the full, ordered set of category word lists. Categories are
// reported in the order they appear here.
type Lexicon []CategoryTerms

// DefaultLexicon returns the built-in word lists. Terms are matched against
// normalized text, so they must not contain characters the normalizer
// rewrites (digits, @, $ and so on).
func DefaultLexicon() Lexicon {
	return Lexicon{
		{
			Category: CategoryProfanity,
			Terms: []string{
				"fuck", "fucking", "fucker", "motherfucker", "shit", "bullshit",
				"bitch", "asshole", "bastard", "dickhead", "cunt", "piss off",
			},
		},
		{
			Category: CategoryHateSpeech,
			Terms: []string{
				"subhuman", "untermensch", "race traitor", "inferior race",
				"ethnic cleansing", "white power", "heil hitler",
				"go back to your country", "kill all", "gas them",
			},
		},
		{
			Category: CategorySelfHarm,
			Terms: []string{
				"kill myself", "suicide", "suicidal", "end my life", "want to die",
				"cut myself", "hurt myself", "self-harm", "self harm",
				"take my own life", "better off dead", "no reason to live",
			},
		},
		{
			Category: CategoryDrugGlorification,
			Terms: []string{
				"get high", "getting high", "blaze it", "cocaine", "heroin",
				"meth", "shrooms", "acid trip", "snort", "plug for pills",
			},
		},
		{
			Category: CategorySpam,
			Terms: []string{
				"buy now", "click here", "free money", "limited time offer",
				"act now", "make money fast", "work from home", "earn cash",
				"crypto giveaway", "follow for follow", "check out my profile",
				"dm for promo",
			},
		},
	}
}

// Matches reports whether any of the terms occurs in the normalized text.
// Terms containing a space are matched as plain substrings; single words must
// stand on word boundaries.
func Matches(normalized string, terms []string) bool {
	for _, term := range terms {
		if compileTerm(term).match(normalized) {
			return true
		}
	}
	return false
}

type termMatcher struct {
	phrase string
	word   *regexp.Regexp
}

func compileTerm(term string) termMatcher {
	if strings.Contains(term, " ") {
		return termMatcher{phrase: strings.ToLower(term)}
	}
	return termMatcher{word: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)}
}

func (m termMatcher) match(text string) bool {
	if m.word != nil {
		return m.word.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), m.phrase)
}
