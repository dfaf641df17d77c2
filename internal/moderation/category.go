package moderation

// Category is a policy category a piece of text can be flagged under.
type Category string

const (
	CategoryProfanity         Category = "profanity"
	CategoryHateSpeech        Category = "hate_speech"
	CategorySelfHarm          Category = "self_harm"
	CategoryDrugGlorification Category = "drug_glorification"
	CategorySpam              Category = "spam"
)

// Severity is the overall seriousness of a verdict.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

var categorySeverity = map[Category]Severity{
	CategorySpam:              SeverityLow,
	CategoryProfanity:         SeverityMedium,
	CategoryDrugGlorification: SeverityHigh,
	CategoryHateSpeech:        SeverityHigh,
	CategorySelfHarm:          SeverityCritical,
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank returns the position of s in the order low < medium < high < critical.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// Severity returns the fixed severity bound to the category.
func (c Category) Severity() Severity {
	if s, ok := categorySeverity[c]; ok {
		return s
	}
	return SeverityLow
}

// ResolveSeverity returns the highest-ranked severity among the categories,
// or low when there are none.
func ResolveSeverity(categories []Category) Severity {
	result := SeverityLow
	for _, c := range categories {
		if s := c.Severity(); s.Rank() > result.Rank() {
			result = s
		}
	}
	return result
}
