package service

import (
	"context"

	"github.com/etymograph/moderation/internal/auth"
	"github.com/etymograph/moderation/internal/metrics"
	"github.com/etymograph/moderation/internal/moderation"
)

// Classify returns the verdict for text without writing anything.
func (s *Service) Classify(ctx context.Context, caller *auth.Identity, text string) (moderation.Verdict, error) {
	if err := requireIdentity(caller); err != nil {
		return moderation.Verdict{}, err
	}
	if isBlank(text) {
		return moderation.Verdict{}, invalidArgument("text is required")
	}
	if textLength(text) > MaxTextLength {
		return moderation.Verdict{}, invalidArgument("text exceeds %d characters", MaxTextLength)
	}

	verdict := s.classifier.Classify(text)
	recordVerdict("classify", verdict)
	return verdict, nil
}

func recordVerdict(source string, v moderation.Verdict) {
	metrics.RecordClassification(source, v.Flagged, string(v.Severity), categoryStrings(v.Categories))
}
