package service

import (
	"context"
	"time"

	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/moderation"
	"github.com/etymograph/moderation/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Claimer hands out short-lived exclusive claims on keys. It backs the
// one-escalation-per-content rule.
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Config struct {
	CrisisResources model.CrisisResources
	CrisisDedupTTL  time.Duration
}

// Service implements classification, ingestion, crisis escalation and the
// admin review queue on top of a Store.
type Service struct {
	log        *zap.Logger
	store      store.Store
	classifier *moderation.Classifier
	claims     Claimer
	cfg        Config

	now   func() time.Time
	newID func() string
}

// New creates a Service. claims may be nil, in which case crisis escalations
// are not deduplicated.
func New(log *zap.Logger, st store.Store, classifier *moderation.Classifier, claims Claimer, cfg Config) *Service {
	if cfg.CrisisDedupTTL <= 0 {
		cfg.CrisisDedupTTL = 24 * time.Hour
	}
	return &Service{
		log:        log,
		store:      st,
		classifier: classifier,
		claims:     claims,
		cfg:        cfg,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// moderationResult is the object embedded in a content item after moderation.
func moderationResult(v moderation.Verdict, at time.Time) map[string]interface{} {
	categories := make([]string, 0, len(v.Categories))
	for _, c := range v.Categories {
		categories = append(categories, string(c))
	}
	return map[string]interface{}{
		"flagged":     v.Flagged,
		"categories":  categories,
		"severity":    string(v.Severity),
		"moderatedAt": formatTime(at),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
