package service

import (
	"context"
	"errors"
	"strings"

	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/moderation"
	"github.com/etymograph/moderation/internal/store"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ContentEvent is delivered once for every newly created content item.
type ContentEvent struct {
	ContentID string                 `json:"contentId"`
	Document  map[string]interface{} `json:"document"`
}

// Ingest moderates a newly created content item. Clean content is made
// visible; flagged content is queued for review and hidden, and self-harm
// content is escalated. Content without text is ignored.
//
// The queue record is written before the content is hidden. A failure in
// between leaves a pending record on visible content, which Reconcile repairs.
func (s *Service) Ingest(ctx context.Context, ev ContentEvent) error {
	text := firstString(ev.Document, textFields)
	if isBlank(text) {
		return nil
	}

	contentID := ev.ContentID
	if contentID == "" {
		contentID = firstString(ev.Document, []string{"id"})
	}
	if contentID == "" {
		return invalidArgument("content id is required")
	}
	authorID := firstString(ev.Document, authorFields)

	log := s.log.With(zap.String("contentId", contentID), zap.String("authorId", authorID))

	verdict := s.classifier.Classify(text)
	recordVerdict("ingest", verdict)
	now := s.now()

	if !verdict.Flagged {
		err := s.updateContent(ctx, log, contentID, store.ContentUpdate{
			Moderated:        true,
			Visible:          true,
			ModerationResult: moderationResult(verdict, now),
		})
		if err != nil {
			return s.internalError("failed to publish clean content", err, zap.String("contentId", contentID))
		}
		return nil
	}

	rec := &model.ModerationRecord{
		ContentID:         contentID,
		AuthorID:          authorID,
		TextSnippet:       truncate(text, snippetLength),
		FlaggedCategories: model.Categories(verdict.Categories),
		Severity:          verdict.Severity,
		Status:            model.StatusPending,
		CreatedAt:         now,
	}
	if err := s.store.UpsertRecord(ctx, rec); err != nil {
		return s.internalError("failed to queue flagged content", err, zap.String("contentId", contentID))
	}

	log.Info("content flagged",
		zap.Strings("categories", categoryStrings(verdict.Categories)),
		zap.String("severity", string(verdict.Severity)))

	var failed []string
	err := s.updateContent(ctx, log, contentID, store.ContentUpdate{
		Moderated:        true,
		Visible:          false,
		ModerationResult: moderationResult(verdict, now),
	})
	if err != nil {
		log.Error("failed to hide flagged content", zap.Error(err))
		failed = append(failed, "hide content")
	}

	if verdict.HasCategory(moderation.CategorySelfHarm) {
		if err := s.Escalate(ctx, authorID, contentID, text); err != nil {
			log.Error("crisis escalation failed", zap.Error(err))
			failed = append(failed, "crisis escalation")
		}
	}

	if len(failed) > 0 {
		return status.Errorf(codes.Internal, "content queued but failed to %s", strings.Join(failed, " and "))
	}
	return nil
}

// updateContent treats a missing content item as nothing to update.
func (s *Service) updateContent(ctx context.Context, log *zap.Logger, contentID string, u store.ContentUpdate) error {
	err := s.store.UpdateContent(ctx, contentID, u)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("content item no longer exists, skipping visibility update")
		return nil
	}
	return err
}

func categoryStrings(categories []moderation.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}
