package service

import (
	"context"
	"errors"
	"maps"

	"github.com/etymograph/moderation/internal/auth"
	"github.com/etymograph/moderation/internal/metrics"
	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/store"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type ReviewRequest struct {
	ContentID string `json:"contentId"`
	Action    string `json:"action"`
	Reason    string `json:"reason"`
}

type ReviewResult struct {
	Success   bool   `json:"success"`
	ContentID string `json:"contentId"`
	Action    string `json:"action"`
}

// Review records an admin decision on a pending queue record and applies it
// to the content item. Each record can be reviewed once; the transition is a
// conditional write, so of two concurrent reviews only one succeeds.
func (s *Service) Review(ctx context.Context, caller *auth.Identity, req ReviewRequest) (*ReviewResult, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if isBlank(req.ContentID) {
		return nil, invalidArgument("contentId is required")
	}

	var next model.RecordStatus
	switch req.Action {
	case ActionApprove:
		next = model.StatusApproved
	case ActionReject:
		next = model.StatusRejected
	default:
		return nil, invalidArgument("invalid action %q: must be approve or reject", req.Action)
	}

	log := s.log.With(
		zap.String("contentId", req.ContentID),
		zap.String("action", req.Action),
		zap.String("reviewer", caller.UserID))

	rec, err := s.store.GetRecord(ctx, req.ContentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "no moderation record for content %s", req.ContentID)
	}
	if err != nil {
		return nil, s.internalError("failed to load moderation record", err, zap.String("contentId", req.ContentID))
	}
	if rec.Status != model.StatusPending {
		metrics.RecordReview(req.Action, "already_reviewed")
		return nil, alreadyReviewed(rec.Status)
	}

	reviewedAt := s.now()
	err = s.store.TransitionRecord(ctx, req.ContentID, store.Transition{
		Status:     next,
		ReviewedBy: caller.UserID,
		Reason:     req.Reason,
		ReviewedAt: reviewedAt,
	})
	var notPending *store.NotPendingError
	switch {
	case errors.As(err, &notPending):
		metrics.RecordReview(req.Action, "already_reviewed")
		return nil, alreadyReviewed(notPending.Status)
	case errors.Is(err, store.ErrNotFound):
		return nil, status.Errorf(codes.NotFound, "no moderation record for content %s", req.ContentID)
	case err != nil:
		return nil, s.internalError("failed to record review decision", err, zap.String("contentId", req.ContentID))
	}

	log.Info("review recorded")
	metrics.RecordReview(req.Action, "success")

	content, err := s.store.GetContent(ctx, req.ContentID)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("content item no longer exists, skipping visibility update")
		return &ReviewResult{Success: true, ContentID: req.ContentID, Action: req.Action}, nil
	}
	if err != nil {
		return nil, s.internalError("failed to load content", err, zap.String("contentId", req.ContentID))
	}

	result := maps.Clone(map[string]interface{}(content.ModerationResult))
	if result == nil {
		result = make(map[string]interface{})
	}
	result["reviewedBy"] = caller.UserID
	result["reviewedAt"] = formatTime(reviewedAt)
	result["decision"] = string(next)
	if next == model.StatusRejected {
		result["reviewReason"] = req.Reason
	}

	err = s.updateContent(ctx, log, req.ContentID, store.ContentUpdate{
		Moderated:        true,
		Visible:          next == model.StatusApproved,
		ModerationResult: result,
	})
	if err != nil {
		return nil, s.internalError("failed to update content visibility", err, zap.String("contentId", req.ContentID))
	}

	if next == model.StatusRejected && rec.AuthorID != "" {
		s.notifyRejected(ctx, log, rec.AuthorID, req.ContentID, req.Reason)
	}

	return &ReviewResult{Success: true, ContentID: req.ContentID, Action: req.Action}, nil
}

func alreadyReviewed(current model.RecordStatus) error {
	return status.Errorf(codes.FailedPrecondition, "content already reviewed (status: %s)", current)
}

// notifyRejected tells the author their content was removed. Failure is logged
// only; the decision is already recorded.
func (s *Service) notifyRejected(ctx context.Context, log *zap.Logger, authorID, contentID, reason string) {
	body := "Your post was removed because it violates our community guidelines."
	data := map[string]interface{}{"contentId": contentID}
	if reason != "" {
		body += " Reason: " + reason
		data["reason"] = reason
	}

	n := &model.Notification{
		ID:        s.newID(),
		UserID:    authorID,
		Type:      model.NotificationContentRejected,
		Title:     "Your post was removed",
		Body:      body,
		Data:      data,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		log.Warn("failed to send rejection notification", zap.Error(err))
	}
}
