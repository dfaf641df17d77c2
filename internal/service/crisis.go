package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/etymograph/moderation/internal/cache"
	"github.com/etymograph/moderation/internal/metrics"
	"github.com/etymograph/moderation/internal/model"
	"go.uber.org/zap"
)

const crisisMessage = "It sounds like you might be going through a difficult time. " +
	"You don't have to face this alone. Support is available 24/7: call or text %s, " +
	"visit %s, or %s."

// Escalate records a crisis alert for self-harm content and sends the author
// a notification with crisis resources. The two writes are independent; a
// failure of either is returned but does not undo the other.
//
// Each write is claimed per content ID, so a redelivered trigger does not
// repeat a write that already succeeded. A failed write releases only its
// own claim so a retry can complete it.
func (s *Service) Escalate(ctx context.Context, authorID, contentID, text string) error {
	log := s.log.With(zap.String("contentId", contentID), zap.String("authorId", authorID))

	alertKey := cache.CrisisAlertKey(contentID)
	notifyKey := cache.CrisisNotificationKey(contentID)

	sendAlert, alertClaimed := s.claim(ctx, log, alertKey)

	// 작성자가 없으면 notification 단계는 건너뜀
	sendNotify, notifyClaimed := false, false
	if authorID == "" {
		log.Warn("no author for self-harm content, skipping crisis notification")
	} else {
		sendNotify, notifyClaimed = s.claim(ctx, log, notifyKey)
	}

	if !sendAlert && !sendNotify {
		log.Info("crisis escalation already sent for content")
		metrics.RecordCrisisEscalation("duplicate")
		return nil
	}

	now := s.now()
	resources := s.cfg.CrisisResources
	var errs []error

	// Crisis alert
	var alertID string
	if sendAlert {
		alert := &model.CrisisAlert{
			ID:          s.newID(),
			AuthorID:    authorID,
			ContentID:   contentID,
			TextSnippet: truncate(text, crisisSnippetLength),
			Resources:   resources,
			Status:      model.CrisisStatusUnresolved,
			CreatedAt:   now,
		}
		if err := s.store.CreateCrisisAlert(ctx, alert); err != nil {
			log.Error("failed to write crisis alert", zap.Error(err))
			errs = append(errs, fmt.Errorf("crisis alert: %w", err))
			s.release(ctx, log, alertKey, alertClaimed)
		} else {
			alertID = alert.ID
		}
	}

	// Author notification with crisis resources
	if sendNotify {
		data := map[string]interface{}{
			"contentId": contentID,
			"resources": resources.Map(),
		}
		if alertID != "" {
			data["alertId"] = alertID
		}
		n := &model.Notification{
			ID:        s.newID(),
			UserID:    authorID,
			Type:      model.NotificationCrisisResources,
			Title:     "We're here for you",
			Body:      fmt.Sprintf(crisisMessage, resources.Hotline, resources.URL, resources.TextLine),
			Data:      data,
			CreatedAt: now,
		}
		if err := s.store.CreateNotification(ctx, n); err != nil {
			log.Error("failed to write crisis notification", zap.Error(err))
			errs = append(errs, fmt.Errorf("crisis notification: %w", err))
			s.release(ctx, log, notifyKey, notifyClaimed)
		}
	}

	if len(errs) > 0 {
		metrics.RecordCrisisEscalation("failed")
		return errors.Join(errs...)
	}

	metrics.RecordCrisisEscalation("sent")
	log.Warn("crisis escalation sent", zap.String("alertId", alertID))
	return nil
}

// claim reports whether the step guarded by key should run and whether this
// call holds the claim. Without a claimer, or when it errors, the step runs
// unclaimed.
func (s *Service) claim(ctx context.Context, log *zap.Logger, key string) (run, claimed bool) {
	if s.claims == nil {
		return true, false
	}
	ok, err := s.claims.Claim(ctx, key, s.cfg.CrisisDedupTTL)
	if err != nil {
		log.Warn("crisis dedup unavailable, escalating anyway", zap.String("key", key), zap.Error(err))
		return true, false
	}
	return ok, ok
}

func (s *Service) release(ctx context.Context, log *zap.Logger, key string, claimed bool) {
	if !claimed {
		return
	}
	if err := s.claims.Release(ctx, key); err != nil {
		log.Warn("failed to release crisis claim", zap.String("key", key), zap.Error(err))
	}
}
