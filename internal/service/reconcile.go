package service

import (
	"context"
	"errors"
	"maps"

	"github.com/etymograph/moderation/internal/metrics"
	"github.com/etymograph/moderation/internal/model"
	"github.com/etymograph/moderation/internal/store"
	"go.uber.org/zap"
)

const reconcilePageSize = 100

type ReconcileStats struct {
	Scanned        int `json:"scanned"`
	Repaired       int `json:"repaired"`
	MissingContent int `json:"missingContent"`
}

// Reconcile brings content visibility back in line with queue records after a
// partial failure: pending and rejected content must be hidden, approved
// content visible. With dryRun set it only counts what it would repair.
func (s *Service) Reconcile(ctx context.Context, dryRun bool) (ReconcileStats, error) {
	var stats ReconcileStats

	for _, st := range []model.RecordStatus{model.StatusPending, model.StatusRejected, model.StatusApproved} {
		for offset := 0; ; offset += reconcilePageSize {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			records, total, err := s.store.ListRecords(ctx, store.QueueFilter{
				Status: st,
				Limit:  reconcilePageSize,
				Offset: offset,
			})
			if err != nil {
				return stats, err
			}

			for i := range records {
				repaired, err := s.reconcileRecord(ctx, &records[i], dryRun)
				stats.Scanned++
				switch {
				case errors.Is(err, store.ErrNotFound):
					stats.MissingContent++
				case err != nil:
					return stats, err
				case repaired:
					stats.Repaired++
				}
			}

			if len(records) == 0 || int64(offset+len(records)) >= total {
				break
			}
		}
	}

	if !dryRun {
		metrics.RecordReconcileRepairs(stats.Repaired)
	}
	return stats, nil
}

func (s *Service) reconcileRecord(ctx context.Context, rec *model.ModerationRecord, dryRun bool) (bool, error) {
	content, err := s.store.GetContent(ctx, rec.ContentID)
	if err != nil {
		return false, err
	}

	wantVisible := rec.Status == model.StatusApproved
	if content.Moderated && content.Visible == wantVisible {
		return false, nil
	}

	s.log.Info("content visibility out of sync with queue record",
		zap.String("contentId", rec.ContentID),
		zap.String("status", string(rec.Status)),
		zap.Bool("visible", content.Visible),
		zap.Bool("dryRun", dryRun))
	if dryRun {
		return true, nil
	}

	result := maps.Clone(map[string]interface{}(content.ModerationResult))
	if result == nil {
		result = make(map[string]interface{})
	}
	if _, ok := result["flagged"]; !ok {
		result["flagged"] = true
		result["categories"] = categoryStrings(rec.FlaggedCategories)
		result["severity"] = string(rec.Severity)
		result["moderatedAt"] = formatTime(rec.CreatedAt)
	}
	result["reconciledAt"] = formatTime(s.now())

	err = s.store.UpdateContent(ctx, rec.ContentID, store.ContentUpdate{
		Moderated:        true,
		Visible:          wantVisible,
		ModerationResult: result,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
