package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 분류 요청 수 (source: classify / ingest)
	classificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_classifications_total",
			Help: "Total number of texts classified",
		},
		[]string{"source", "flagged", "severity"},
	)

	// 카테고리별 매칭 수
	categoryMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_category_matches_total",
			Help: "Total number of category matches",
		},
		[]string{"category"},
	)

	// 관리자 리뷰 결과
	reviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_reviews_total",
			Help: "Total number of review decisions by outcome",
		},
		[]string{"action", "result"},
	)

	// 위기 대응 알림 (sent / duplicate / failed)
	crisisEscalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_crisis_escalations_total",
			Help: "Total number of crisis escalations by status",
		},
		[]string{"status"},
	)

	reconcileRepairsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_reconcile_repairs_total",
			Help: "Total number of content items whose visibility was repaired",
		},
	)
)

// RecordClassification records one verdict. source is "classify" or "ingest".
func RecordClassification(source string, flagged bool, severity string, categories []string) {
	classificationsTotal.WithLabelValues(source, strconv.FormatBool(flagged), severity).Inc()
	for _, c := range categories {
		categoryMatchesTotal.WithLabelValues(c).Inc()
	}
}

func RecordReview(action, result string) {
	reviewsTotal.WithLabelValues(action, result).Inc()
}

// RecordCrisisEscalation records an escalation outcome: "sent", "duplicate"
// or "failed".
func RecordCrisisEscalation(status string) {
	crisisEscalationsTotal.WithLabelValues(status).Inc()
}

func RecordReconcileRepairs(n int) {
	reconcileRepairsTotal.Add(float64(n))
}
