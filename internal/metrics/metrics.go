package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weoo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weoo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weoo_transfers_total",
			Help: "Total number of completed transfers",
		},
		[]string{"channel"},
	)

	FundRequestDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weoo_fund_request_decisions_total",
			Help: "Fund request approvals and declines",
		},
		[]string{"decision"},
	)

	WithdrawRequestDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weoo_withdraw_request_decisions_total",
			Help: "Withdraw request approvals and declines",
		},
		[]string{"decision"},
	)

	GiftCodeClaimsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weoo_gift_code_claims_total",
			Help: "Total number of gift code claims",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weoo_notifications_total",
			Help: "Total number of notifications processed",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weoo_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordTransfer(channel string) {
	TransfersTotal.WithLabelValues(channel).Inc()
}

func RecordFundDecision(decision string) {
	FundRequestDecisionsTotal.WithLabelValues(decision).Inc()
}

func RecordWithdrawDecision(decision string) {
	WithdrawRequestDecisionsTotal.WithLabelValues(decision).Inc()
}

func RecordGiftCodeClaim() {
	GiftCodeClaimsTotal.Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsTotal.WithLabelValues(notifType, status).Inc()
}
