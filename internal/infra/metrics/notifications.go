package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(notificationPushesTotal) }

var notificationPushesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_pushes_total",
		Help: "Device push attempts, labeled by result.",
	},
	[]string{"result"}, // 'ok', 'failed', 'no_device'
)

func IncNotificationPush(result string) {
	notificationPushesTotal.WithLabelValues(norm(result)).Inc()
}
