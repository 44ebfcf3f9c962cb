package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(bidsSubmittedTotal, bidsAwardedTotal, bidsRejectedTotal, awardRepairsTotal) }

var bidsSubmittedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bids_submitted_total",
		Help: "Total bid submissions, labeled by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'invalid', 'job_closed', 'duplicate', 'error'
)

var bidsAwardedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "bids_awarded_total",
		Help: "Total successful bid acceptances.",
	},
)

var bidsRejectedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bids_rejected_total",
		Help: "Total bid rejections, labeled by cause.",
	},
	[]string{"cause"}, // 'manual', 'fanout'
)

var awardRepairsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "award_repairs_total",
		Help: "Half-applied awards rolled forward by the repair sweep.",
	},
)

func IncBidSubmitted(outcome string) { bidsSubmittedTotal.WithLabelValues(norm(outcome)).Inc() }
func IncBidAwarded()                 { bidsAwardedTotal.Inc() }
func IncBidRejected(cause string)    { bidsRejectedTotal.WithLabelValues(norm(cause)).Inc() }
func IncAwardRepair()                { awardRepairsTotal.Inc() }
