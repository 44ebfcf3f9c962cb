package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsPostedTotal, jobsTransitionedTotal) }

var jobsPostedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "jobs_posted_total",
		Help: "Total jobs posted.",
	},
)

var jobsTransitionedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jobs_transitioned_total",
		Help: "Job status transitions, labeled by target status.",
	},
	[]string{"to"}, // 'in_progress', 'completed', 'cancelled'
)

func IncJobPosted()              { jobsPostedTotal.Inc() }
func IncJobTransition(to string) { jobsTransitionedTotal.WithLabelValues(norm(to)).Inc() }
