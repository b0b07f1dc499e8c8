package jsonl

import "github.com/VictoriaMetrics/metrics"

// Store counters, exposed by the HTTP surface on /metrics.
var (
	appendsTotal        = metrics.NewCounter(`floaty_store_appends_total`)
	rewritesTotal       = metrics.NewCounter(`floaty_store_rewrites_total`)
	loadsTotal          = metrics.NewCounter(`floaty_store_loads_total`)
	decodeFailuresTotal = metrics.NewCounter(`floaty_store_decode_failures_total`)
	writeErrorsTotal    = metrics.NewCounter(`floaty_store_write_errors_total`)
	rewriteDuration     = metrics.NewHistogram(`floaty_store_rewrite_duration_seconds`)
)
