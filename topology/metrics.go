// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package topology

import "github.com/prometheus/client_golang/prometheus"

// metricsEnabled gates both counters below so that building a table or
// dispatching an iterator in a process that never calls EnableMetrics pays
// no Prometheus overhead.
var metricsEnabled = false

// EnableMetrics turns on Prometheus instrumentation for this package.
// Registration happens unconditionally in init(); this only controls whether
// the hot paths (attributeRoutings, every *It constructor) touch the
// counters.
func EnableMetrics() { metricsEnabled = true }

const (
	MetricAttributeCacheMisses = "routing_attribute_cache_misses_total"
	MetricIteratorDispatches   = "routing_iterator_dispatches_total"
)

var attributeCacheMisses = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "shardrouter",
		Name:      MetricAttributeCacheMisses,
		Help:      "Count of attributeRoutings cache misses, by index name.",
	},
	[]string{"index"},
)

var iteratorDispatches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "shardrouter",
		Name:      MetricIteratorDispatches,
		Help:      "Count of ShardIterator constructions, by selection policy.",
	},
	[]string{"policy"},
)

func init() {
	prometheus.MustRegister(attributeCacheMisses)
	prometheus.MustRegister(iteratorDispatches)
}
