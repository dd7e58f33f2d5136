package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "analyses_total",
			Help:      "按来源与结果统计的分析次数。",
		},
		[]string{"source", "outcome"},
	)

	modelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "生成模型单次调用耗时（秒）。",
			Buckets:   []float64{.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"operation", "outcome"},
	)

	schemaMismatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "schema_mismatch_total",
			Help:      "模型返回结果缺少请求字段的次数。",
		},
		[]string{"operation"},
	)

	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "generations_total",
			Help:      "简历生成请求数。",
		},
		[]string{"outcome"},
	)
)

// ObserveAnalysis 记录一次分析的结果；failed 表示结果为 {error} 形式。
func ObserveAnalysis(source string, failed bool) {
	label := "ok"
	if failed {
		label = "error"
	}
	analysesTotal.WithLabelValues(source, label).Inc()
}

// ObserveModelCall 记录一次模型调用耗时。
func ObserveModelCall(operation string, elapsed time.Duration, err error) {
	modelCallDuration.WithLabelValues(operation, outcome(err)).Observe(elapsed.Seconds())
}

// ObserveSchemaMismatch 记录一次返回结构与请求字段不符。
func ObserveSchemaMismatch(operation string) {
	schemaMismatchTotal.WithLabelValues(operation).Inc()
}

// ObserveGeneration 记录一次完整生成流程的结果（ok / not_found / error）。
func ObserveGeneration(result string) {
	generationsTotal.WithLabelValues(result).Inc()
}
