package mirrorbot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/logfields"
)

const metricNamespace = "mirrorbot"

const (
	processedEventsMetricName = "processed_webhook_events_total"
	ignoredEventsMetricName   = "ignored_webhook_events_total"
	handlerFailuresMetricName = "handler_failures_total"
	mirrorRunsMetricName      = "mirror_runs_total"
	traceVerdictsMetricName   = "trace_verdicts_total"
	jobRetriesMetricName      = "job_retries_total"
)

const (
	handlerLabel = "handler"
	resultLabel  = "result"
	verdictLabel = "verdict"
)

type mirrorResultLabelVal string

const (
	mirrorResultSuccessVal     mirrorResultLabelVal = "success"
	mirrorResultNotFastForward mirrorResultLabelVal = "not_fast_forward"
	mirrorResultPushFailedVal  mirrorResultLabelVal = "push_failed"
)

type metricCollector struct {
	logger          *zap.Logger
	processedEvents prometheus.Counter
	ignoredEvents   prometheus.Counter
	handlerFailures *prometheus.CounterVec
	mirrorRuns      *prometheus.CounterVec
	traceVerdicts   *prometheus.CounterVec
	jobRetries      prometheus.Counter
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		logger: zap.L().Named(loggerName).Named("metrics"),
		processedEvents: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      processedEventsMetricName,
				Help:      "count of processed webhook events",
			},
		),
		ignoredEvents: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      ignoredEventsMetricName,
				Help:      "count of webhook events that were dropped without processing",
			},
		),
		handlerFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      handlerFailuresMetricName,
				Help:      "count of event handler executions that failed",
			},
			[]string{handlerLabel},
		),
		mirrorRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      mirrorRunsMetricName,
				Help:      "count of pull-request mirror operations by result",
			},
			[]string{resultLabel},
		),
		traceVerdicts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      traceVerdictsMetricName,
				Help:      "count of classified CI job traces by verdict",
			},
			[]string{verdictLabel},
		),
		jobRetries: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      jobRetriesMetricName,
				Help:      "count of CI job retries that were requested",
			},
		),
	}
}

func (m *metricCollector) logGetMetricFailed(metricName string, err error) {
	m.logger.Warn(
		"could not record metric",
		zap.String("metric", metricName),
		logfields.Event("recording_metric_failed"),
		zap.Error(err),
	)
}

func (m *metricCollector) ProcessedEventsInc() {
	m.processedEvents.Inc()
}

func (m *metricCollector) IgnoredEventsInc() {
	m.ignoredEvents.Inc()
}

func (m *metricCollector) HandlerFailuresInc(handler string) {
	cnt, err := m.handlerFailures.GetMetricWith(prometheus.Labels{handlerLabel: handler})
	if err != nil {
		m.logGetMetricFailed(handlerFailuresMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) MirrorRunsInc(result mirrorResultLabelVal) {
	cnt, err := m.mirrorRuns.GetMetricWith(prometheus.Labels{resultLabel: string(result)})
	if err != nil {
		m.logGetMetricFailed(mirrorRunsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) TraceVerdictsInc(verdict TraceVerdict) {
	cnt, err := m.traceVerdicts.GetMetricWith(prometheus.Labels{verdictLabel: verdict.String()})
	if err != nil {
		m.logGetMetricFailed(traceVerdictsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) JobRetriesInc() {
	m.jobRetries.Inc()
}
