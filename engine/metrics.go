package engine

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aerotechavionics/ehms/model"
)

// Metrics exposes the core statistics as Prometheus metrics for ground
// test rigs. It samples the core on scrape; it is never on the tick
// path.
type Metrics struct {
	core *Core

	cycles        *prometheus.Desc
	busSamples    *prometheus.Desc
	busErrors     *prometheus.Desc
	busActive     *prometheus.Desc
	activeAlerts  *prometheus.Desc
	masterCaution *prometheus.Desc
	masterWarning *prometheus.Desc
	highestLevel  *prometheus.Desc
	engineHealth  *prometheus.Desc
	sinkFailures  *prometheus.Desc
	droppedFull   *prometheus.Desc
}

// NewMetrics builds the collector for one core.
func NewMetrics(core *Core) *Metrics {
	return &Metrics{
		core: core,
		cycles: prometheus.NewDesc("ehms_cycles_total",
			"Acquisition cycles executed.", nil, nil),
		busSamples: prometheus.NewDesc("ehms_bus_samples_total",
			"Read attempts per serial bus.", []string{"bus"}, nil),
		busErrors: prometheus.NewDesc("ehms_bus_errors_total",
			"Failed read attempts per serial bus.", []string{"bus"}, nil),
		busActive: prometheus.NewDesc("ehms_bus_active",
			"Whether the serial bus is active (1) or deactivated (0).", []string{"bus"}, nil),
		activeAlerts: prometheus.NewDesc("ehms_active_alerts",
			"Alerts currently in the active set.", nil, nil),
		masterCaution: prometheus.NewDesc("ehms_master_caution",
			"Master caution indicator.", nil, nil),
		masterWarning: prometheus.NewDesc("ehms_master_warning",
			"Master warning indicator.", nil, nil),
		highestLevel: prometheus.NewDesc("ehms_highest_alert_level",
			"Highest active alert level.", nil, nil),
		engineHealth: prometheus.NewDesc("ehms_engine_health",
			"Per-engine health assessment.", []string{"engine"}, nil),
		sinkFailures: prometheus.NewDesc("ehms_sink_failures_total",
			"Publication failures per outbound sink.", []string{"sink"}, nil),
		droppedFull: prometheus.NewDesc("ehms_alerts_dropped_total",
			"Exceedances dropped because the active set was full.", nil, nil),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.cycles
	ch <- m.busSamples
	ch <- m.busErrors
	ch <- m.busActive
	ch <- m.activeAlerts
	ch <- m.masterCaution
	ch <- m.masterWarning
	ch <- m.highestLevel
	ch <- m.engineHealth
	ch <- m.sinkFailures
	ch <- m.droppedFull
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	stats := m.core.Statistics()
	ch <- prometheus.MustNewConstMetric(m.cycles, prometheus.CounterValue, float64(stats.CycleCount))

	for i, src := range m.core.Sources() {
		label := strconv.Itoa(i)
		ch <- prometheus.MustNewConstMetric(m.busSamples, prometheus.CounterValue, float64(stats.SourceSamples[i]), label)
		ch <- prometheus.MustNewConstMetric(m.busErrors, prometheus.CounterValue, float64(stats.SourceErrors[i]), label)
		ch <- prometheus.MustNewConstMetric(m.busActive, prometheus.GaugeValue, boolVal(src.Active), label)
	}

	alerts := m.core.Alerts()
	ch <- prometheus.MustNewConstMetric(m.activeAlerts, prometheus.GaugeValue, float64(alerts.ActiveCount()))
	ch <- prometheus.MustNewConstMetric(m.masterCaution, prometheus.GaugeValue, boolVal(alerts.MasterCaution()))
	ch <- prometheus.MustNewConstMetric(m.masterWarning, prometheus.GaugeValue, boolVal(alerts.MasterWarning()))
	ch <- prometheus.MustNewConstMetric(m.highestLevel, prometheus.GaugeValue, float64(alerts.HighestLevel()))

	for e := 0; e < m.core.EngineCount(); e++ {
		snap, err := m.core.Snapshot(model.EngineID(e))
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(m.engineHealth, prometheus.GaugeValue,
			float64(snap.HealthStatus), strconv.Itoa(e+1))
	}

	display, recorder := alerts.SinkFailures()
	ch <- prometheus.MustNewConstMetric(m.sinkFailures, prometheus.CounterValue, float64(display), "display")
	ch <- prometheus.MustNewConstMetric(m.sinkFailures, prometheus.CounterValue, float64(recorder), "recorder")
	ch <- prometheus.MustNewConstMetric(m.droppedFull, prometheus.CounterValue, float64(alerts.DroppedFull()))
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Handler serves the metrics on a private registry.
func (m *Metrics) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(m)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
