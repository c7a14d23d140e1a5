package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"campaignhub/analytics"
	"campaignhub/models"
	"campaignhub/state"
)

var (
	insightRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campaignhub",
		Name:      "insight_refreshes_total",
		Help:      "Insight recomputations by outcome.",
	}, []string{"outcome"})

	insightsCurrent = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "campaignhub",
		Name:      "insights_current",
		Help:      "Insights in the latest refresh by priority.",
	}, []string{"priority"})

	streamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "campaignhub",
		Name:      "insight_stream_clients",
		Help:      "Connected insight stream clients.",
	})
)

// InsightMessage is the envelope pushed to stream clients.
type InsightMessage struct {
	Event       string           `json:"event"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Data        []models.Insight `json:"data"`
}

// InsightWorker recomputes insights on a timer and whenever a collection
// changes, and publishes each result to the hub.
type InsightWorker struct {
	App      *state.App
	Scorer   *analytics.Scorer
	Hub      *Hub
	Interval time.Duration
	Logger   *logrus.Entry

	trigger chan struct{}
}

func NewInsightWorker(app *state.App, scorer *analytics.Scorer, hub *Hub, interval time.Duration, logger *logrus.Entry) *InsightWorker {
	return &InsightWorker{
		App:      app,
		Scorer:   scorer,
		Hub:      hub,
		Interval: interval,
		Logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Notify asks for a refresh soon. Bursts of changes collapse into one.
// Loads are ignored: Refresh itself loads collections on first use.
func (w *InsightWorker) Notify(ch state.Change) {
	if ch.Op == state.OpLoad {
		return
	}
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *InsightWorker) Start(ctx context.Context) {
	w.Logger.WithField("interval", w.Interval.String()).Info("Insight worker started")

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("Insight worker shutting down...")
			w.Hub.Close()
			return
		case <-ticker.C:
			w.Refresh(ctx)
		case <-w.trigger:
			w.Refresh(ctx)
		}
	}
}

// Refresh scores the current collections and publishes the result. On a
// load failure the previous result stays in place.
func (w *InsightWorker) Refresh(ctx context.Context) {
	metrics, err := w.App.Metrics.Ensure(ctx)
	if err != nil {
		w.fail("analytics", err)
		return
	}
	leads, err := w.App.Leads.Ensure(ctx)
	if err != nil {
		w.fail("leads", err)
		return
	}
	customers, err := w.App.Customers.Ensure(ctx)
	if err != nil {
		w.fail("customers", err)
		return
	}

	insights := w.Scorer.Generate(state.Values(metrics), state.Values(leads), state.Values(customers))
	msg := InsightMessage{
		Event:       "insights",
		GeneratedAt: time.Now(),
		Data:        insights,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		w.fail("encode", err)
		return
	}

	w.Hub.Publish(data)
	insightRefreshes.WithLabelValues("ok").Inc()
	recordPriorities(insights)
	streamClients.Set(float64(w.Hub.Count()))

	w.Logger.WithField("insights", len(insights)).Debug("Insights refreshed")
}

func (w *InsightWorker) fail(stage string, err error) {
	insightRefreshes.WithLabelValues("error").Inc()
	w.Logger.WithError(err).WithField("stage", stage).Warn("Insight refresh failed")
}

func recordPriorities(insights []models.Insight) {
	counts := map[models.Priority]int{
		models.PriorityHigh:   0,
		models.PriorityMedium: 0,
		models.PriorityLow:    0,
	}
	for _, in := range insights {
		counts[in.Priority]++
	}
	for p, n := range counts {
		insightsCurrent.WithLabelValues(string(p)).Set(float64(n))
	}
}
