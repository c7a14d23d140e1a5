package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignhub/analytics"
	"campaignhub/models"
	"campaignhub/state"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return logrus.NewEntry(l)
}

func TestHubSubscribeReceivesLastMessage(t *testing.T) {
	hub := NewHub()
	hub.Publish([]byte("first"))

	ch, cancel := hub.Subscribe()
	defer cancel()

	assert.Equal(t, []byte("first"), <-ch)

	hub.Publish([]byte("second"))
	assert.Equal(t, []byte("second"), <-ch)
	assert.Equal(t, 1, hub.Count())
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	for i := 0; i < sendBufSize+1; i++ {
		hub.Publish([]byte("tick"))
	}
	assert.Equal(t, 0, hub.Count())

	received := 0
	for range ch {
		received++
	}
	assert.Equal(t, sendBufSize, received)
}

func TestHubCancelAndClose(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()
	ch2, _ := hub.Subscribe()
	require.Equal(t, 2, hub.Count())

	cancel()
	cancel()
	assert.Equal(t, 1, hub.Count())

	hub.Close()
	assert.Equal(t, 0, hub.Count())
	_, open := <-ch2
	assert.False(t, open)
}

func seededApp(t *testing.T) *state.App {
	t.Helper()
	app := state.NewMemoryApp(testLogger())
	ctx := context.Background()
	for _, m := range []models.MetricRecord{
		{Platform: models.PlatformInstagram, CostPerLead: 45000, Engagement: 100, Impressions: 1000},
		{Platform: models.PlatformTikTok, CostPerLead: 35000, Engagement: 400, Impressions: 2000},
	} {
		m := m
		_, err := app.Metrics.Create(ctx, &m)
		require.NoError(t, err)
	}
	return app
}

func TestInsightWorkerRefreshPublishes(t *testing.T) {
	app := seededApp(t)
	hub := NewHub()
	w := NewInsightWorker(app, analytics.NewScorer(), hub, time.Minute, testLogger())

	ch, cancel := hub.Subscribe()
	defer cancel()

	w.Refresh(context.Background())

	var msg InsightMessage
	require.NoError(t, json.Unmarshal(<-ch, &msg))
	assert.Equal(t, "insights", msg.Event)
	require.NotEmpty(t, msg.Data)
	assert.Equal(t, analytics.IDCostEfficiency, msg.Data[0].ID)
	assert.Equal(t, "tiktok", msg.Data[0].Platform)
	assert.Equal(t, 1, hub.Count())
}

func TestInsightWorkerNotifyCollapses(t *testing.T) {
	w := NewInsightWorker(state.NewMemoryApp(testLogger()), analytics.NewScorer(), NewHub(), time.Minute, testLogger())

	w.Notify(state.Change{Collection: "leads", Op: state.OpLoad})
	assert.Empty(t, w.trigger)

	w.Notify(state.Change{Collection: "leads", Op: state.OpCreate})
	w.Notify(state.Change{Collection: "leads", Op: state.OpCreate})
	assert.Len(t, w.trigger, 1)
}

func TestInsightWorkerStartStops(t *testing.T) {
	app := seededApp(t)
	hub := NewHub()
	w := NewInsightWorker(app, analytics.NewScorer(), hub, time.Hour, testLogger())
	app.OnChange(w.Notify)

	ch, _ := hub.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no initial refresh")
	}

	_, err := app.Leads.Create(context.Background(), &models.Lead{Name: "Sari", Sector: "keuangan", Status: models.LeadConverted})
	require.NoError(t, err)

	select {
	case raw := <-ch:
		var msg InsightMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		ids := make([]string, 0, len(msg.Data))
		for _, in := range msg.Data {
			ids = append(ids, in.ID)
		}
		assert.Contains(t, ids, analytics.IDSectorConversion)
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh after change")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
