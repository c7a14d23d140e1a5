package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignhub/models"
)

var fixedNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	return NewScorer(WithClock(func() time.Time { return fixedNow }))
}

func metric(platform models.Platform, cpl float64, engagement, impressions int64) models.MetricRecord {
	return models.MetricRecord{
		Platform:    platform,
		CostPerLead: cpl,
		Engagement:  engagement,
		Impressions: impressions,
	}
}

func lead(source models.LeadSource, sector string, status models.LeadStatus) models.Lead {
	return models.Lead{Source: source, Sector: sector, Status: status}
}

func TestCostEfficiency(t *testing.T) {
	s := newTestScorer()
	records := []models.MetricRecord{
		metric(models.PlatformInstagram, 45000, 0, 0),
		metric(models.PlatformLinkedIn, 60000, 0, 0),
		metric(models.PlatformTikTok, 35000, 0, 0),
		metric(models.PlatformTwitter, 75000, 0, 0),
	}
	original := append([]models.MetricRecord(nil), records...)

	in := s.CostEfficiency(records)
	require.NotNil(t, in)

	assert.Equal(t, IDCostEfficiency, in.ID)
	assert.Equal(t, "tiktok", in.Platform)
	assert.Equal(t, models.CategoryPerformance, in.Type)
	assert.Equal(t, models.PriorityHigh, in.Priority)
	assert.Equal(t, fixedNow, in.CreatedAt)
	assert.Equal(t, "tiktok", in.Data["bestPlatform"])
	assert.Equal(t, "twitter", in.Data["worstPlatform"])
	assert.InDelta(t, 53.333, in.Data["improvement"].(float64), 0.001)
	assert.Contains(t, in.Description, "53.3%")
	assert.Equal(t, "Tiktok Paling Efisien", in.Title)

	assert.Equal(t, original, records, "input must not be reordered")
}

func TestCostEfficiencyNeedsTwoRecords(t *testing.T) {
	s := newTestScorer()
	assert.Nil(t, s.CostEfficiency(nil))
	assert.Nil(t, s.CostEfficiency([]models.MetricRecord{metric(models.PlatformInstagram, 1000, 0, 0)}))
}

func TestCostEfficiencyPriorityBoundary(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		name  string
		best  float64
		worst float64
		want  models.Priority
	}{
		{"exactly twenty percent is medium", 80, 100, models.PriorityMedium},
		{"just above twenty percent is high", 79, 100, models.PriorityHigh},
		{"equal costs", 100, 100, models.PriorityMedium},
		{"zero worst cost", 0, 0, models.PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := s.CostEfficiency([]models.MetricRecord{
				metric(models.PlatformInstagram, tt.worst, 0, 0),
				metric(models.PlatformLinkedIn, tt.best, 0, 0),
			})
			require.NotNil(t, in)
			assert.Equal(t, tt.want, in.Priority)
		})
	}
}

func TestCostEfficiencyTieKeepsInputOrder(t *testing.T) {
	s := newTestScorer()
	in := s.CostEfficiency([]models.MetricRecord{
		metric(models.PlatformLinkedIn, 100, 0, 0),
		metric(models.PlatformInstagram, 100, 0, 0),
	})
	require.NotNil(t, in)
	assert.Equal(t, "linkedin", in.Data["bestPlatform"])
	assert.Equal(t, "instagram", in.Data["worstPlatform"])
}

func TestSectorConversion(t *testing.T) {
	s := newTestScorer()
	leads := []models.Lead{
		lead(models.SourceLinkedIn, "banking", models.LeadConverted),
		lead(models.SourceLinkedIn, "banking", models.LeadNew),
		lead(models.SourceWebsite, "government", models.LeadConverted),
		lead(models.SourceWebsite, "government", models.LeadConverted),
		lead(models.SourceWebsite, "government", models.LeadLost),
	}

	in := s.SectorConversion(leads)
	require.NotNil(t, in)
	assert.Equal(t, "government", in.Data["sector"])
	assert.InDelta(t, 66.667, in.Data["conversionRate"].(float64), 0.001)
	assert.Equal(t, 3, in.Data["totalLeads"])
	assert.Equal(t, models.PriorityHigh, in.Priority)
	assert.Equal(t, models.CategoryConversion, in.Type)

	assert.Nil(t, s.SectorConversion(nil))
}

func TestSectorConversionTieFirstSeenWins(t *testing.T) {
	s := newTestScorer()
	in := s.SectorConversion([]models.Lead{
		lead(models.SourceWebsite, "retail", models.LeadConverted),
		lead(models.SourceWebsite, "banking", models.LeadConverted),
		lead(models.SourceWebsite, "retail", models.LeadNew),
		lead(models.SourceWebsite, "banking", models.LeadNew),
	})
	require.NotNil(t, in)
	assert.Equal(t, "retail", in.Data["sector"])
	assert.Equal(t, models.PriorityMedium, in.Priority, "50% is not above the threshold")
}

func TestEngagementLeader(t *testing.T) {
	s := newTestScorer()
	records := []models.MetricRecord{
		metric(models.PlatformInstagram, 0, 4000, 100000),
		metric(models.PlatformTikTok, 0, 9000, 100000),
		metric(models.PlatformTwitter, 0, 100, 0),
	}

	in := s.EngagementLeader(records)
	require.NotNil(t, in)
	assert.Equal(t, "tiktok", in.Platform)
	assert.InDelta(t, 9.0, in.Data["engagementRate"].(float64), 0.0001)
	assert.Equal(t, models.PriorityHigh, in.Priority)

	low := s.EngagementLeader(records[:1])
	require.NotNil(t, low)
	assert.Equal(t, models.PriorityMedium, low.Priority)

	assert.Nil(t, s.EngagementLeader(nil))
}

func TestLeadSources(t *testing.T) {
	s := newTestScorer()
	leads := []models.Lead{
		lead(models.SourceLinkedIn, "a", models.LeadNew),
		lead(models.SourceInstagram, "a", models.LeadNew),
		lead(models.SourceLinkedIn, "a", models.LeadNew),
		lead(models.SourceWebsite, "a", models.LeadNew),
		lead(models.SourceLinkedIn, "a", models.LeadNew),
	}

	in := s.LeadSources(leads)
	require.NotNil(t, in)
	assert.Equal(t, "linkedin", in.Data["source"])
	assert.Equal(t, 3, in.Data["count"])
	assert.InDelta(t, 60.0, in.Data["percentage"].(float64), 0.0001)
	assert.Equal(t, models.PriorityHigh, in.Priority)
	assert.Equal(t, models.CategoryTrend, in.Type)

	assert.Nil(t, s.LeadSources([]models.Lead{}))
}

func TestProductPipeline(t *testing.T) {
	s := newTestScorer()
	customers := []models.Customer{
		{ProductOpportunities: []models.Opportunity{
			{Product: models.ProductSmartCard, Value: 850000, Probability: 75},
			{Product: models.ProductGraphAnalytic, Value: 1200000, Probability: 60},
		}},
		{ProductOpportunities: []models.Opportunity{
			{Product: models.ProductSmartCard, Value: 100000, Probability: 50},
		}},
		{},
	}

	in := s.ProductPipeline(customers)
	require.NotNil(t, in)
	assert.Equal(t, "graph_analytic", in.Data["product"])
	assert.Equal(t, float64(720000), in.Data["weightedValue"])
	assert.Equal(t, 1, in.Data["opportunities"])
	assert.InDelta(t, 51.15, in.Data["share"].(float64), 0.01)
	assert.Equal(t, models.PriorityHigh, in.Priority)
	assert.Equal(t, "Graph Analytic Memimpin Pipeline", in.Title)

	assert.Nil(t, s.ProductPipeline([]models.Customer{{}}))
}

func TestGenerate(t *testing.T) {
	s := newTestScorer()

	empty := s.Generate(nil, nil, nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	insights := s.Generate(
		[]models.MetricRecord{
			metric(models.PlatformInstagram, 45000, 500, 10000),
			metric(models.PlatformLinkedIn, 60000, 900, 10000),
		},
		[]models.Lead{lead(models.SourceLinkedIn, "banking", models.LeadConverted)},
		nil,
	)
	ids := make([]string, 0, len(insights))
	for _, in := range insights {
		ids = append(ids, in.ID)
	}
	assert.Equal(t, []string{IDCostEfficiency, IDSectorConversion, IDEngagement, IDLeadSources}, ids)
}

func TestCostEfficiencyThreshold(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		name string
		best float64
		want models.Priority
	}{
		{"exactly twenty", 80000, models.PriorityMedium},
		{"just above twenty", 79960, models.PriorityHigh},
		{"well below", 90000, models.PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := s.CostEfficiency([]models.MetricRecord{
				metric(models.PlatformTikTok, tt.best, 0, 0),
				metric(models.PlatformTwitter, 100000, 0, 0),
			})
			require.NotNil(t, in)
			assert.Equal(t, tt.want, in.Priority)
		})
	}
}

func TestImprovement(t *testing.T) {
	assert.InDelta(t, 53.3333, Improvement(35000, 75000), 0.0001)
	assert.Equal(t, float64(0), Improvement(0, 0))
}
