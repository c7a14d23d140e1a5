// Package analytics derives insights from social metrics, leads and customers.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"campaignhub/models"
)

// Priority thresholds. A value strictly above the threshold is high priority.
const (
	CostImprovementThreshold  = 20.0
	SectorConversionThreshold = 50.0
	EngagementRateThreshold   = 5.0
	LeadSourceShareThreshold  = 40.0
	ProductShareThreshold     = 50.0
)

// Insight ids are stable so clients can key on them.
const (
	IDCostEfficiency   = "cpl-analysis"
	IDSectorConversion = "sector-conversion"
	IDEngagement       = "platform-performance"
	IDLeadSources      = "lead-sources"
	IDProductPipeline  = "product-pipeline"
)

// Scorer turns metric, lead and customer collections into insights.
// All methods are pure over their inputs; the only ambient input is the clock.
type Scorer struct {
	now func() time.Time
}

type Option func(*Scorer)

// WithClock overrides the clock used to stamp insights.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs every analysis and returns the insights that apply, in a
// fixed order. The result is never nil. Cost and engagement comparisons only
// look at social platforms.
func (s *Scorer) Generate(metrics []models.MetricRecord, leads []models.Lead, customers []models.Customer) []models.Insight {
	social := make([]models.MetricRecord, 0, len(metrics))
	for _, m := range metrics {
		if m.Platform.Social() {
			social = append(social, m)
		}
	}

	insights := []models.Insight{}
	for _, in := range []*models.Insight{
		s.CostEfficiency(social),
		s.SectorConversion(leads),
		s.EngagementLeader(social),
		s.LeadSources(leads),
		s.ProductPipeline(customers),
		s.TikTokTraffic(metrics),
		s.InstagramOrganic(metrics),
		s.TwitterBestWeek(metrics),
		s.SEOKeywords(metrics),
	} {
		if in != nil {
			insights = append(insights, *in)
		}
	}
	return insights
}

// CostEfficiency compares the cheapest and most expensive cost per lead.
// Fewer than two records yield no insight.
func (s *Scorer) CostEfficiency(records []models.MetricRecord) *models.Insight {
	if len(records) < 2 {
		return nil
	}

	sorted := make([]models.MetricRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CostPerLead < sorted[j].CostPerLead
	})
	best, worst := sorted[0], sorted[len(sorted)-1]

	improvement := Improvement(best.CostPerLead, worst.CostPerLead)

	return &models.Insight{
		ID:       IDCostEfficiency,
		Platform: string(best.Platform),
		Type:     models.CategoryPerformance,
		Title:    fmt.Sprintf("%s Paling Efisien", titleCase(string(best.Platform))),
		Description: fmt.Sprintf("Platform %s menghasilkan Cost Per Lead %s%% lebih rendah dibandingkan %s (%s vs %s).",
			best.Platform, percent(improvement, 1), worst.Platform, rupiah(best.CostPerLead), rupiah(worst.CostPerLead)),
		Priority:  priority(improvement, CostImprovementThreshold),
		CreatedAt: s.now(),
		Data: map[string]interface{}{
			"bestPlatform":  string(best.Platform),
			"worstPlatform": string(worst.Platform),
			"bestCost":      best.CostPerLead,
			"worstCost":     worst.CostPerLead,
			"improvement":   improvement,
		},
	}
}

// Improvement is the relative saving of best over worst, in percent.
// It is 0 when worst is 0.
func Improvement(best, worst float64) float64 {
	if worst == 0 {
		return 0
	}
	return (worst - best) / worst * 100
}

// SectorConversion finds the sector whose leads convert best.
func (s *Scorer) SectorConversion(leads []models.Lead) *models.Insight {
	groups := groupLeads(leads, func(l models.Lead) string { return l.Sector })
	if len(groups) == 0 {
		return nil
	}

	top := groups[0]
	for _, g := range groups[1:] {
		if g.rate() > top.rate() {
			top = g
		}
	}
	rate := top.rate()

	return &models.Insight{
		ID:       IDSectorConversion,
		Platform: "all",
		Type:     models.CategoryConversion,
		Title:    fmt.Sprintf("Sektor %s Dominasi Konversi", titleCase(top.key)),
		Description: fmt.Sprintf("Leads dari sektor %s menunjukkan tingkat konversi tertinggi %s%% dari %d leads.",
			top.key, percent(rate, 1), top.total),
		Priority:  priority(rate, SectorConversionThreshold),
		CreatedAt: s.now(),
		Data: map[string]interface{}{
			"sector":         top.key,
			"conversionRate": rate,
			"totalLeads":     top.total,
			"converted":      top.converted,
		},
	}
}

// EngagementLeader picks the record with the highest engagement per impression.
func (s *Scorer) EngagementLeader(records []models.MetricRecord) *models.Insight {
	if len(records) == 0 {
		return nil
	}

	best := records[0]
	for _, r := range records[1:] {
		if r.EngagementRatio() > best.EngagementRatio() {
			best = r
		}
	}
	rate := best.EngagementRatio() * 100

	return &models.Insight{
		ID:       IDEngagement,
		Platform: string(best.Platform),
		Type:     models.CategoryPerformance,
		Title:    fmt.Sprintf("%s Unggul dalam Engagement", titleCase(string(best.Platform))),
		Description: fmt.Sprintf("Platform %s mencatat engagement rate tertinggi %s%% dengan %s interaksi.",
			best.Platform, percent(rate, 2), count(best.Engagement)),
		Priority:  priority(rate, EngagementRateThreshold),
		CreatedAt: s.now(),
		Data: map[string]interface{}{
			"platform":        string(best.Platform),
			"engagementRate":  rate,
			"totalEngagement": best.Engagement,
		},
	}
}

// LeadSources reports the channel that produced the largest share of leads.
func (s *Scorer) LeadSources(leads []models.Lead) *models.Insight {
	groups := groupLeads(leads, func(l models.Lead) string { return string(l.Source) })
	if len(groups) == 0 {
		return nil
	}

	top := groups[0]
	for _, g := range groups[1:] {
		if g.total > top.total {
			top = g
		}
	}
	share := float64(top.total) / float64(len(leads)) * 100

	return &models.Insight{
		ID:       IDLeadSources,
		Platform: top.key,
		Type:     models.CategoryTrend,
		Title:    fmt.Sprintf("%s Sumber Lead Utama", titleCase(top.key)),
		Description: fmt.Sprintf("%s%% leads berasal dari %s dengan total %d leads dalam periode ini.",
			percent(share, 1), top.key, top.total),
		Priority:  priority(share, LeadSourceShareThreshold),
		CreatedAt: s.now(),
		Data: map[string]interface{}{
			"source":     top.key,
			"percentage": share,
			"count":      top.total,
		},
	}
}

// ProductPipeline finds the product carrying the most weighted pipeline
// across all customers. Customers without opportunities yield no insight.
func (s *Scorer) ProductPipeline(customers []models.Customer) *models.Insight {
	var (
		order  []models.Product
		totals = map[models.Product]float64{}
		deals  = map[models.Product]int{}
		sum    float64
	)
	for _, c := range customers {
		for _, o := range c.ProductOpportunities {
			if _, seen := totals[o.Product]; !seen {
				order = append(order, o.Product)
			}
			totals[o.Product] += o.Weighted()
			deals[o.Product]++
			sum += o.Weighted()
		}
	}
	if len(order) == 0 {
		return nil
	}

	top := order[0]
	for _, p := range order[1:] {
		if totals[p] > totals[top] {
			top = p
		}
	}
	var share float64
	if sum > 0 {
		share = totals[top] / sum * 100
	}

	return &models.Insight{
		ID:       IDProductPipeline,
		Platform: "all",
		Type:     models.CategoryConversion,
		Title:    fmt.Sprintf("%s Memimpin Pipeline", ProductLabel(top)),
		Description: fmt.Sprintf("%s menyumbang %s%% nilai pipeline tertimbang (%s dari %d peluang).",
			ProductLabel(top), percent(share, 1), rupiah(totals[top]), deals[top]),
		Priority:  priority(share, ProductShareThreshold),
		CreatedAt: s.now(),
		Data: map[string]interface{}{
			"product":       string(top),
			"weightedValue": totals[top],
			"share":         share,
			"opportunities": deals[top],
		},
	}
}

type leadGroup struct {
	key       string
	total     int
	converted int
}

func (g leadGroup) rate() float64 {
	if g.total == 0 {
		return 0
	}
	return float64(g.converted) / float64(g.total) * 100
}

// groupLeads buckets leads by key, keeping first-seen order.
func groupLeads(leads []models.Lead, key func(models.Lead) string) []leadGroup {
	index := map[string]int{}
	var groups []leadGroup
	for _, l := range leads {
		k := key(l)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, leadGroup{key: k})
		}
		groups[i].total++
		if l.IsConverted() {
			groups[i].converted++
		}
	}
	return groups
}

func priority(value, threshold float64) models.Priority {
	if value > threshold {
		return models.PriorityHigh
	}
	return models.PriorityMedium
}
