package analytics

import (
	"sort"

	"campaignhub/models"
)

// Summary is the set of headline numbers shown above the dashboard.
type Summary struct {
	TotalCustomers        int     `json:"totalCustomers"`
	ActiveCustomers       int     `json:"activeCustomers"`
	ProspectCustomers     int     `json:"prospectCustomers"`
	HighPriorityCustomers int     `json:"highPriorityCustomers"`
	PipelineValue         float64 `json:"pipelineValue"`
	OpportunityCount      int     `json:"opportunityCount"`

	PipelineByProduct []ProductShare `json:"pipelineByProduct,omitempty"`

	TotalCampaigns      int     `json:"totalCampaigns"`
	ActiveCampaigns     int     `json:"activeCampaigns"`
	TotalBudget         float64 `json:"totalBudget"`
	TotalSpent          float64 `json:"totalSpent"`
	CampaignLeads       int     `json:"campaignLeads"`
	CampaignConversions int     `json:"campaignConversions"`

	TotalLeads         int     `json:"totalLeads"`
	ConvertedLeads     int     `json:"convertedLeads"`
	LeadConversionRate float64 `json:"leadConversionRate"`
}

// ProductShare is the open pipeline for one catalogue product.
type ProductShare struct {
	Product       models.Product `json:"product"`
	Label         string         `json:"label"`
	Opportunities int            `json:"opportunities"`
	Value         float64        `json:"value"`
	Weighted      float64        `json:"weighted"`
}

// Summarize totals the three collections. Pipeline value is the sum of the
// stored per-customer totals.
func Summarize(customers []models.Customer, campaigns []models.Campaign, leads []models.Lead) Summary {
	var s Summary

	s.TotalCustomers = len(customers)
	for _, c := range customers {
		switch c.Status {
		case models.CustomerActive:
			s.ActiveCustomers++
		case models.CustomerProspect:
			s.ProspectCustomers++
		}
		if c.IsHighPriority() {
			s.HighPriorityCustomers++
		}
		s.PipelineValue += c.TotalOpportunityValue
		s.OpportunityCount += len(c.ProductOpportunities)
	}

	s.PipelineByProduct = pipelineByProduct(customers)

	s.TotalCampaigns = len(campaigns)
	for _, c := range campaigns {
		if c.Status == models.CampaignActive {
			s.ActiveCampaigns++
		}
		s.TotalBudget += c.Budget
		s.TotalSpent += c.Spent
		s.CampaignLeads += c.Leads
		s.CampaignConversions += c.Conversions
	}

	s.TotalLeads = len(leads)
	for _, l := range leads {
		if l.IsConverted() {
			s.ConvertedLeads++
		}
	}
	if s.TotalLeads > 0 {
		s.LeadConversionRate = float64(s.ConvertedLeads) / float64(s.TotalLeads) * 100
	}
	return s
}

// pipelineByProduct groups opportunities by product in catalogue order,
// leaving out products nobody is interested in.
func pipelineByProduct(customers []models.Customer) []ProductShare {
	shares := map[models.Product]*ProductShare{}
	for _, c := range customers {
		for _, o := range c.ProductOpportunities {
			ps, ok := shares[o.Product]
			if !ok {
				ps = &ProductShare{Product: o.Product, Label: ProductLabel(o.Product)}
				shares[o.Product] = ps
			}
			ps.Opportunities++
			ps.Value += o.Value
			ps.Weighted += o.Weighted()
		}
	}

	var out []ProductShare
	for _, p := range models.Products {
		if ps, ok := shares[p]; ok {
			out = append(out, *ps)
		}
	}
	return out
}

// Series is one line of a time series.
type Series struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// TimeSeries is a set of series sharing date labels.
type TimeSeries struct {
	Labels   []string `json:"labels"`
	Datasets []Series `json:"datasets"`
}

// MetricFields names the record fields Trend can chart.
var MetricFields = map[string]func(models.MetricRecord) float64{
	"impressions": func(m models.MetricRecord) float64 { return float64(m.Impressions) },
	"engagement":  func(m models.MetricRecord) float64 { return float64(m.Engagement) },
	"reach":       func(m models.MetricRecord) float64 { return float64(m.Reach) },
	"clicks":      func(m models.MetricRecord) float64 { return float64(m.Clicks) },
	"costPerLead": func(m models.MetricRecord) float64 { return m.CostPerLead },
}

// Trend lays out one metric per platform over the record dates in ascending
// order. A platform with no record for a date gets 0 there; several records on
// the same date are summed. Platforms appear in first-seen order.
func Trend(records []models.MetricRecord, field string) (TimeSeries, bool) {
	value, ok := MetricFields[field]
	if !ok {
		return TimeSeries{}, false
	}

	dates := make([]string, 0)
	seenDate := map[string]bool{}
	platforms := make([]models.Platform, 0)
	seenPlatform := map[models.Platform]bool{}
	for _, r := range records {
		if !seenDate[r.Date] {
			seenDate[r.Date] = true
			dates = append(dates, r.Date)
		}
		if !seenPlatform[r.Platform] {
			seenPlatform[r.Platform] = true
			platforms = append(platforms, r.Platform)
		}
	}
	sort.Strings(dates)

	index := make(map[string]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	ts := TimeSeries{Labels: dates, Datasets: make([]Series, 0, len(platforms))}
	for _, p := range platforms {
		data := make([]float64, len(dates))
		for _, r := range records {
			if r.Platform == p {
				data[index[r.Date]] += value(r)
			}
		}
		ts.Datasets = append(ts.Datasets, Series{Label: titleCase(string(p)), Data: data})
	}
	return ts, true
}
