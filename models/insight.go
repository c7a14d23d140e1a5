package models

import "time"

type InsightCategory string

const (
	CategoryPerformance InsightCategory = "performance"
	CategoryTiming      InsightCategory = "timing"
	CategoryConversion  InsightCategory = "conversion"
	CategoryTrend       InsightCategory = "trend"
	CategoryTraffic     InsightCategory = "traffic"
	CategoryKeyword     InsightCategory = "keyword"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is a derived, human-readable finding. Insights are recomputed on
// demand and never stored.
type Insight struct {
	ID          string                 `json:"id"`
	Platform    string                 `json:"platform"`
	Type        InsightCategory        `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Priority    Priority               `json:"priority"`
	CreatedAt   time.Time              `json:"createdAt"`
	Data        map[string]interface{} `json:"data"`
	Period      *Period                `json:"period,omitempty"`
}

// Period is a reporting month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Before orders periods chronologically.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}
