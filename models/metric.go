package models

import (
	"time"
)

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
	PlatformSEO       Platform = "seo"
)

// Social reports whether the platform is a social channel with paid leads.
// Search traffic is tracked alongside but has no cost per lead.
func (p Platform) Social() bool {
	return p != PlatformSEO
}

// MetricRecord holds one platform's social-media numbers for one period.
// Stored in the analytics collection.
type MetricRecord struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	Platform    Platform  `gorm:"not null;index" json:"platform" bson:"platform"`
	Impressions int64     `json:"impressions" bson:"impressions"`
	Engagement  int64     `json:"engagement" bson:"engagement"`
	Reach       int64     `json:"reach" bson:"reach"`
	Clicks      int64     `json:"clicks" bson:"clicks"`
	CostPerLead float64   `json:"costPerLead" bson:"costPerLead"`
	Date        string    `gorm:"index" json:"date" bson:"date"`
	Month       int       `gorm:"index:idx_analytics_period" json:"month" bson:"month"`
	Year        int       `gorm:"index:idx_analytics_period" json:"year" bson:"year"`

	// Platform-specific detail; only the fields of the record's platform are set.
	VideoViews         int64            `json:"videoViews,omitempty" bson:"videoViews,omitempty"`
	TrafficSources     map[string]int64 `gorm:"type:jsonb;serializer:json" json:"trafficSources,omitempty" bson:"trafficSources,omitempty"`
	OrganicImpressions int64            `json:"organicImpressions,omitempty" bson:"organicImpressions,omitempty"`
	AdsImpressions     int64            `json:"adsImpressions,omitempty" bson:"adsImpressions,omitempty"`
	Weeks              []WeeklyStat     `gorm:"type:jsonb;serializer:json" json:"weeks,omitempty" bson:"weeks,omitempty"`
	ActiveUsers        int64            `json:"activeUsers,omitempty" bson:"activeUsers,omitempty"`
	Keywords           []KeywordStat    `gorm:"type:jsonb;serializer:json" json:"keywords,omitempty" bson:"keywords,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// WeeklyStat is one week of a monthly Twitter report.
type WeeklyStat struct {
	WeekNumber  int   `json:"weekNumber" bson:"weekNumber" validate:"gte=1,lte=6"`
	Posts       int   `json:"postsCount" bson:"postsCount" validate:"gte=0"`
	Impressions int64 `json:"impressions" bson:"impressions" validate:"gte=0"`
	Engagement  int64 `json:"engagement" bson:"engagement" validate:"gte=0"`
}

// ImpressionsPerPost is 0 for a week without posts.
func (w WeeklyStat) ImpressionsPerPost() float64 {
	if w.Posts == 0 {
		return 0
	}
	return float64(w.Impressions) / float64(w.Posts)
}

// KeywordStat is one search keyword's performance.
type KeywordStat struct {
	Keyword     string  `json:"keyword" bson:"keyword" validate:"required"`
	Clicks      int64   `json:"clicks" bson:"clicks" validate:"gte=0"`
	Impressions int64   `json:"impressions" bson:"impressions" validate:"gte=0"`
	CTR         float64 `json:"ctr" bson:"ctr" validate:"gte=0"`
	Position    float64 `json:"position" bson:"position" validate:"gte=0"`
}

func (MetricRecord) TableName() string { return "analytics" }

func (m *MetricRecord) GetID() string   { return m.ID }
func (m *MetricRecord) SetID(id string) { m.ID = id }

func (m *MetricRecord) Created() time.Time      { return m.CreatedAt }
func (m *MetricRecord) SetCreated(at time.Time) { m.CreatedAt = at }

// Touch stamps the record and derives its reporting period from Date.
func (m *MetricRecord) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	if d, err := time.Parse("2006-01-02", m.Date); err == nil {
		m.Month, m.Year = int(d.Month()), d.Year()
	}
}

// Period is the reporting month of the record.
func (m MetricRecord) Period() Period {
	return Period{Month: m.Month, Year: m.Year}
}

func (m *MetricRecord) SearchFields() map[string]string {
	return map[string]string{"platform": string(m.Platform)}
}

// EngagementRatio is engagement divided by impressions, 0 without impressions.
func (m MetricRecord) EngagementRatio() float64 {
	if m.Impressions == 0 {
		return 0
	}
	return float64(m.Engagement) / float64(m.Impressions)
}
