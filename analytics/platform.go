package analytics

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"campaignhub/models"
)

// TrafficShareThreshold is the share of TikTok views above which a single
// traffic source is reported as high priority.
const TrafficShareThreshold = 40.0

// TopKeywords caps the keywords carried by the search insight.
const TopKeywords = 5

const (
	IDTikTokTraffic    = "tiktok-traffic"
	IDInstagramOrganic = "instagram-organic"
	IDTwitterWeekly    = "twitter-weekly"
	IDSEOKeywords      = "seo-keywords"
)

var trafficSourceLabels = map[string]string{
	"search":          "pencarian",
	"personalProfile": "profil personal",
	"fyp":             "For You Page",
	"following":       "following feed",
	"sound":           "sound/audio",
}

// TrafficSourceLabel is the display name of a TikTok traffic source key.
func TrafficSourceLabel(key string) string {
	if label, ok := trafficSourceLabels[key]; ok {
		return label
	}
	return key
}

// Latest returns the newest record for platform by reporting period, then by
// creation time. ok is false when the platform has no records.
func Latest(records []models.MetricRecord, platform models.Platform) (latest models.MetricRecord, ok bool) {
	for _, r := range records {
		if r.Platform != platform {
			continue
		}
		if !ok || newer(r, latest) {
			latest, ok = r, true
		}
	}
	return latest, ok
}

func newer(a, b models.MetricRecord) bool {
	pa, pb := a.Period(), b.Period()
	if pa != pb {
		return pb.Before(pa)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// TikTokTraffic reports which traffic source brought the most video views in
// the latest TikTok period.
func (s *Scorer) TikTokTraffic(records []models.MetricRecord) *models.Insight {
	latest, ok := Latest(records, models.PlatformTikTok)
	if !ok || latest.VideoViews <= 0 || len(latest.TrafficSources) == 0 {
		return nil
	}

	keys := make([]string, 0, len(latest.TrafficSources))
	for k := range latest.TrafficSources {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		vi, vj := latest.TrafficSources[keys[i]], latest.TrafficSources[keys[j]]
		if vi != vj {
			return vi > vj
		}
		return keys[i] < keys[j]
	})
	top := keys[0]
	views := latest.TrafficSources[top]
	share := float64(views) / float64(latest.VideoViews) * 100
	label := TrafficSourceLabel(top)

	return &models.Insight{
		ID:       IDTikTokTraffic,
		Platform: string(models.PlatformTikTok),
		Type:     models.CategoryTraffic,
		Title:    fmt.Sprintf("%s Dominasi Traffic TikTok", upperFirst(top)),
		Description: fmt.Sprintf("%s%% video views berasal dari %s dengan %s views. Optimasi konten untuk %s dapat meningkatkan jangkauan.",
			percent(share, 1), label, count(views), label),
		Priority:  priority(share, TrafficShareThreshold),
		CreatedAt: s.now(),
		Period:    period(latest),
		Data: map[string]interface{}{
			"topSource":  top,
			"percentage": share,
			"views":      views,
		},
	}
}

// InstagramOrganic compares organic and paid impressions in the latest
// Instagram period.
func (s *Scorer) InstagramOrganic(records []models.MetricRecord) *models.Insight {
	latest, ok := Latest(records, models.PlatformInstagram)
	if !ok || latest.OrganicImpressions+latest.AdsImpressions == 0 {
		return nil
	}

	return &models.Insight{
		ID:       IDInstagramOrganic,
		Platform: string(models.PlatformInstagram),
		Type:     models.CategoryPerformance,
		Title:    "Organic Content Performance",
		Description: fmt.Sprintf("Konten organik menghasilkan %s impressions vs ads %s impressions.",
			count(latest.OrganicImpressions), count(latest.AdsImpressions)),
		Priority:  models.PriorityMedium,
		CreatedAt: s.now(),
		Period:    period(latest),
		Data: map[string]interface{}{
			"organicImpressions": latest.OrganicImpressions,
			"adsImpressions":     latest.AdsImpressions,
		},
	}
}

// TwitterBestWeek finds the week with the most impressions per post in the
// latest Twitter period. Earlier weeks win ties.
func (s *Scorer) TwitterBestWeek(records []models.MetricRecord) *models.Insight {
	latest, ok := Latest(records, models.PlatformTwitter)
	if !ok || len(latest.Weeks) == 0 {
		return nil
	}

	best := latest.Weeks[0]
	for _, w := range latest.Weeks[1:] {
		if w.ImpressionsPerPost() > best.ImpressionsPerPost() {
			best = w
		}
	}
	avg := int64(math.Round(best.ImpressionsPerPost()))

	return &models.Insight{
		ID:       IDTwitterWeekly,
		Platform: string(models.PlatformTwitter),
		Type:     models.CategoryPerformance,
		Title:    fmt.Sprintf("Week %d Mencatat Performa Terbaik", best.WeekNumber),
		Description: fmt.Sprintf("Minggu ke-%d menghasilkan rata-rata %s impressions per post.",
			best.WeekNumber, count(avg)),
		Priority:  models.PriorityHigh,
		CreatedAt: s.now(),
		Period:    period(latest),
		Data: map[string]interface{}{
			"weekNumber":            best.WeekNumber,
			"avgImpressionsPerPost": avg,
		},
	}
}

// SEOKeywords reports website reach and the best keywords by clicks for the
// latest search period.
func (s *Scorer) SEOKeywords(records []models.MetricRecord) *models.Insight {
	latest, ok := Latest(records, models.PlatformSEO)
	if !ok || (latest.ActiveUsers == 0 && len(latest.Keywords) == 0) {
		return nil
	}

	keywords := make([]models.KeywordStat, len(latest.Keywords))
	copy(keywords, latest.Keywords)
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Clicks > keywords[j].Clicks
	})
	if len(keywords) > TopKeywords {
		keywords = keywords[:TopKeywords]
	}

	return &models.Insight{
		ID:          IDSEOKeywords,
		Platform:    string(models.PlatformSEO),
		Type:        models.CategoryKeyword,
		Title:       "Top Keywords Performance",
		Description: fmt.Sprintf("Website mencatat %s active users dengan performa keyword yang baik.", count(latest.ActiveUsers)),
		Priority:    models.PriorityHigh,
		CreatedAt:   s.now(),
		Period:      period(latest),
		Data: map[string]interface{}{
			"activeUsers": latest.ActiveUsers,
			"topKeywords": keywords,
		},
	}
}

func period(r models.MetricRecord) *models.Period {
	p := r.Period()
	return &p
}

// upperFirst capitalises the first letter and keeps the rest as written.
func upperFirst(s string) string {
	return cases.Title(language.Indonesian, cases.NoLower).String(s)
}
