// Package search filters entity lists for the CRUD list views.
//
// Every filter ANDs its active predicates, matches free text as a
// case-insensitive substring, and keeps the input order. An empty value or
// "all" leaves a predicate inactive.
package search

import (
	"strings"

	"campaignhub/models"
)

// All is the sentinel the console sends for "no filter".
const All = "all"

type CustomerFilter struct {
	Search  string `query:"search"`
	Status  string `query:"status"`
	Product string `query:"product"`
}

type CampaignFilter struct {
	Search   string `query:"search"`
	Status   string `query:"status"`
	Platform string `query:"platform"`
}

// MetricFilter narrows analytics records to a platform and reporting period.
// A zero month or year leaves that predicate inactive.
type MetricFilter struct {
	Platform string `query:"platform"`
	Month    int    `query:"month" validate:"gte=0,lte=12"`
	Year     int    `query:"year" validate:"gte=0"`
}

type LeadFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
	Source string `query:"source"`
	Sector string `query:"sector"`
}

// Customers matches search against company name, contact person and email,
// and product against any opportunity's product.
func Customers(list []models.Customer, f CustomerFilter) []models.Customer {
	return filter(list, func(c models.Customer) bool {
		return Contains(f.Search, c.CompanyName, c.ContactPerson, c.Email) &&
			Equal(f.Status, string(c.Status)) &&
			(!Active(f.Product) || c.HasProduct(models.Product(f.Product)))
	})
}

// Campaigns matches search against the campaign name.
func Campaigns(list []models.Campaign, f CampaignFilter) []models.Campaign {
	return filter(list, func(c models.Campaign) bool {
		return Contains(f.Search, c.Name) &&
			Equal(f.Status, string(c.Status)) &&
			(!Active(f.Platform) || c.HasPlatform(f.Platform))
	})
}

// Leads matches search against name, email and company.
func Leads(list []models.Lead, f LeadFilter) []models.Lead {
	return filter(list, func(l models.Lead) bool {
		return Contains(f.Search, l.Name, l.Email, l.Company) &&
			Equal(f.Status, string(l.Status)) &&
			Equal(f.Source, string(l.Source)) &&
			Equal(f.Sector, l.Sector)
	})
}

// Metrics keeps records matching platform, month and year.
func Metrics(list []models.MetricRecord, f MetricFilter) []models.MetricRecord {
	return filter(list, func(m models.MetricRecord) bool {
		return Equal(f.Platform, string(m.Platform)) &&
			(f.Month == 0 || m.Month == f.Month) &&
			(f.Year == 0 || m.Year == f.Year)
	})
}

// Active reports whether a predicate value should be applied.
func Active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, All)
}

// Contains reports whether term occurs in any field, ignoring case.
// An empty term matches everything.
func Contains(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Equal is an exact-match predicate that passes when inactive.
func Equal(want, got string) bool {
	if !Active(want) {
		return true
	}
	return strings.TrimSpace(want) == got
}

func filter[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
