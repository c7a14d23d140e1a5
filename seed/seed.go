// Package seed loads the bundled demo data set into every collection.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"campaignhub/models"
	"campaignhub/state"
	"campaignhub/store"
)

//go:embed demo.yaml
var demoYAML []byte

// PasswordCost is the bcrypt cost for demo passwords.
var PasswordCost = bcrypt.DefaultCost

const dateLayout = "2006-01-02"

type DataSet struct {
	Users     []User     `yaml:"users"`
	Campaigns []Campaign `yaml:"campaigns"`
	Customers []Customer `yaml:"customers"`
	Leads     []Lead     `yaml:"leads"`
	Metrics   []Metric   `yaml:"metrics"`
}

type User struct {
	ID       string      `yaml:"id"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Name     string      `yaml:"name"`
	Role     models.Role `yaml:"role"`
}

type Campaign struct {
	ID               string           `yaml:"id"`
	Name             string           `yaml:"name"`
	Platform         []string         `yaml:"platform"`
	StartDate        string           `yaml:"start_date"`
	EndDate          string           `yaml:"end_date"`
	Budget           float64          `yaml:"budget"`
	Spent            float64          `yaml:"spent"`
	Leads            int              `yaml:"leads"`
	Conversions      int              `yaml:"conversions"`
	Status           string           `yaml:"status"`
	TargetProducts   []models.Product `yaml:"target_products"`
	TargetIndustries []string         `yaml:"target_industries"`
}

type Opportunity struct {
	ID                string  `yaml:"id"`
	Product           string  `yaml:"product"`
	Status            string  `yaml:"status"`
	Value             float64 `yaml:"value"`
	Probability       float64 `yaml:"probability"`
	ExpectedCloseDate string  `yaml:"expected_close_date"`
	Notes             string  `yaml:"notes"`
}

type Customer struct {
	ID              string        `yaml:"id"`
	CompanyName     string        `yaml:"company_name"`
	ContactPerson   string        `yaml:"contact_person"`
	Email           string        `yaml:"email"`
	Phone           string        `yaml:"phone"`
	Industry        string        `yaml:"industry"`
	CompanySize     string        `yaml:"company_size"`
	Status          string        `yaml:"status"`
	LastInteraction string        `yaml:"last_interaction"`
	Notes           string        `yaml:"notes"`
	PriorityScore   int           `yaml:"priority_score"`
	Opportunities   []Opportunity `yaml:"opportunities"`
}

type Lead struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Company string `yaml:"company"`
	Source  string `yaml:"source"`
	Sector  string `yaml:"sector"`
	Status  string `yaml:"status"`
}

type Metric struct {
	ID          string  `yaml:"id"`
	Platform    string  `yaml:"platform"`
	Impressions int64   `yaml:"impressions"`
	Engagement  int64   `yaml:"engagement"`
	Reach       int64   `yaml:"reach"`
	Clicks      int64   `yaml:"clicks"`
	CostPerLead float64 `yaml:"cost_per_lead"`
	Date        string  `yaml:"date"`

	VideoViews         int64                `yaml:"video_views"`
	TrafficSources     map[string]int64     `yaml:"traffic_sources"`
	OrganicImpressions int64                `yaml:"organic_impressions"`
	AdsImpressions     int64                `yaml:"ads_impressions"`
	Weeks              []Week               `yaml:"weeks"`
	ActiveUsers        int64                `yaml:"active_users"`
	Keywords           []models.KeywordStat `yaml:"keywords"`
}

type Week struct {
	Number      int   `yaml:"number"`
	Posts       int   `yaml:"posts"`
	Impressions int64 `yaml:"impressions"`
	Engagement  int64 `yaml:"engagement"`
}

// Result counts what a migration wrote and what was already present.
type Result struct {
	Campaigns int `json:"campaigns"`
	Customers int `json:"customers"`
	Leads     int `json:"leads"`
	Analytics int `json:"analytics"`
	Users     int `json:"users"`
	Skipped   int `json:"skipped"`
}

// Demo parses the bundled data set.
func Demo() (*DataSet, error) {
	return Parse(demoYAML)
}

func Parse(data []byte) (*DataSet, error) {
	var ds DataSet
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse data set: %w", err)
	}
	return &ds, nil
}

// Migrate writes the data set into app. Records carry fixed ids, so running
// it again skips what is already stored instead of duplicating it.
func Migrate(ctx context.Context, app *state.App, ds *DataSet, log *logrus.Entry) (Result, error) {
	var res Result
	now := time.Now()

	log.Info("Starting data migration")

	for _, c := range ds.Campaigns {
		doc, err := c.toModel()
		if err != nil {
			return res, err
		}
		created, err := insert(ctx, app.Campaigns, doc, &res.Skipped)
		if err != nil {
			return res, fmt.Errorf("migrate campaign %s: %w", c.ID, err)
		}
		if created {
			res.Campaigns++
		}
	}
	log.WithField("count", res.Campaigns).Info("Migrated campaigns")

	for _, c := range ds.Customers {
		doc, err := c.toModel(now)
		if err != nil {
			return res, err
		}
		created, err := insert(ctx, app.Customers, doc, &res.Skipped)
		if err != nil {
			return res, fmt.Errorf("migrate customer %s: %w", c.ID, err)
		}
		if created {
			res.Customers++
		}
	}
	log.WithField("count", res.Customers).Info("Migrated customers")

	for _, l := range ds.Leads {
		created, err := insert(ctx, app.Leads, l.toModel(), &res.Skipped)
		if err != nil {
			return res, fmt.Errorf("migrate lead %s: %w", l.ID, err)
		}
		if created {
			res.Leads++
		}
	}
	log.WithField("count", res.Leads).Info("Migrated leads")

	for _, m := range ds.Metrics {
		created, err := insert(ctx, app.Metrics, m.toModel(), &res.Skipped)
		if err != nil {
			return res, fmt.Errorf("migrate analytics %s: %w", m.ID, err)
		}
		if created {
			res.Analytics++
		}
	}
	log.WithField("count", res.Analytics).Info("Migrated analytics")

	for _, u := range ds.Users {
		created, err := createUser(ctx, app, u)
		if err != nil {
			return res, fmt.Errorf("create user %s: %w", u.Email, err)
		}
		if created {
			res.Users++
		} else {
			res.Skipped++
		}
	}
	log.WithField("count", res.Users).Info("Created demo users")

	log.WithField("skipped", res.Skipped).Info("Data migration completed")
	return res, nil
}

// insert creates doc, treating an id that is already taken as already migrated.
func insert[T store.Document](ctx context.Context, coll *state.Collection[T], doc T, skipped *int) (bool, error) {
	_, err := coll.Create(ctx, doc)
	if errors.Is(err, store.ErrConflict) {
		*skipped++
		return false, nil
	}
	return err == nil, err
}

func createUser(ctx context.Context, app *state.App, u User) (bool, error) {
	if _, err := app.CredentialByEmail(ctx, u.Email); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), PasswordCost)
	if err != nil {
		return false, err
	}

	cred, err := app.Credentials.Create(ctx, &models.Credential{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: string(hash),
		Name:         u.Name,
	})
	if errors.Is(err, store.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	role := u.Role
	if !models.ValidRole(role) {
		role = models.RoleForEmail(u.Email)
	}
	_, err = app.Users.Create(ctx, &models.UserProfile{
		ID:         cred.ID,
		Email:      cred.Email,
		Name:       u.Name,
		Role:       role,
		Department: models.DefaultDepartment,
	})
	if errors.Is(err, store.ErrConflict) {
		return true, nil
	}
	return err == nil, err
}

func (c Campaign) toModel() (*models.Campaign, error) {
	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return nil, fmt.Errorf("campaign %s start date: %w", c.ID, err)
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return nil, fmt.Errorf("campaign %s end date: %w", c.ID, err)
	}
	return &models.Campaign{
		ID:               c.ID,
		Name:             c.Name,
		Platform:         c.Platform,
		StartDate:        start,
		EndDate:          end,
		Budget:           c.Budget,
		Spent:            c.Spent,
		Leads:            c.Leads,
		Conversions:      c.Conversions,
		Status:           models.CampaignStatus(c.Status),
		TargetProducts:   c.TargetProducts,
		TargetIndustries: c.TargetIndustries,
		CreatedBy:        "migration",
	}, nil
}

func (c Customer) toModel(now time.Time) (*models.Customer, error) {
	doc := &models.Customer{
		ID:            c.ID,
		CompanyName:   c.CompanyName,
		ContactPerson: c.ContactPerson,
		Email:         c.Email,
		Phone:         c.Phone,
		Industry:      c.Industry,
		CompanySize:   models.CompanySize(c.CompanySize),
		Status:        models.CustomerStatus(c.Status),
		Notes:         c.Notes,
		PriorityScore: c.PriorityScore,
	}
	if doc.PriorityScore == 0 {
		doc.PriorityScore = models.DefaultPriorityScore
	}
	if c.LastInteraction != "" {
		t, err := time.Parse(dateLayout, c.LastInteraction)
		if err != nil {
			return nil, fmt.Errorf("customer %s last interaction: %w", c.ID, err)
		}
		doc.LastInteraction = &t
	}
	for _, o := range c.Opportunities {
		doc.AddOpportunity(models.Opportunity{
			ID:                o.ID,
			Product:           models.Product(o.Product),
			Status:            models.OpportunityStatus(o.Status),
			Value:             o.Value,
			Probability:       o.Probability,
			ExpectedCloseDate: o.ExpectedCloseDate,
			Notes:             o.Notes,
		}, now)
	}
	return doc, nil
}

func (l Lead) toModel() *models.Lead {
	return &models.Lead{
		ID:      l.ID,
		Name:    l.Name,
		Email:   l.Email,
		Phone:   l.Phone,
		Company: l.Company,
		Source:  models.LeadSource(l.Source),
		Sector:  l.Sector,
		Status:  models.LeadStatus(l.Status),
	}
}

func (m Metric) toModel() *models.MetricRecord {
	return &models.MetricRecord{
		ID:          m.ID,
		Platform:    models.Platform(m.Platform),
		Impressions: m.Impressions,
		Engagement:  m.Engagement,
		Reach:       m.Reach,
		Clicks:      m.Clicks,
		CostPerLead: m.CostPerLead,
		Date:        m.Date,

		VideoViews:         m.VideoViews,
		TrafficSources:     m.TrafficSources,
		OrganicImpressions: m.OrganicImpressions,
		AdsImpressions:     m.AdsImpressions,
		Weeks:              weeks(m.Weeks),
		ActiveUsers:        m.ActiveUsers,
		Keywords:           m.Keywords,
	}
}

func weeks(in []Week) []models.WeeklyStat {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.WeeklyStat, len(in))
	for i, w := range in {
		out[i] = models.WeeklyStat{WeekNumber: w.Number, Posts: w.Posts, Impressions: w.Impressions, Engagement: w.Engagement}
	}
	return out
}
