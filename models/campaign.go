package models

import (
	"time"
)

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// Campaign represents a paid marketing campaign across one or more platforms
type Campaign struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	Name      string    `gorm:"not null" json:"name" bson:"name"`
	Platform  []string  `gorm:"type:jsonb;serializer:json" json:"platform" bson:"platform"`
	StartDate time.Time `json:"startDate" bson:"startDate"`
	EndDate   time.Time `json:"endDate" bson:"endDate"`

	// Spend and results. Spent may exceed Budget.
	Budget      float64 `json:"budget" bson:"budget"`
	Spent       float64 `gorm:"default:0" json:"spent" bson:"spent"`
	Leads       int     `gorm:"default:0" json:"leads" bson:"leads"`
	Conversions int     `gorm:"default:0" json:"conversions" bson:"conversions"`

	Status           CampaignStatus `gorm:"default:'active';index" json:"status" bson:"status"`
	TargetProducts   []Product      `gorm:"type:jsonb;serializer:json" json:"targetProducts" bson:"targetProducts"`
	TargetIndustries []string       `gorm:"type:jsonb;serializer:json" json:"targetIndustries" bson:"targetIndustries"`
	Description      string         `json:"description,omitempty" bson:"description,omitempty"`
	CreatedBy        string         `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (Campaign) TableName() string { return "campaigns" }

func (c *Campaign) GetID() string   { return c.ID }
func (c *Campaign) SetID(id string) { c.ID = id }

func (c *Campaign) Created() time.Time      { return c.CreatedAt }
func (c *Campaign) SetCreated(at time.Time) { c.CreatedAt = at }

func (c *Campaign) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.TargetIndustries == nil {
		c.TargetIndustries = []string{}
	}
}

func (c *Campaign) SearchFields() map[string]string {
	return map[string]string{"name": c.Name}
}

// HasPlatform reports whether the campaign runs on platform.
func (c *Campaign) HasPlatform(platform string) bool {
	for _, p := range c.Platform {
		if p == platform {
			return true
		}
	}
	return false
}

// ConversionRate is conversions per lead as a percentage.
func (c *Campaign) ConversionRate() float64 {
	if c.Leads == 0 {
		return 0
	}
	return float64(c.Conversions) / float64(c.Leads) * 100
}

// CostPerLead is spent divided by leads, 0 when there are no leads.
func (c *Campaign) CostPerLead() float64 {
	if c.Leads == 0 {
		return 0
	}
	return c.Spent / float64(c.Leads)
}
