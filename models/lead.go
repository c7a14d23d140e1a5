package models

import (
	"time"
)

type LeadSource string

const (
	SourceInstagram LeadSource = "instagram"
	SourceLinkedIn  LeadSource = "linkedin"
	SourceTikTok    LeadSource = "tiktok"
	SourceTwitter   LeadSource = "twitter"
	SourceZohoForm  LeadSource = "zoho_form"
	SourceWebsite   LeadSource = "website"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// Lead represents an inbound prospect captured from a channel
type Lead struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	Name        string     `gorm:"not null" json:"name" bson:"name"`
	Email       string     `gorm:"index" json:"email" bson:"email"`
	Phone       string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Company     string     `json:"company,omitempty" bson:"company,omitempty"`
	Source      LeadSource `gorm:"index" json:"source" bson:"source"`
	Sector      string     `gorm:"index" json:"sector" bson:"sector"`
	Status      LeadStatus `gorm:"default:'new';index" json:"status" bson:"status"`
	ConvertedAt *time.Time `json:"convertedAt,omitempty" bson:"convertedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) GetID() string   { return l.ID }
func (l *Lead) SetID(id string) { l.ID = id }

func (l *Lead) Created() time.Time      { return l.CreatedAt }
func (l *Lead) SetCreated(at time.Time) { l.CreatedAt = at }

// Touch stamps timestamps and records the first conversion time.
func (l *Lead) Touch(now time.Time) {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	if l.Status == LeadConverted && l.ConvertedAt == nil {
		t := now
		l.ConvertedAt = &t
	}
}

func (l *Lead) SearchFields() map[string]string {
	return map[string]string{
		"name":    l.Name,
		"email":   l.Email,
		"company": l.Company,
	}
}

func (l *Lead) IsConverted() bool {
	return l.Status == LeadConverted
}
