package models

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var ErrOpportunityNotFound = errors.New("opportunity not found")

type CustomerStatus string

const (
	CustomerProspect CustomerStatus = "prospect"
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
)

type CompanySize string

const (
	CompanySmall      CompanySize = "small"
	CompanyMedium     CompanySize = "medium"
	CompanyLarge      CompanySize = "large"
	CompanyEnterprise CompanySize = "enterprise"
)

type Product string

const (
	ProductMeteraiElektronik Product = "meterai_elektronik"
	ProductDigitalSolution   Product = "digital_solution"
	ProductSmartCard         Product = "smart_card"
	ProductGraphAnalytic     Product = "graph_analytic"
	ProductDigitalProduct    Product = "digital_product"
)

// Products lists the catalogue in display order.
var Products = []Product{
	ProductMeteraiElektronik,
	ProductDigitalSolution,
	ProductSmartCard,
	ProductGraphAnalytic,
	ProductDigitalProduct,
}

type OpportunityStatus string

const (
	OpportunityInterested   OpportunityStatus = "interested"
	OpportunityProposalSent OpportunityStatus = "proposal_sent"
	OpportunityNegotiation  OpportunityStatus = "negotiation"
	OpportunityClosedWon    OpportunityStatus = "closed_won"
	OpportunityClosedLost   OpportunityStatus = "closed_lost"
)

// DefaultPriorityScore is applied to new customers that do not carry one.
const DefaultPriorityScore = 5

// HighPriorityScore is the lowest score treated as high priority.
const HighPriorityScore = 8

// Opportunity is a potential sale of one product to one customer.
type Opportunity struct {
	ID                string            `json:"id" bson:"id"`
	Product           Product           `json:"product" bson:"product"`
	Status            OpportunityStatus `json:"status" bson:"status"`
	Value             float64           `json:"value" bson:"value"`
	Probability       float64           `json:"probability" bson:"probability"`
	ExpectedCloseDate string            `json:"expectedCloseDate,omitempty" bson:"expectedCloseDate,omitempty"`
	Notes             string            `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt         time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Weighted returns value scaled by probability.
func (o Opportunity) Weighted() float64 {
	return o.Value * o.Probability / 100
}

// PipelineValue is the probability-weighted sum of opportunities, rounded to
// the nearest whole currency unit. An empty pipeline is worth 0.
func PipelineValue(opps []Opportunity) float64 {
	var total float64
	for _, o := range opps {
		total += o.Weighted()
	}
	return math.Round(total)
}

// Customer represents a B2B account and its product pipeline
type Customer struct {
	ID                    string         `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	CompanyName           string         `gorm:"not null;index" json:"companyName" bson:"companyName"`
	ContactPerson         string         `gorm:"not null" json:"contactPerson" bson:"contactPerson"`
	Email                 string         `gorm:"not null" json:"email" bson:"email"`
	Phone                 string         `json:"phone" bson:"phone"`
	Industry              string         `gorm:"index" json:"industry" bson:"industry"`
	CompanySize           CompanySize    `json:"companySize,omitempty" bson:"companySize,omitempty"`
	Status                CustomerStatus `gorm:"default:'prospect';index" json:"status" bson:"status"`
	LastInteraction       *time.Time     `json:"lastInteraction,omitempty" bson:"lastInteraction,omitempty"`
	Notes                 string         `json:"notes,omitempty" bson:"notes,omitempty"`
	ProductOpportunities  []Opportunity  `gorm:"type:jsonb;serializer:json" json:"productOpportunities" bson:"productOpportunities"`
	TotalOpportunityValue float64        `json:"totalOpportunityValue" bson:"totalOpportunityValue"`
	PriorityScore         int            `gorm:"default:5" json:"priorityScore" bson:"priorityScore"`
	AssignedTo            string         `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	Source                string         `json:"source,omitempty" bson:"source,omitempty"`
	CreatedAt             time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt" bson:"updatedAt"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) GetID() string   { return c.ID }
func (c *Customer) SetID(id string) { c.ID = id }

func (c *Customer) Created() time.Time      { return c.CreatedAt }
func (c *Customer) SetCreated(at time.Time) { c.CreatedAt = at }

// Touch stamps timestamps and re-derives the pipeline total so a stored
// customer never carries a stale value.
func (c *Customer) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.ProductOpportunities == nil {
		c.ProductOpportunities = []Opportunity{}
	}
	c.Recalculate()
}

func (c *Customer) SearchFields() map[string]string {
	return map[string]string{
		"companyName":   c.CompanyName,
		"contactPerson": c.ContactPerson,
		"email":         c.Email,
	}
}

// Recalculate refreshes TotalOpportunityValue from the current opportunities.
func (c *Customer) Recalculate() {
	c.TotalOpportunityValue = PipelineValue(c.ProductOpportunities)
}

// IsHighPriority reports whether the customer's score reaches the high band.
func (c *Customer) IsHighPriority() bool {
	return c.PriorityScore >= HighPriorityScore
}

// HasProduct reports whether any opportunity targets p.
func (c *Customer) HasProduct(p Product) bool {
	for _, o := range c.ProductOpportunities {
		if o.Product == p {
			return true
		}
	}
	return false
}

// AddOpportunity appends o, assigning an id when missing.
func (c *Customer) AddOpportunity(o Opportunity, now time.Time) Opportunity {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	c.ProductOpportunities = append(c.ProductOpportunities, o)
	c.Recalculate()
	return o
}

// UpdateOpportunity replaces the opportunity with the given id in place.
func (c *Customer) UpdateOpportunity(id string, o Opportunity, now time.Time) (Opportunity, error) {
	for i := range c.ProductOpportunities {
		if c.ProductOpportunities[i].ID != id {
			continue
		}
		o.ID = id
		o.CreatedAt = c.ProductOpportunities[i].CreatedAt
		o.UpdatedAt = now
		c.ProductOpportunities[i] = o
		c.Recalculate()
		return o, nil
	}
	return Opportunity{}, ErrOpportunityNotFound
}

// RemoveOpportunity deletes the opportunity with the given id, keeping order.
func (c *Customer) RemoveOpportunity(id string) error {
	for i := range c.ProductOpportunities {
		if c.ProductOpportunities[i].ID == id {
			c.ProductOpportunities = append(c.ProductOpportunities[:i:i], c.ProductOpportunities[i+1:]...)
			c.Recalculate()
			return nil
		}
	}
	return ErrOpportunityNotFound
}
