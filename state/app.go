package state

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"campaignhub/models"
	"campaignhub/store"
)

// App groups the collections the service works with. Each collection is
// independent; there are no cross-collection transactions.
type App struct {
	Customers   *Collection[*models.Customer]
	Campaigns   *Collection[*models.Campaign]
	Leads       *Collection[*models.Lead]
	Metrics     *Collection[*models.MetricRecord]
	Users       *Collection[*models.UserProfile]
	Credentials *Collection[*models.Credential]
}

func NewApp(b store.Backend, log *logrus.Entry) (*App, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &App{
		Customers:   NewCollection("customers", store.For[*models.Customer](b), log),
		Campaigns:   NewCollection("campaigns", store.For[*models.Campaign](b), log),
		Leads:       NewCollection("leads", store.For[*models.Lead](b), log),
		Metrics:     NewCollection("analytics", store.For[*models.MetricRecord](b), log),
		Users:       NewCollection("users", store.For[*models.UserProfile](b), log),
		Credentials: NewCollection("credentials", store.For[*models.Credential](b), log),
	}, nil
}

// NewMemoryApp is an App backed entirely by in-process stores.
func NewMemoryApp(log *logrus.Entry) *App {
	app, _ := NewApp(store.Backend{Driver: store.DriverMemory}, log)
	return app
}

// OnChange registers l on every collection.
func (a *App) OnChange(l Listener) {
	a.Customers.OnChange(l)
	a.Campaigns.OnChange(l)
	a.Leads.OnChange(l)
	a.Metrics.OnChange(l)
	a.Users.OnChange(l)
}

// LoadAll warms every cache. It stops at the first failure.
func (a *App) LoadAll(ctx context.Context) error {
	loaders := []struct {
		name string
		load func(context.Context) error
	}{
		{"customers", func(ctx context.Context) error { _, err := a.Customers.Load(ctx); return err }},
		{"campaigns", func(ctx context.Context) error { _, err := a.Campaigns.Load(ctx); return err }},
		{"leads", func(ctx context.Context) error { _, err := a.Leads.Load(ctx); return err }},
		{"analytics", func(ctx context.Context) error { _, err := a.Metrics.Load(ctx); return err }},
		{"users", func(ctx context.Context) error { _, err := a.Users.Load(ctx); return err }},
	}
	for _, l := range loaders {
		if err := l.load(ctx); err != nil {
			return fmt.Errorf("load %s: %w", l.name, err)
		}
	}
	return nil
}

// CredentialByEmail finds the credential for an address. The repository
// search narrows candidates; only an exact match counts.
func (a *App) CredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	email = models.NormalizeEmail(email)
	candidates, err := a.Credentials.Repo().Search(ctx, email)
	if err != nil {
		return nil, err
	}
	for _, cred := range candidates {
		if cred.Email == email {
			return cred, nil
		}
	}
	return nil, fmt.Errorf("credential %q: %w", email, store.ErrNotFound)
}
