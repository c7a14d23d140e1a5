package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignhub/models"
)

type tick struct{ t time.Time }

func (c *tick) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newCustomerStore() *Memory[*models.Customer] {
	clock := &tick{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewMemory[*models.Customer]().WithClock(clock.now)
}

func TestMemoryCreateAssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerStore()

	created, err := repo.Create(ctx, &models.Customer{
		CompanyName:          "PT Bank Digital Indonesia",
		ProductOpportunities: []models.Opportunity{{Value: 850000, Probability: 75}, {Value: 1200000, Probability: 60}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, float64(1357500), created.TotalOpportunityValue)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "PT Bank Digital Indonesia", got.CompanyName)
	assert.Equal(t, float64(1357500), got.TotalOpportunityValue)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerStore()

	doc := &models.Customer{CompanyName: "Original"}
	created, err := repo.Create(ctx, doc)
	require.NoError(t, err)

	doc.CompanyName = "Mutated after create"
	created.CompanyName = "Mutated result"

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.CompanyName)
}

func TestMemoryGetAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerStore()

	for _, name := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, &models.Customer{CompanyName: name})
		require.NoError(t, err)
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].CompanyName)
	assert.Equal(t, "first", all[2].CompanyName)
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerStore()

	created, err := repo.Create(ctx, &models.Customer{CompanyName: "Before"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, &models.Customer{ID: created.ID, CompanyName: "After"})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.CompanyName)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "creation time survives an update")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = repo.Update(ctx, &models.Customer{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCreateConflict(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerStore()

	_, err := repo.Create(ctx, &models.Customer{ID: "fixed"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Customer{ID: "fixed"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerStore()

	created, err := repo.Create(ctx, &models.Customer{CompanyName: "Gone"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)
	assert.Equal(t, 0, repo.Len())
}

func TestMemorySearch(t *testing.T) {
	ctx := context.Background()
	repo := newCustomerStore()

	for _, c := range []*models.Customer{
		{CompanyName: "PT Bank Digital Indonesia", ContactPerson: "Sari"},
		{CompanyName: "CV Maju", ContactPerson: "Budi", Email: "budi@bank.co.id"},
		{CompanyName: "Dinas Kominfo", ContactPerson: "Rina"},
	} {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	found, err := repo.Search(ctx, "BANK")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "CV Maju", found[0].CompanyName)

	none, err := repo.Search(ctx, "xyz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := newCustomerStore()
	_, err := repo.GetAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.Create(ctx, &models.Customer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryUserProfileKeepsUID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory[*models.UserProfile]()

	_, err := repo.Create(ctx, &models.UserProfile{ID: "uid-1", Email: "admin@dico.co.id", Role: models.RoleAdmin})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestForSelectsBackend(t *testing.T) {
	assert.IsType(t, &Memory[*models.Lead]{}, For[*models.Lead](Backend{Driver: DriverMemory}))
	assert.NoError(t, Backend{}.Validate())
	assert.Error(t, Backend{Driver: DriverPostgres}.Validate())
	assert.Error(t, Backend{Driver: DriverMongo}.Validate())
	assert.Error(t, Backend{Driver: "cassandra"}.Validate())
}
