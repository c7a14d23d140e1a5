package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campaignhub/models"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormGetByID(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGorm[*models.Customer](db)
	ctx := context.Background()

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "company_name", "status", "total_opportunity_value", "created_at"}).
		AddRow("cust-1", "PT Bank Digital Indonesia", "active", 1357500, created)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" WHERE id = $1`)).
		WillReturnRows(rows)

	got, err := repo.GetByID(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "PT Bank Digital Indonesia", got.CompanyName)
	assert.Equal(t, models.CustomerActive, got.Status)
	assert.Equal(t, float64(1357500), got.TotalOpportunityValue)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSearchBuildsCaseInsensitiveLike(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGorm[*models.Customer](db)

	mock.ExpectQuery(regexp.QuoteMeta(`LOWER(company_name) LIKE $1 OR LOWER(contact_person) LIKE $2 OR LOWER(email) LIKE $3`)).
		WithArgs("%bank%", "%bank%", "%bank%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name"}).AddRow("cust-1", "PT Bank Digital Indonesia"))

	found, err := repo.Search(context.Background(), "Bank")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "cust-1", found[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSearchEscapesWildcards(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGorm[*models.Campaign](db)

	mock.ExpectQuery(regexp.QuoteMeta(`LOWER(name) LIKE $1`)).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	found, err := repo.Search(context.Background(), "50%")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDelete(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGorm[*models.Lead](db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "leads" WHERE id = $1`)).
		WithArgs("lead-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, "lead-1"))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "leads" WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
