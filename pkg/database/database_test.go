package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/faq"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestInstrument_ObservesQueries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	m := metrics.NewCollector("test", prometheus.NewRegistry())
	require.NoError(t, Instrument(db, m))

	mock.ExpectQuery(`SELECT \* FROM "clinical"."faq_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer"}))

	var entries []faq.Entry
	require.NoError(t, db.WithContext(context.Background()).Find(&entries).Error)

	assert.Equal(t, 1, testutil.CollectAndCount(m.DBQueryDuration))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModels_CoverEveryTable(t *testing.T) {
	assert.Len(t, Models(), 14)
}
