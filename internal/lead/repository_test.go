package lead

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var completePayload = map[string]string{
	"Phone":             "555-0100",
	"Country":           "US",
	"Industry":          "Tech",
	"Annual Revenue":    "1M",
	"Employee Count":    "50",
	"Capability Needed": "X",
}

func newSQLiteRepository(t *testing.T) Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see a different :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo, err := NewGORMRepository(db)
	require.NoError(t, err)
	return repo
}

func repositories(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"gorm":   newSQLiteRepository(t),
	}
}

func TestRepository_AppendAndListFor(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			record, err := repo.Append(ctx, "u1", "jane@example.com", completePayload)
			require.NoError(t, err)
			assert.Equal(t, "u1", record.UserID)
			assert.Equal(t, "jane@example.com", record.UserEmail)
			assert.Equal(t, RecordID("u1", record.CreatedAt), record.ID)
			assert.Equal(t, "555-0100", record.Payload["Phone"])

			records, err := repo.ListFor(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, record.ID, records[0].ID)
		})
	}
}

func TestRepository_RepeatedSubmissionsAppend(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := repo.Append(ctx, "u1", "jane@example.com", completePayload)
			require.NoError(t, err)
			second, err := repo.Append(ctx, "u1", "jane@example.com", completePayload)
			require.NoError(t, err)

			// Resubmission creates a second record, never overwrites.
			assert.NotEqual(t, first.ID, second.ID)

			records, err := repo.ListFor(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.False(t, records[1].CreatedAt.Before(records[0].CreatedAt))
		})
	}
}

func TestRepository_ListForNeverLeaksOtherOwners(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.Append(ctx, "u1", "jane@example.com", completePayload)
			require.NoError(t, err)
			_, err = repo.Append(ctx, "u2", "john@example.com", completePayload)
			require.NoError(t, err)

			records, err := repo.ListFor(ctx, "u2")
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "u2", records[0].UserID)

			records, err = repo.ListFor(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestRepository_AppendCopiesPayload(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	payload := map[string]string{"Phone": "555-0100"}
	record, err := repo.Append(ctx, "u1", "", payload)
	require.NoError(t, err)

	payload["Phone"] = "mutated"
	assert.Equal(t, "555-0100", record.Payload["Phone"])

	records, err := repo.ListFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", records[0].Payload["Phone"])
}

func TestPayloadMap_RoundTripThroughSQL(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	_, err := repo.Append(ctx, "u1", "jane@example.com", completePayload)
	require.NoError(t, err)

	records, err := repo.ListFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, PayloadMap(completePayload), records[0].Payload)
}
