// File: internal/lead/repository.go
package lead

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Repository is the append-only store of submitted lead records. Append
// never overwrites an existing record; a repeated submission by the same
// owner creates another record. ListFor returns only the owner's records,
// oldest first, regardless of anything the caller supplies.
type Repository interface {
	Append(ctx context.Context, ownerID, ownerEmail string, payload map[string]string) (*LeadRecord, error)
	ListFor(ctx context.Context, ownerID string) ([]LeadRecord, error)
}

// appendIDRetries bounds the timestamp bump when two submissions for one
// owner land in the same millisecond.
const appendIDRetries = 3

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a GORM-backed lead repository and migrates the
// leads table.
func NewGORMRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&LeadRecord{}); err != nil {
		return nil, err
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Append(ctx context.Context, ownerID, ownerEmail string, payload map[string]string) (*LeadRecord, error) {
	createdAt := time.Now().UTC()
	var lastErr error
	for i := 0; i < appendIDRetries; i++ {
		record := newRecord(ownerID, ownerEmail, payload, createdAt)
		err := r.db.WithContext(ctx).Create(record).Error
		if err == nil {
			return record, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			createdAt = createdAt.Add(time.Millisecond)
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (r *gormRepository) ListFor(ctx context.Context, ownerID string) ([]LeadRecord, error) {
	var records []LeadRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// memoryRepository is the process-wide list the original backend kept,
// hidden behind the same contract so a durable store can replace it without
// touching the workflow.
type memoryRepository struct {
	mu      sync.RWMutex
	records []LeadRecord
	byID    map[string]struct{}
}

// NewMemoryRepository creates an empty in-memory lead repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{byID: make(map[string]struct{})}
}

func (r *memoryRepository) Append(_ context.Context, ownerID, ownerEmail string, payload map[string]string) (*LeadRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	createdAt := time.Now().UTC()
	for {
		if _, taken := r.byID[RecordID(ownerID, createdAt)]; !taken {
			break
		}
		createdAt = createdAt.Add(time.Millisecond)
	}

	record := newRecord(ownerID, ownerEmail, payload, createdAt)
	r.records = append(r.records, *record)
	r.byID[record.ID] = struct{}{}
	return record, nil
}

func (r *memoryRepository) ListFor(_ context.Context, ownerID string) ([]LeadRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []LeadRecord
	for _, rec := range r.records {
		if rec.UserID == ownerID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func newRecord(ownerID, ownerEmail string, payload map[string]string, createdAt time.Time) *LeadRecord {
	copied := make(PayloadMap, len(payload))
	for k, v := range payload {
		copied[k] = v
	}
	return &LeadRecord{
		ID:        RecordID(ownerID, createdAt),
		UserID:    ownerID,
		UserEmail: ownerEmail,
		CreatedAt: createdAt,
		Payload:   copied,
	}
}
