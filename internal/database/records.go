package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ndanilin/golinks/internal/models"
)

const recordKeyPrefix = "urls:"

func recordKey(slug string) string {
	return recordKeyPrefix + slug
}

// UpdateFields carries the mutable subset of a record. Nil fields are
// left untouched by Update.
type UpdateFields struct {
	URL      *string
	Metadata *models.Metadata
}

// RecordRepository provides typed access to records stored as JSON in
// the underlying KV, keyed by slug.
type RecordRepository struct {
	kv      KV
	nowFunc func() time.Time
}

func NewRecordRepository(kv KV) *RecordRepository {
	return &RecordRepository{
		kv:      kv,
		nowFunc: time.Now,
	}
}

// Create persists a new record. It fails with ErrSlugExists when the
// slug is already taken; the conditional put makes the uniqueness check
// atomic on backends that support it.
func (r *RecordRepository) Create(ctx context.Context, rec *models.Record) error {
	const op = "database.RecordRepository.Create"

	now := r.nowFunc().UTC()
	rec.Created = now
	rec.Updated = now

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal record: %w", op, err)
	}

	ok, err := r.kv.SetNX(ctx, recordKey(rec.Slug), string(data), 0)
	if err != nil {
		return fmt.Errorf("%s: failed to create record: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrSlugExists)
	}

	return nil
}

// Get retrieves the record stored under slug, or ErrRecordNotFound.
func (r *RecordRepository) Get(ctx context.Context, slug string) (*models.Record, error) {
	const op = "database.RecordRepository.Get"

	data, err := r.kv.Get(ctx, recordKey(slug))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrRecordNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	rec := new(models.Record)
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal record: %w", op, err)
	}

	return rec, nil
}

// Update merges the given fields into an existing record, preserving
// the slug and creation time and refreshing the update time. It fails
// with ErrRecordNotFound when the slug is absent.
func (r *RecordRepository) Update(ctx context.Context, slug string, fields UpdateFields) (*models.Record, error) {
	const op = "database.RecordRepository.Update"

	rec, err := r.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	if fields.URL != nil {
		rec.URL = *fields.URL
	}
	if fields.Metadata != nil {
		if fields.Metadata.Empty() {
			rec.Metadata = nil
		} else {
			rec.Metadata = fields.Metadata
		}
	}
	rec.Updated = r.nowFunc().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal record: %w", op, err)
	}

	if err := r.kv.Set(ctx, recordKey(slug), string(data), 0); err != nil {
		return nil, fmt.Errorf("%s: failed to update record: %w", op, err)
	}

	return rec, nil
}

// Delete removes the record stored under slug. Deleting an absent slug
// succeeds.
func (r *RecordRepository) Delete(ctx context.Context, slug string) error {
	const op = "database.RecordRepository.Delete"

	if err := r.kv.Del(ctx, recordKey(slug)); err != nil {
		return fmt.Errorf("%s: failed to delete record: %w", op, err)
	}

	return nil
}

// ListAll returns every record sorted by creation time descending.
// Entries that fail to deserialize are skipped.
func (r *RecordRepository) ListAll(ctx context.Context) ([]*models.Record, error) {
	const op = "database.RecordRepository.ListAll"

	keys, err := r.kv.Keys(ctx, recordKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list record keys: %w", op, err)
	}

	recs := make([]*models.Record, 0, len(keys))
	for _, key := range keys {
		data, err := r.kv.Get(ctx, key)
		if err != nil {
			continue
		}

		rec := new(models.Record)
		if err := json.Unmarshal([]byte(data), rec); err != nil {
			continue
		}

		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Created.After(recs[j].Created)
	})

	return recs, nil
}
