package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ndanilin/golinks/internal/database"
	"github.com/ndanilin/golinks/internal/metadata"
	"github.com/ndanilin/golinks/internal/models"
	"github.com/ndanilin/golinks/internal/slug"
	"github.com/ndanilin/golinks/internal/urlsafe"
)

var (
	// ErrInvalidURL is returned when the destination does not parse as
	// an absolute http or https URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrDangerousURL is returned when the destination is blocked by the
	// safety screen.
	ErrDangerousURL = errors.New("dangerous url")
	// ErrInvalidSlug is returned when a caller-chosen slug fails format
	// validation or is reserved.
	ErrInvalidSlug = errors.New("invalid slug")
)

// RecordStore defines the persistence interface the service depends on.
type RecordStore interface {
	// Create inserts a new record, failing with database.ErrSlugExists
	// when the slug is taken.
	Create(ctx context.Context, rec *models.Record) error

	// Get retrieves a record by slug, failing with
	// database.ErrRecordNotFound when absent.
	Get(ctx context.Context, slug string) (*models.Record, error)

	// Update merges fields into an existing record.
	Update(ctx context.Context, slug string, fields database.UpdateFields) (*models.Record, error)

	// Delete removes a record; deleting an absent slug succeeds.
	Delete(ctx context.Context, slug string) error

	// ListAll returns every record sorted by creation time descending.
	ListAll(ctx context.Context) ([]*models.Record, error)
}

// MetadataFetcher retrieves the best-effort page summary.
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) metadata.Metadata
}

// URLService implements record creation, mutation and lookup on top of
// a RecordStore.
type URLService struct {
	store   RecordStore
	fetcher MetadataFetcher
}

func NewURLService(store RecordStore, fetcher MetadataFetcher) *URLService {
	return &URLService{
		store:   store,
		fetcher: fetcher,
	}
}

// Create validates and normalizes the destination, resolves the slug
// (validating a custom one or generating a readable one) and persists
// the record. The metadata fetch is best-effort and never fails the
// create.
func (s *URLService) Create(ctx context.Context, rawURL, customSlug string) (*models.Record, error) {
	const op = "service.URLService.Create"

	dest, err := s.screen(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sl := customSlug
	if sl != "" {
		if !slug.IsValidCustom(sl) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidSlug)
		}
	} else {
		sl, err = slug.GenerateUnique(ctx, s.slugTaken)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate slug: %w", op, err)
		}
	}

	rec := &models.Record{
		Slug:     sl,
		URL:      dest,
		Metadata: s.fetchMetadata(ctx, dest),
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("%s: failed to create record: %w", op, err)
	}

	return rec, nil
}

// Update replaces the destination of an existing record, re-screening
// it and re-fetching metadata only when the destination actually
// changed. Slug and creation time never change.
func (s *URLService) Update(ctx context.Context, sl, rawURL string) (*models.Record, error) {
	const op = "service.URLService.Update"

	cur, err := s.store.Get(ctx, sl)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	dest, err := s.screen(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fields := database.UpdateFields{URL: &dest}
	if dest != cur.URL {
		fields.Metadata = s.fetchMetadata(ctx, dest)
		if fields.Metadata == nil {
			fields.Metadata = &models.Metadata{}
		}
	}

	rec, err := s.store.Update(ctx, sl, fields)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update record: %w", op, err)
	}

	return rec, nil
}

// Delete removes a record, failing with database.ErrRecordNotFound when
// the slug is unknown.
func (s *URLService) Delete(ctx context.Context, sl string) error {
	const op = "service.URLService.Delete"

	if _, err := s.store.Get(ctx, sl); err != nil {
		return fmt.Errorf("%s: failed to get record: %w", op, err)
	}

	if err := s.store.Delete(ctx, sl); err != nil {
		return fmt.Errorf("%s: failed to delete record: %w", op, err)
	}

	return nil
}

// Resolve returns the record stored under sl.
func (s *URLService) Resolve(ctx context.Context, sl string) (*models.Record, error) {
	const op = "service.URLService.Resolve"

	rec, err := s.store.Get(ctx, sl)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve slug: %w", op, err)
	}

	return rec, nil
}

// List returns all records, newest first.
func (s *URLService) List(ctx context.Context) ([]*models.Record, error) {
	const op = "service.URLService.List"

	recs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list records: %w", op, err)
	}

	return recs, nil
}

func (s *URLService) screen(rawURL string) (string, error) {
	dest := urlsafe.Normalize(rawURL)

	// Dangerous schemes are not valid http(s) URLs either, so this
	// check has to come first to report the right rejection.
	if urlsafe.IsDangerous(dest) {
		return "", ErrDangerousURL
	}
	if !urlsafe.IsValid(dest) {
		return "", ErrInvalidURL
	}

	return dest, nil
}

func (s *URLService) slugTaken(ctx context.Context, sl string) (bool, error) {
	_, err := s.store.Get(ctx, sl)
	if err != nil {
		if errors.Is(err, database.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (s *URLService) fetchMetadata(ctx context.Context, dest string) *models.Metadata {
	md := s.fetcher.Fetch(ctx, dest)

	rmd := &models.Metadata{
		Title:       md.Title,
		Description: md.Description,
		Image:       md.Image,
	}
	if rmd.Empty() {
		return nil
	}

	return rmd
}
