package database

import "errors"

var (
	// ErrSlugExists is returned when an attempt is made to create
	// a record under a slug that is already taken.
	ErrSlugExists = errors.New("slug exists")
	// ErrRecordNotFound is returned when an attempt is made to retrieve
	// or mutate a record using a slug that doesn't exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrKeyNotFound is returned by a KV implementation when the
	// requested key is absent.
	ErrKeyNotFound = errors.New("key not found")
)
