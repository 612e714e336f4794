// Package db pkg/db/errors.go
package db

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	errFailedOpenDB      = errors.New("failed to open database")
	errFailedToInit      = errors.New("failed to initialize schema")
	errFailedToEnableWAL = errors.New("failed to enable WAL mode")
	errFailedToInsert    = errors.New("failed to insert")
	errFailedToUpdate    = errors.New("failed to update")
	errFailedToQuery     = errors.New("failed to query")
	errFailedToScan      = errors.New("failed to scan")
	errFailedToClean     = errors.New("failed to clean")
)
