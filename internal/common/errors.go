// Package common defines sentinel errors and constants shared by the kodex
// client and server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// repository errors
	ErrorNotFound = errors.New("not found")

	// generator errors
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrEmptyPayload    = errors.New("empty payload")

	// scanner errors
	ErrNoCodeFound = errors.New("no QR code found")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// sync errors
	ErrSyncDisabled   = errors.New("sync server not configured")
	ErrRecordConflict = errors.New("record belongs to another owner")
)
