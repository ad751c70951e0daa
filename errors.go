package cayleygo

import (
	"errors"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablecodec"
)

var (
	// ErrStorageUnavailable indicates that the durable store could not be
	// reached. It is returned wrapped, alongside a valid table, when a
	// computation succeeded but could not be persisted; use errors.Is to
	// detect it.
	ErrStorageUnavailable = errors.New("table storage unavailable")

	// ErrConfirmationRequired is returned by Clear when called without
	// confirmation. Clearing discards every cached table, so the flag must
	// be passed explicitly.
	ErrConfirmationRequired = errors.New("confirmation required to clear cached tables")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache is closed")
)

// ErrInvalidSignature indicates a metric signature outside the supported
// range. Re-exported so callers need not import the algebra package.
type ErrInvalidSignature = algebra.ErrInvalidSignature

// ErrCorruptData indicates an encoded table that failed structural or
// checksum validation. Re-exported from the codec package.
type ErrCorruptData = tablecodec.ErrCorruptData
