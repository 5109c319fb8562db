package spec

import (
	"github.com/dogeorg/storelib"
)

type StoreTx interface {

	// GetResumePoint gets the height and hash to resume syncing from.
	GetResumePoint() (height int64, hash string, err error)

	// SetResumePoint sets the sync position and records the block hash
	// at `height` for reorg detection.
	SetResumePoint(height int64, hash string) error

	// GetSyncedHash returns the hash recorded for a synced block,
	// or "" if the height is unknown (never synced, or trimmed).
	GetSyncedHash(height int64) (hash string, err error)

	// ApplyDeltas adds balance movements at `height` and journals
	// them so UndoAbove can reverse them.
	ApplyDeltas(deltas []Delta, height int64) error

	// FindBalance finds the running totals for one address.
	// An unknown address yields a zero Balance, not an error.
	FindBalance(address string) (Balance, error)

	// SumPositiveBalances sums every positive address balance.
	SumPositiveBalances() (total int64, err error)

	// RichList returns the top `count` addresses by balance.
	RichList(count int) (res []Balance, err error)

	// UndoAbove reverses journalled deltas above `height` and forgets
	// the block hashes recorded above it.
	UndoAbove(height int64) error

	// TrimJournal permanently deletes journal rows and block hashes
	// below `height`.
	TrimJournal(height int64) error
}

type Store interface {
	storelib.StoreAPI[Store, StoreTx] // include the Base Store API
	StoreTx                           // include all the StoreTx methods
}
