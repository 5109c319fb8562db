package store

import (
	"context"
	"database/sql"

	"github.com/dogeorg/explorer/spec"
	"github.com/dogeorg/storelib"
)

// Type aliases to enhance readability
type Store = spec.Store
type StoreTx = spec.StoreTx
type StoreBase = storelib.StoreBase[Store, StoreTx]
type StoreImpl = storelib.StoreImpl[Store, StoreTx]

type BalanceStore struct {
	StoreBase
}

var _ Store = &BalanceStore{} // interface assertion

// NewBalanceStore returns a spec.Store implementation that uses Postgres or SQLite
func NewBalanceStore(fileName string, ctx context.Context) (Store, error) {
	store := &BalanceStore{}
	err := storelib.InitStore(store, &store.StoreBase, fileName, MIGRATIONS, ctx)
	return store, err
}

// Clone makes a copy of the store implementation (because storelib can't do this part)
func (s *BalanceStore) Clone() (StoreImpl, *StoreBase, Store, StoreTx) {
	newstore := &BalanceStore{}
	return newstore, &newstore.StoreBase, newstore, newstore
}

// DATABASE SCHEMA

// balance holds running totals per address, in koinu; the synthetic
// "coinbase" address only ever sends, so its balance goes negative.
// journal records per-block movements so a reorg can be rewound;
// block records synced hashes so a reorg can be detected.
const SCHEMA_v0 = `
CREATE TABLE balance (
	address TEXT PRIMARY KEY,
	received BIGINT NOT NULL,
	sent BIGINT NOT NULL,
	balance BIGINT NOT NULL
);
CREATE INDEX balance_rank ON balance (balance);
CREATE TABLE journal (
	height BIGINT NOT NULL,
	address TEXT NOT NULL,
	received BIGINT NOT NULL,
	sent BIGINT NOT NULL
);
CREATE INDEX journal_height ON journal (height);
CREATE TABLE block (
	height BIGINT PRIMARY KEY,
	hash TEXT NOT NULL
);
CREATE TABLE resume (
	height BIGINT NOT NULL,
	hash TEXT NOT NULL
);
`

var MIGRATIONS = []storelib.Migration{
	{Version: 1, SQL: SCHEMA_v0},
}

// STORE INTERFACE

func (s *BalanceStore) GetResumePoint() (int64, string, error) {
	row := s.Txn.QueryRow(`SELECT height, hash FROM resume LIMIT 1`)
	var height int64
	var hash string
	err := row.Scan(&height, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil // never synced
		}
		return 0, "", s.DBErr(err, "GetResumePoint")
	}
	return height, hash, nil
}

func (s *BalanceStore) SetResumePoint(height int64, hash string) error {
	res, err := s.Txn.Exec(`UPDATE resume SET height=$1, hash=$2`, height, hash)
	if err != nil {
		return s.DBErr(err, "SetResumePoint")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return s.DBErr(err, "SetResumePoint RowsAffected")
	}
	if rows < 1 {
		// First time: insert the single row.
		_, err = s.Txn.Exec(`INSERT INTO resume (height,hash) VALUES ($1,$2)`, height, hash)
		if err != nil {
			return s.DBErr(err, "SetResumePoint Insert")
		}
	}
	if hash != "" {
		// record the hash for reorg detection (replacing any stale row
		// left behind by an undo)
		_, err = s.Txn.Exec(`DELETE FROM block WHERE height=$1`, height)
		if err != nil {
			return s.DBErr(err, "SetResumePoint: delete block")
		}
		_, err = s.Txn.Exec(`INSERT INTO block (height,hash) VALUES ($1,$2)`, height, hash)
		if err != nil {
			return s.DBErr(err, "SetResumePoint: insert block")
		}
	}
	return nil
}

func (s *BalanceStore) GetSyncedHash(height int64) (string, error) {
	row := s.Txn.QueryRow(`SELECT hash FROM block WHERE height=$1`, height)
	var hash string
	err := row.Scan(&hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil // unknown height
		}
		return "", s.DBErr(err, "GetSyncedHash")
	}
	return hash, nil
}

// ApplyDeltas adds balance movements at `height` and journals them for undo.
func (s *BalanceStore) ApplyDeltas(deltas []spec.Delta, height int64) error {
	update, err := s.Txn.Prepare(`UPDATE balance SET received=received+$1, sent=sent+$2, balance=balance+$3 WHERE address=$4`)
	if err != nil {
		return s.DBErr(err, "ApplyDeltas: prepare update")
	}
	insert, err := s.Txn.Prepare(`INSERT INTO balance (address,received,sent,balance) VALUES ($1,$2,$3,$4)`)
	if err != nil {
		return s.DBErr(err, "ApplyDeltas: prepare insert")
	}
	journal, err := s.Txn.Prepare(`INSERT INTO journal (height,address,received,sent) VALUES ($1,$2,$3,$4)`)
	if err != nil {
		return s.DBErr(err, "ApplyDeltas: prepare journal")
	}
	for _, d := range deltas {
		res, err := update.Exec(d.Received, d.Sent, d.Received-d.Sent, d.Address)
		if err != nil {
			return s.DBErr(err, "ApplyDeltas: update balance")
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return s.DBErr(err, "ApplyDeltas: RowsAffected")
		}
		if rows < 1 {
			// First sighting of this address.
			_, err = insert.Exec(d.Address, d.Received, d.Sent, d.Received-d.Sent)
			if err != nil {
				return s.DBErr(err, "ApplyDeltas: insert balance")
			}
		}
		_, err = journal.Exec(height, d.Address, d.Received, d.Sent)
		if err != nil {
			return s.DBErr(err, "ApplyDeltas: insert journal")
		}
	}
	return nil
}

func (s *BalanceStore) FindBalance(address string) (spec.Balance, error) {
	row := s.Txn.QueryRow(`SELECT received, sent, balance FROM balance WHERE address=$1`, address)
	res := spec.Balance{Address: address}
	err := row.Scan(&res.Received, &res.Sent, &res.Balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return res, nil // unseen address: zero totals
		}
		return spec.Balance{}, s.DBErr(err, "FindBalance: scan")
	}
	return res, nil
}

func (s *BalanceStore) SumPositiveBalances() (int64, error) {
	row := s.Txn.QueryRow(`SELECT COALESCE(SUM(balance),0) FROM balance WHERE balance > 0`)
	var total int64
	err := row.Scan(&total)
	if err != nil {
		return 0, s.DBErr(err, "SumPositiveBalances: scan")
	}
	return total, nil
}

// RichList returns the top `count` addresses by balance. The synthetic
// coinbase address never appears (its balance is always negative).
func (s *BalanceStore) RichList(count int) (res []spec.Balance, err error) {
	rows, err := s.Txn.Query(`SELECT address, received, sent, balance FROM balance WHERE balance > 0 ORDER BY balance DESC, address LIMIT $1`, count)
	if err != nil {
		return nil, s.DBErr(err, "RichList: query")
	}
	for rows.Next() {
		var b spec.Balance
		err = rows.Scan(&b.Address, &b.Received, &b.Sent, &b.Balance)
		if err != nil {
			return nil, s.DBErr(err, "RichList: scan")
		}
		res = append(res, b)
	}
	if err = rows.Close(); err != nil {
		return nil, s.DBErr(err, "RichList: close")
	}
	return res, nil
}

// UndoAbove reverses journalled deltas above `height`.
func (s *BalanceStore) UndoAbove(height int64) error {
	rows, err := s.Txn.Query(`SELECT address, SUM(received), SUM(sent) FROM journal WHERE height > $1 GROUP BY address`, height)
	if err != nil {
		return s.DBErr(err, "UndoAbove: query journal")
	}
	var undo []spec.Delta
	for rows.Next() {
		var d spec.Delta
		err = rows.Scan(&d.Address, &d.Received, &d.Sent)
		if err != nil {
			return s.DBErr(err, "UndoAbove: scan journal")
		}
		undo = append(undo, d)
	}
	if err = rows.Close(); err != nil {
		return s.DBErr(err, "UndoAbove: close")
	}
	revert, err := s.Txn.Prepare(`UPDATE balance SET received=received-$1, sent=sent-$2, balance=balance-$3 WHERE address=$4`)
	if err != nil {
		return s.DBErr(err, "UndoAbove: prepare revert")
	}
	for _, d := range undo {
		_, err = revert.Exec(d.Received, d.Sent, d.Received-d.Sent, d.Address)
		if err != nil {
			return s.DBErr(err, "UndoAbove: revert balance")
		}
	}
	_, err = s.Txn.Exec(`DELETE FROM journal WHERE height > $1`, height)
	if err != nil {
		return s.DBErr(err, "UndoAbove: delete journal")
	}
	_, err = s.Txn.Exec(`DELETE FROM block WHERE height > $1`, height)
	if err != nil {
		return s.DBErr(err, "UndoAbove: delete block")
	}
	return nil
}

// TrimJournal permanently deletes undo records below `height`
func (s *BalanceStore) TrimJournal(height int64) error {
	_, err := s.Txn.Exec(`DELETE FROM journal WHERE height < $1`, height)
	if err != nil {
		return s.DBErr(err, "TrimJournal: journal")
	}
	_, err = s.Txn.Exec(`DELETE FROM block WHERE height < $1`, height)
	if err != nil {
		return s.DBErr(err, "TrimJournal: block")
	}
	return nil
}
