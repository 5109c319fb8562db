package index

import (
	"log"
	"time"

	"github.com/dogeorg/explorer/resolve"
	"github.com/dogeorg/explorer/spec"
	"github.com/dogeorg/governor"
)

const RETRY_DELAY = 5 * time.Second    // for RPC and Database errors.
const POLL_INTERVAL = 30 * time.Second // fallback when ZMQ is quiet.

const trimIntervalBlocks = 100 // Trim the undo journal every N blocks
const keepJournalBlocks = 1000 // journal depth kept for reorg rewind

type Indexer struct {
	governor.ServiceCtx
	_db        spec.Store
	db         spec.Store
	src        spec.DataSource
	tipChanged chan string
}

/*
 * NewIndexer creates an Indexer service that keeps the address-balance
 * store in sync with the node's chain.
 *
 * Each block's transactions are resolved into per-address amounts
 * (outputs credit `received`, inputs credit `sent`; block rewards are
 * sent by the synthetic "coinbase" address) and committed together
 * with the resume point. `tipChanged` delivers new-tip announcements
 * from the ZMQ TipChaser.
 */
func NewIndexer(db spec.Store, src spec.DataSource, tipChanged chan string) governor.Service {
	return &Indexer{_db: db, src: src, tipChanged: tipChanged}
}

func (i *Indexer) Run() {
	i.db = i._db.WithCtx(i.Context) // bind to service context
	for !i.Stopping() {
		caughtUp, err := i.syncToTip()
		if err != nil {
			log.Printf("[Indexer] %v (will retry)", err)
			i.Sleep(RETRY_DELAY)
			continue
		}
		if caughtUp {
			i.waitForTip()
		}
	}
}

// waitForTip sleeps until the node announces a new tip, the poll
// interval elapses, or the service stops.
func (i *Indexer) waitForTip() {
	select {
	case <-i.Context.Done():
	case <-i.tipChanged:
	case <-time.After(POLL_INTERVAL):
	}
}

// syncToTip processes blocks from the resume point to the node's tip.
// Returns caughtUp=false when there may be more work to do right away
// (reorg rewind, or the tip moved while syncing).
func (i *Indexer) syncToTip() (caughtUp bool, err error) {
	height, hash, err := i.db.GetResumePoint()
	if err != nil {
		return false, err
	}
	// Reorg check: the block we synced last must still be on the
	// node's main chain.
	if hash != "" {
		nodeHash, err := i.src.GetBlockHash(i.Context, height)
		if err != nil {
			return false, err
		}
		if nodeHash != hash {
			return false, i.undoReorg(height)
		}
	}
	tip, err := i.src.GetBlockCount(i.Context)
	if err != nil {
		return false, err
	}
	trimCounter := 0
	for h := height + 1; h <= tip && !i.Stopping(); h++ {
		if err := i.syncBlock(h); err != nil {
			return false, err
		}
		trimCounter += 1
		if trimCounter >= trimIntervalBlocks {
			trimCounter = 0
			trimHeight := h - keepJournalBlocks
			if trimHeight > 1 {
				if err := i.db.TrimJournal(trimHeight); err != nil {
					log.Printf("[Indexer] trim failed: %v", err)
				}
			}
		}
	}
	return true, nil
}

// syncBlock resolves every transaction in the block at `height` and
// commits the resulting balance deltas with the new resume point.
func (i *Indexer) syncBlock(height int64) error {
	hash, err := i.src.GetBlockHash(i.Context, height)
	if err != nil {
		return err
	}
	block, err := i.src.GetBlock(i.Context, hash)
	if err != nil {
		return err
	}
	// Accumulate one delta per address; the map keeps lookups O(1)
	// across the whole block while the slice preserves first-seen order.
	var deltas []spec.Delta
	at := make(map[string]int)
	add := func(address string, received int64, sent int64) {
		n, ok := at[address]
		if !ok {
			n = len(deltas)
			at[address] = n
			deltas = append(deltas, spec.Delta{Address: address})
		}
		deltas[n].Received += received
		deltas[n].Sent += sent
	}
	for _, txid := range block.Tx {
		tx, err := i.src.GetTransaction(i.Context, txid)
		if err != nil {
			// degrade to what the node can serve; the rest of the
			// block still counts.
			log.Printf("[Indexer] tx %v unavailable: %v", txid, err)
			continue
		}
		vin := resolve.Inputs(i.Context, i.src, tx)
		vout := resolve.Outputs(tx.Vout, &vin)
		for _, e := range vout {
			add(e.Address, e.Amount, 0)
		}
		for _, e := range vin {
			add(e.Address, 0, e.Amount)
		}
	}
	// We cannot admit failure here (we would de-sync from the node),
	// so keep trying until someone fixes the DB, or someone stops
	// the Indexer and fixes a bug.
	for !i.Stopping() {
		err := i.db.Transact(func(tx spec.StoreTx) error {
			if len(deltas) > 0 {
				if err := tx.ApplyDeltas(deltas, height); err != nil {
					return err
				}
			}
			return tx.SetResumePoint(height, hash)
		})
		if err == nil {
			break
		}
		log.Printf("[Indexer] commit failed (will retry): %v", err)
		i.Sleep(RETRY_DELAY)
	}
	log.Printf("[%v] %v DONE", height, hash)
	return nil
}

// undoReorg rewinds to the last height whose hash still matches the
// node, then lets the next syncToTip pass re-sync the new branch.
func (i *Indexer) undoReorg(from int64) error {
	log.Printf("[Indexer] reorg detected at height %v", from)
	fork := from
	for fork > 0 && !i.Stopping() {
		ourHash, err := i.db.GetSyncedHash(fork)
		if err != nil {
			return err
		}
		if ourHash == "" {
			break // beyond journal depth: rewind no further
		}
		nodeHash, err := i.src.GetBlockHash(i.Context, fork)
		if err != nil {
			return err
		}
		if nodeHash == ourHash {
			break
		}
		fork -= 1
	}
	forkHash, err := i.db.GetSyncedHash(fork)
	if err != nil {
		return err
	}
	log.Printf("[Indexer] undo to height %v", fork)
	// We cannot admit failure here (we would de-sync from the node),
	// so keep trying until someone fixes the DB, or someone stops
	// the Indexer and fixes a bug.
	for !i.Stopping() {
		err := i.db.Transact(func(tx spec.StoreTx) error {
			if err := tx.UndoAbove(fork); err != nil {
				return err
			}
			return tx.SetResumePoint(fork, forkHash)
		})
		if err == nil {
			break
		}
		log.Printf("[Indexer] undo commit failed (will retry): %v", err)
		i.Sleep(RETRY_DELAY)
	}
	return nil
}
