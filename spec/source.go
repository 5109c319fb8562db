package spec

import (
	"context"
	"encoding/json"
)

// RawBlock is a block with its transaction ids (getblock verbosity 1).
type RawBlock struct {
	Hash   string   `json:"hash"`
	Height int64    `json:"height"`
	Tx     []string `json:"tx"`
}

// NodeInfo is the subset of `getinfo` the explorer reads.
type NodeInfo struct {
	MoneySupply json.Number `json:"moneysupply"`
}

// TxOutSetInfo is the subset of `gettxoutsetinfo` the explorer reads.
type TxOutSetInfo struct {
	TotalAmount json.Number `json:"total_amount"`
}

// DataSource is chain access for the resolvers, the supply calculator
// and the balance indexer. Implementations return errors rather than
// panicking, and choose their own per-call timeouts, so callers can
// uniformly degrade to empty/zero results.
type DataSource interface {
	GetTransaction(ctx context.Context, txid string) (*RawTx, error)
	GetBlockCount(ctx context.Context) (int64, error)
	GetBlockHash(ctx context.Context, height int64) (string, error)
	GetBlock(ctx context.Context, hash string) (*RawBlock, error)
	GetSupply(ctx context.Context) (json.Number, error)
	GetInfo(ctx context.Context) (*NodeInfo, error)
	GetTxOutSetInfo(ctx context.Context) (*TxOutSetInfo, error)
}
