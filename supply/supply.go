package supply

import (
	"context"
	"log"
	"strings"

	"github.com/dogeorg/explorer/resolve"
	"github.com/dogeorg/explorer/spec"
)

// Mode selects how circulating supply is computed.
type Mode string

const (
	ModeCoinbase Mode = "COINBASE" // total ever sent by the synthetic coinbase address (default)
	ModeHeavy    Mode = "HEAVY"    // node `getsupply`
	ModeGetInfo  Mode = "GETINFO"  // node `getinfo` moneysupply
	ModeTxOutSet Mode = "TXOUTSET" // node `gettxoutsetinfo` total_amount
	ModeBalances Mode = "BALANCES" // sum of positive balances in the store
)

// ParseMode maps a configured strategy name onto a Mode.
// Unrecognized or empty names select the default coinbase strategy.
func ParseMode(name string) Mode {
	switch Mode(strings.ToUpper(strings.TrimSpace(name))) {
	case ModeHeavy:
		return ModeHeavy
	case ModeGetInfo:
		return ModeGetInfo
	case ModeTxOutSet:
		return ModeTxOutSet
	case ModeBalances:
		return ModeBalances
	}
	return ModeCoinbase
}

// BalanceReader is the slice of the balance store the calculator reads.
type BalanceReader interface {
	FindBalance(address string) (spec.Balance, error)
	SumPositiveBalances() (int64, error)
}

type Calculator struct {
	src   spec.DataSource
	store BalanceReader
}

func NewCalculator(src spec.DataSource, store BalanceReader) *Calculator {
	return &Calculator{src: src, store: store}
}

// Supply computes the circulating supply in koinu under `mode`.
// Every transport or parse failure resolves to 0 with a log line:
// explorer pages always render a number.
func (c *Calculator) Supply(ctx context.Context, mode Mode) int64 {
	switch mode {
	case ModeHeavy:
		amount, err := c.src.GetSupply(ctx)
		if err != nil {
			log.Printf("[Supply] getsupply failed: %v", err)
			return 0
		}
		return nodeAmount("getsupply", amount.String())
	case ModeGetInfo:
		info, err := c.src.GetInfo(ctx)
		if err != nil {
			log.Printf("[Supply] getinfo failed: %v", err)
			return 0
		}
		return nodeAmount("getinfo", info.MoneySupply.String())
	case ModeTxOutSet:
		set, err := c.src.GetTxOutSetInfo(ctx)
		if err != nil {
			log.Printf("[Supply] gettxoutsetinfo failed: %v", err)
			return 0
		}
		return nodeAmount("gettxoutsetinfo", set.TotalAmount.String())
	case ModeBalances:
		total, err := c.store.SumPositiveBalances()
		if err != nil {
			log.Printf("[Supply] balance sum failed: %v", err)
			return 0
		}
		return total
	default:
		bal, err := c.store.FindBalance(spec.CoinbaseAddress)
		if err != nil {
			log.Printf("[Supply] coinbase lookup failed: %v", err)
			return 0
		}
		return bal.Sent
	}
}

// nodeAmount converts a node-reported decimal, resolving non-numeric
// responses to 0.
func nodeAmount(call, amount string) int64 {
	n, err := resolve.ToKoinu(amount)
	if err != nil {
		log.Printf("[Supply] non-numeric %v response %q: %v", call, amount, err)
		return 0
	}
	return n
}
