package supply

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dogeorg/explorer/spec"
)

// fakeSource answers supply queries with canned values or failures.
type fakeSource struct {
	supply      json.Number
	moneySupply json.Number
	totalAmount json.Number
	fail        bool
}

func (f *fakeSource) GetTransaction(context.Context, string) (*spec.RawTx, error) {
	return nil, fmt.Errorf("not implemented")
}
func (f *fakeSource) GetBlockCount(context.Context) (int64, error) {
	return 0, fmt.Errorf("not implemented")
}
func (f *fakeSource) GetBlockHash(context.Context, int64) (string, error) {
	return "", fmt.Errorf("not implemented")
}
func (f *fakeSource) GetBlock(context.Context, string) (*spec.RawBlock, error) {
	return nil, fmt.Errorf("not implemented")
}
func (f *fakeSource) GetSupply(context.Context) (json.Number, error) {
	if f.fail {
		return "", fmt.Errorf("node timeout")
	}
	return f.supply, nil
}
func (f *fakeSource) GetInfo(context.Context) (*spec.NodeInfo, error) {
	if f.fail {
		return nil, fmt.Errorf("node timeout")
	}
	return &spec.NodeInfo{MoneySupply: f.moneySupply}, nil
}
func (f *fakeSource) GetTxOutSetInfo(context.Context) (*spec.TxOutSetInfo, error) {
	if f.fail {
		return nil, fmt.Errorf("node timeout")
	}
	return &spec.TxOutSetInfo{TotalAmount: f.totalAmount}, nil
}

// fakeBalances is a canned BalanceReader.
type fakeBalances struct {
	coinbaseSent int64
	positiveSum  int64
	fail         bool
}

func (f *fakeBalances) FindBalance(address string) (spec.Balance, error) {
	if f.fail {
		return spec.Balance{}, fmt.Errorf("database closed")
	}
	if address == spec.CoinbaseAddress {
		return spec.Balance{Address: address, Sent: f.coinbaseSent, Balance: -f.coinbaseSent}, nil
	}
	return spec.Balance{Address: address}, nil
}
func (f *fakeBalances) SumPositiveBalances() (int64, error) {
	if f.fail {
		return 0, fmt.Errorf("database closed")
	}
	return f.positiveSum, nil
}

func TestSupplyStrategies(t *testing.T) {
	src := &fakeSource{
		supply:      "100.5",
		moneySupply: "200",
		totalAmount: "300.00000001",
	}
	store := &fakeBalances{coinbaseSent: 1234, positiveSum: 5678}
	calc := NewCalculator(src, store)
	ctx := context.Background()

	tests := []struct {
		mode Mode
		want int64
	}{
		{ModeCoinbase, 1234},
		{ModeHeavy, 10050000000},
		{ModeGetInfo, 20000000000},
		{ModeTxOutSet, 30000000001},
		{ModeBalances, 5678},
	}
	for _, tt := range tests {
		if got := calc.Supply(ctx, tt.mode); got != tt.want {
			t.Errorf("Supply(%v) = %v, expected %v", tt.mode, got, tt.want)
		}
	}
}

func TestSupplyFailuresResolveToZero(t *testing.T) {
	calc := NewCalculator(&fakeSource{fail: true}, &fakeBalances{fail: true})
	ctx := context.Background()
	for _, mode := range []Mode{ModeCoinbase, ModeHeavy, ModeGetInfo, ModeTxOutSet, ModeBalances} {
		if got := calc.Supply(ctx, mode); got != 0 {
			t.Errorf("Supply(%v) with failing source = %v, expected 0", mode, got)
		}
	}
}

func TestSupplyNonNumericResolvesToZero(t *testing.T) {
	calc := NewCalculator(&fakeSource{supply: "-", moneySupply: "n/a", totalAmount: ""}, &fakeBalances{})
	ctx := context.Background()
	for _, mode := range []Mode{ModeHeavy, ModeGetInfo, ModeTxOutSet} {
		if got := calc.Supply(ctx, mode); got != 0 {
			t.Errorf("Supply(%v) with non-numeric response = %v, expected 0", mode, got)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeCoinbase},
		{"COINBASE", ModeCoinbase},
		{"heavy", ModeHeavy},
		{"GetInfo", ModeGetInfo},
		{"TXOUTSET", ModeTxOutSet},
		{" balances ", ModeBalances},
		{"nonsense", ModeCoinbase},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}
