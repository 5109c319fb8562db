package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dogeorg/explorer/spec"
)

// fakeSource serves transactions from a map; everything else fails.
type fakeSource struct {
	txs   map[string]*spec.RawTx
	calls int
}

func (f *fakeSource) GetTransaction(_ context.Context, txid string) (*spec.RawTx, error) {
	f.calls++
	if tx, ok := f.txs[txid]; ok {
		return tx, nil
	}
	return nil, fmt.Errorf("no such transaction: %v", txid)
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
	return "", fmt.Errorf("not implemented")
}
func (f *fakeSource) GetInfo(context.Context) (*spec.NodeInfo, error) {
	return nil, fmt.Errorf("not implemented")
}
func (f *fakeSource) GetTxOutSetInfo(context.Context) (*spec.TxOutSetInfo, error) {
	return nil, fmt.Errorf("not implemented")
}

func TestInputsCoinbase(t *testing.T) {
	src := &fakeSource{}
	tx := &spec.RawTx{
		TxID: "cb",
		Vin:  []spec.RawVin{{Coinbase: "04ffff001d0104"}},
		Vout: []spec.RawVout{
			rawVout(0, "3.0", "pubkeyhash", "A"),
			rawVout(1, "2.0", "pubkeyhash", "B"),
		},
	}
	in := Inputs(context.Background(), src, tx)
	if len(in) != 1 {
		t.Fatalf("resolved %v entries, expected 1", len(in))
	}
	if in[0].Address != spec.CoinbaseAddress || in[0].Amount != 500000000 {
		t.Fatalf("resolved %+v, expected coinbase/500000000", in[0])
	}
	if src.calls != 0 {
		t.Fatalf("coinbase resolution fetched %v transactions, expected none", src.calls)
	}
}

func TestInputsResolvesAndDeduplicates(t *testing.T) {
	src := &fakeSource{txs: map[string]*spec.RawTx{
		"t1": {TxID: "t1", Vout: []spec.RawVout{
			rawVout(0, "1.0", "pubkeyhash", "A"),
			rawVout(1, "2.0", "pubkeyhash", "A"),
		}},
		"t2": {TxID: "t2", Vout: []spec.RawVout{
			rawVout(0, "0.5", "pubkeyhash", "B"),
		}},
	}}
	tx := &spec.RawTx{
		TxID: "spend",
		Vin: []spec.RawVin{
			{TxID: "t1", Vout: 0},
			{TxID: "t1", Vout: 1},
			{TxID: "t2", Vout: 0},
		},
	}
	in := Inputs(context.Background(), src, tx)
	if len(in) != 2 {
		t.Fatalf("resolved %v entries, expected 2", len(in))
	}
	if in[0].Address != "A" || in[0].Amount != 300000000 {
		t.Fatalf("in[0] = %+v, expected A/300000000", in[0])
	}
	if in[1].Address != "B" || in[1].Amount != 50000000 {
		t.Fatalf("in[1] = %+v, expected B/50000000", in[1])
	}
}

func TestInputsSkipsUnresolvable(t *testing.T) {
	src := &fakeSource{txs: map[string]*spec.RawTx{
		"t1": {TxID: "t1", Vout: []spec.RawVout{
			rawVout(0, "1.0", "pubkeyhash", "A"),
			rawVout(1, "9.0", spec.TypeNullData), // no usable address
		}},
	}}
	tx := &spec.RawTx{
		TxID: "spend",
		Vin: []spec.RawVin{
			{TxID: "missing", Vout: 0}, // unknown transaction
			{TxID: "t1", Vout: 7},      // no such output index
			{TxID: "t1", Vout: 1},      // addressless output
			{TxID: "t1", Vout: 0},      // the only resolvable input
		},
	}
	in := Inputs(context.Background(), src, tx)
	if len(in) != 1 {
		t.Fatalf("resolved %v entries, expected 1", len(in))
	}
	if in[0].Address != "A" || in[0].Amount != 100000000 {
		t.Fatalf("resolved %+v, expected A/100000000", in[0])
	}
}

func TestInputsNilAndEmpty(t *testing.T) {
	src := &fakeSource{}
	if in := Inputs(context.Background(), src, nil); len(in) != 0 {
		t.Fatalf("nil tx resolved %v entries, expected none", len(in))
	}
	if in := Inputs(context.Background(), src, &spec.RawTx{}); len(in) != 0 {
		t.Fatalf("empty tx resolved %v entries, expected none", len(in))
	}
}
