package resolve

import (
	"context"
	"log"

	"github.com/dogeorg/explorer/spec"
)

// Inputs resolves a transaction's inputs into per-address amounts,
// fetching each spent output's originating transaction from `src`.
// A coinbase transaction resolves to a single synthetic entry paying
// the whole output sum from the "coinbase" address, regardless of
// input count. Inputs whose originating output cannot be found
// contribute nothing; the rest of the transaction still resolves.
func Inputs(ctx context.Context, src spec.DataSource, tx *spec.RawTx) ResolvedSet {
	var in ResolvedSet
	if tx == nil {
		return in
	}
	EachBatch(len(tx.Vin), func(i int) Signal {
		vin := tx.Vin[i]
		if vin.IsCoinbase() {
			in = ResolvedSet{{Address: spec.CoinbaseAddress, Amount: sumOutputs(tx.Vout)}}
			return StopComplete // exactly one synthetic source
		}
		if vin.TxID == "" {
			return Next
		}
		prev, err := src.GetTransaction(ctx, vin.TxID)
		if err != nil {
			log.Printf("[Resolve] input %v:%v unavailable: %v", vin.TxID, vin.Vout, err)
			return Next
		}
		out, ok := findOutput(prev, vin.Vout)
		if !ok {
			log.Printf("[Resolve] input %v:%v not found in source tx", vin.TxID, vin.Vout)
			return Next
		}
		addr, ok := outputAddress(out.ScriptPubKey)
		if !ok {
			return Next
		}
		amount, err := ToKoinu(out.Value.String())
		if err != nil {
			log.Printf("[Resolve] bad value in %v:%v: %v", vin.TxID, vin.Vout, err)
		}
		in.Add(addr, amount)
		return Next
	}, nil)
	return in
}

// findOutput locates the output with index `n` within `tx`.
func findOutput(tx *spec.RawTx, n int) (spec.RawVout, bool) {
	if tx == nil || n < 0 {
		return spec.RawVout{}, false
	}
	for i := range tx.Vout {
		if int(tx.Vout[i].N) == n {
			return tx.Vout[i], true
		}
	}
	return spec.RawVout{}, false
}

// sumOutputs totals a transaction's output values in koinu.
// Unparsable values count as zero so the sum always resolves.
func sumOutputs(vout []spec.RawVout) int64 {
	var total int64
	for i := range vout {
		amount, err := ToKoinu(vout[i].Value.String())
		if err != nil {
			log.Printf("[Resolve] bad value in vout %v: %v", vout[i].N, err)
			continue
		}
		total += amount
	}
	return total
}
