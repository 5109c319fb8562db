package resolve

import (
	"log"

	"github.com/dogeorg/explorer/spec"
)

// Outputs resolves a transaction's outputs into per-address amounts.
// Addressless outputs (nulldata, nonstandard) are excluded entirely.
// `inputs` is the set resolved from the same transaction's inputs: a
// proof-of-stake reward transaction is corrected against it, mutating
// both sets, so the staked coins are not counted as a transfer.
func Outputs(vout []spec.RawVout, inputs *ResolvedSet) ResolvedSet {
	var out ResolvedSet
	EachBatch(len(vout), func(i int) Signal {
		addr, ok := outputAddress(vout[i].ScriptPubKey)
		if !ok {
			return Next // not a destination
		}
		amount, err := ToKoinu(vout[i].Value.String())
		if err != nil {
			log.Printf("[Resolve] bad value in vout %v: %v", vout[i].N, err)
		}
		out.Add(addr, amount)
		return Next
	}, nil)
	adjustStakeReward(vout, &out, inputs)
	return out
}

// adjustStakeReward removes a staking reward's self-referential
// input/output pair: the first output of a proof-of-stake coinstake
// transaction is nonstandard, and the staked coins return to the same
// address that spent them. The staked amount is subtracted from the
// first destination and the matching source entry is dropped.
func adjustStakeReward(vout []spec.RawVout, out, inputs *ResolvedSet) {
	if len(vout) == 0 || vout[0].ScriptPubKey.Type != spec.TypeNonStandard {
		return
	}
	if inputs == nil || len(*inputs) == 0 || len(*out) == 0 {
		return
	}
	if (*inputs)[0].Address != (*out)[0].Address {
		return
	}
	staked := (*inputs)[0].Amount
	(*out)[0].Amount -= staked
	if (*out)[0].Amount < 0 {
		// a well-formed chain never pays out less than was staked
		log.Printf("[Resolve] inconsistent stake reward for %v: staked %v exceeds payout %v",
			(*out)[0].Address, staked, (*out)[0].Amount+staked)
		(*out)[0].Amount = 0
	}
	*inputs = (*inputs)[1:]
}
