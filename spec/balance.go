package spec

// CoinbaseAddress is the synthetic source address for block rewards.
// Its `sent` total is the sum of all coins ever minted, which is what
// the default supply strategy reads back.
const CoinbaseAddress = "coinbase"

// Balance is the running total for one address, in koinu.
type Balance struct {
	Address  string `json:"address"`
	Received int64  `json:"received"`
	Sent     int64  `json:"sent"`
	Balance  int64  `json:"balance"` // received - sent
}

// Delta is one address's balance movement within a single block.
type Delta struct {
	Address  string
	Received int64
	Sent     int64
}
