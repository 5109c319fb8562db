package spec

import "encoding/json"

// Script types reported by the node that never pay to an address.
const (
	TypeNonStandard = "nonstandard"
	TypeNullData    = "nulldata"
)

// RawTx is a transaction as returned by the node's verbose JSON API.
type RawTx struct {
	TxID string    `json:"txid"`
	Vin  []RawVin  `json:"vin"`
	Vout []RawVout `json:"vout"`
}

// RawVin is one transaction input. Coinbase holds the coinbase script
// hex; a non-empty value marks a block-reward input with no prior output.
type RawVin struct {
	TxID     string `json:"txid"`
	Vout     int    `json:"vout"`
	Coinbase string `json:"coinbase"`
}

func (in *RawVin) IsCoinbase() bool { return in.Coinbase != "" }

// RawVout is one transaction output. Value is kept as json.Number so
// the node's decimal literal survives decoding untouched.
type RawVout struct {
	Value        json.Number  `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
}

// ScriptPubKey carries the node's two address shapes: newer nodes list
// `addresses`, older ones a single `address`.
type ScriptPubKey struct {
	Type      string   `json:"type"`
	Address   string   `json:"address"`
	Addresses []string `json:"addresses"`
}
