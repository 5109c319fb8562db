package resolve

// Entry is one resolved address and its amount in koinu.
// The JSON field is named `addresses` but holds a single address
// string; downstream explorer renderers rely on this exact shape.
type Entry struct {
	Address string `json:"addresses"`
	Amount  int64  `json:"amount"`
}

// ResolvedSet is an ordered list of entries, unique by address.
// Insertion order is the first-seen order in the raw transaction.
type ResolvedSet []Entry

// Insert reports whether `address` is new to the set, and its index.
// Linear scan: per-transaction input/output counts are small, so this
// stays O(n) per insert rather than carrying a side map.
func (s ResolvedSet) Insert(address string) (isNew bool, index int) {
	for i := range s {
		if s[i].Address == address {
			return false, i
		}
	}
	return true, len(s)
}

// Add accumulates `amount` onto `address`, appending on first sight.
func (s *ResolvedSet) Add(address string, amount int64) {
	isNew, i := s.Insert(address)
	if isNew {
		*s = append(*s, Entry{Address: address, Amount: amount})
	} else {
		(*s)[i].Amount += amount
	}
}
