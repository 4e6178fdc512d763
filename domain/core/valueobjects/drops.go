package valueobjects

import "fmt"

// DropsPerXRP is the number of drops in one XRP
const DropsPerXRP int64 = 1_000_000

// Drops is an amount of XRP in its smallest unit
type Drops int64

// NewDrops rejects negative amounts
func NewDrops(amount int64) (Drops, error) {
	if amount < 0 {
		return 0, fmt.Errorf("amount_drops must be >= 0, got %d", amount)
	}
	return Drops(amount), nil
}

// WholeXRP returns the amount in XRP rounded down
func (d Drops) WholeXRP() int64 {
	return int64(d) / DropsPerXRP
}

func (d Drops) Int64() int64 { return int64(d) }
