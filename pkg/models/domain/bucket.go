package domain

// CurrencyBucket accumulates per-category counts and signed amounts for one
// currency within a group. Every category key declared by the report exists
// in both maps for every observed currency, even when that category never
// occurred for it.
type CurrencyBucket struct {
	Currency     string             `json:"currency"`
	Counts       map[string]int     `json:"counts"`
	Amounts      map[string]float64 `json:"amounts"`
	Gross        float64            `json:"gross"`
	Discount     float64            `json:"discount"`
	Refunded     float64            `json:"refunded"`
	Net          float64            `json:"net"`
	ConvertedUSD float64            `json:"converted_usd"`
}

// Group is a named partition of events within one report run. Buckets are
// sorted by currency code ascending.
type Group struct {
	Name     string           `json:"name"`
	Buckets  []CurrencyBucket `json:"buckets"`
	TotalUSD float64          `json:"total_usd"`
}

// Bucket returns the bucket for a currency code, or nil.
func (g Group) Bucket(code string) *CurrencyBucket {
	for i := range g.Buckets {
		if g.Buckets[i].Currency == code {
			return &g.Buckets[i]
		}
	}
	return nil
}
