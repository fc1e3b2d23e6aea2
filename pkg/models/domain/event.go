package domain

import "time"

// EventKind determines how an event mutates its currency bucket.
type EventKind int

const (
	// KindPurchase adds to gross/discount and the bucket net.
	KindPurchase EventKind = iota
	// KindRefund adds to the refunded amount and subtracts from net.
	KindRefund
	// KindAmount adds a signed amount to net.
	KindAmount
	// KindCount only increments the category counter.
	KindCount
)

// Event is a single observed financial or count occurrence: a purchase,
// refund, payment approval, invoice, grant award or status change. Events
// exist only during one report computation; only aggregated results are
// ever cached.
type Event struct {
	Timestamp time.Time
	Currency  string
	Category  string
	Kind      EventKind
	Amount    float64
	Gross     float64
	Discount  float64
	// Groups names the report groups this event counts toward. An event with
	// no groups falls into the report's default group when one is declared,
	// and is dropped otherwise.
	Groups []string
}
