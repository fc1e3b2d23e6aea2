package store

import "time"

// LogEntry is one lifecycle transition recorded against a payment post.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// PaymentIndexRow is an entry from the network-wide payment index: a vendor
// payment or reimbursement request that may have had activity in a window.
type PaymentIndexRow struct {
	BlogID int64
	PostID int64
}

// PaymentRow is a payment post joined with its amount metadata and
// lifecycle log.
type PaymentRow struct {
	BlogID   int64      `json:"blog_id"`
	PostID   int64      `json:"post_id"`
	PostType string     `json:"post_type"`
	Currency string     `json:"currency"`
	Amount   float64    `json:"amount"`
	Log      []LogEntry `json:"log"`
}

// TicketRow is one ticket purchase or refund from a camp's sales tables.
type TicketRow struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"` // "purchase" or "refund"
	Currency  string    `json:"currency"`
	Gross     float64   `json:"gross"`
	Discount  float64   `json:"discount"`
	Amount    float64   `json:"amount"`
	Gateway   string    `json:"gateway"`
}

// InvoiceRow is one entry from the sponsor invoice index.
type InvoiceRow struct {
	BlogID    int64     `json:"blog_id"`
	InvoiceID int64     `json:"invoice_id"`
	Sponsor   string    `json:"sponsor"`
	Status    string    `json:"status"`
	Currency  string    `json:"currency"`
	Amount    float64   `json:"amount"`
	DueDate   time.Time `json:"due_date"`
}

// CampRow is the camp post used for scope validation and naming.
type CampRow struct {
	ID     int64
	SiteID int64
	Name   string
	Status string
}

// StatusChangeRow records a camp moving to a status at a point in time.
type StatusChangeRow struct {
	CampID    int64     `json:"camp_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// GrantRow is a camp's sponsorship grant metadata.
type GrantRow struct {
	CampID   int64   `json:"camp_id"`
	Name     string  `json:"name"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}
