package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/wc-tools/camp-reports/pkg/models/store"
)

// ErrNotFound reports a lookup that matched no row.
var ErrNotFound = errors.New("store: not found")

// IndexStore reads the network-wide index tables that the reports join
// against: payment and reimbursement indexes, sponsor invoices, ticket
// sales, camp records and status logs.
type IndexStore struct {
	db *sql.DB
}

func NewIndexStore(db *sql.DB) *IndexStore {
	return &IndexStore{db: db}
}

// Camp returns the camp record for id, or ErrNotFound.
func (s *IndexStore) Camp(ctx context.Context, id int64) (*store.CampRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(site_id, 0), name, status
		FROM camps
		WHERE id = $1`, id)

	var c store.CampRow
	if err := row.Scan(&c.ID, &c.SiteID, &c.Name, &c.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query camp %d: %w", id, err)
	}
	return &c, nil
}

// PaymentIndex returns vendor payments and reimbursement requests that
// could have had activity in the window: created before the window closed
// and either still unpaid or paid after it opened.
func (s *IndexStore) PaymentIndex(ctx context.Context, start, end time.Time, siteID int64) ([]store.PaymentIndexRow, error) {
	logger := zerolog.Ctx(ctx)

	query := `
		(
			SELECT blog_id, post_id
			FROM camp_payments_index
			WHERE created <= $1
				AND (paid = 0 OR paid >= $2)
				AND ($3 = 0 OR blog_id = $3)
		) UNION (
			SELECT blog_id, request_id AS post_id
			FROM camp_reimbursements_index
			WHERE date_requested <= $1
				AND (date_paid = 0 OR date_paid >= $2)
				AND ($3 = 0 OR blog_id = $3)
		)`

	rows, err := s.db.QueryContext(ctx, query, end.Unix(), start.Unix(), siteID)
	if err != nil {
		return nil, fmt.Errorf("query payment index: %w", err)
	}
	defer rows.Close()

	var out []store.PaymentIndexRow
	for rows.Next() {
		var r store.PaymentIndexRow
		if err := rows.Scan(&r.BlogID, &r.PostID); err != nil {
			return nil, fmt.Errorf("scan payment index row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment index: %w", err)
	}

	logger.Debug().Int("rows", len(out)).Msg("payment index loaded")
	return out, nil
}

// PaymentPosts returns the payment posts for one site with their amount
// metadata and lifecycle logs.
func (s *IndexStore) PaymentPosts(ctx context.Context, blogID int64, postIDs []int64) ([]store.PaymentRow, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT blog_id, post_id, post_type, COALESCE(currency, ''), COALESCE(amount, 0), COALESCE(log, '[]')
		FROM camp_payment_posts
		WHERE blog_id = $1 AND post_id = ANY($2)`, blogID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("query payment posts: %w", err)
	}
	defer rows.Close()

	var out []store.PaymentRow
	for rows.Next() {
		var (
			r      store.PaymentRow
			rawLog []byte
		)
		if err := rows.Scan(&r.BlogID, &r.PostID, &r.PostType, &r.Currency, &r.Amount, &rawLog); err != nil {
			return nil, fmt.Errorf("scan payment post: %w", err)
		}
		if err := json.Unmarshal(rawLog, &r.Log); err != nil {
			return nil, fmt.Errorf("decode payment log for post %d: %w", r.PostID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment posts: %w", err)
	}
	return out, nil
}

// TicketSales returns ticket purchase and refund rows inside the window.
func (s *IndexStore) TicketSales(ctx context.Context, start, end time.Time, siteID int64) ([]store.TicketRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at, type, COALESCE(currency, ''),
			COALESCE(gross, 0), COALESCE(discount, 0), COALESCE(amount, 0), COALESCE(gateway, '')
		FROM camp_ticket_sales
		WHERE created_at >= $1 AND created_at <= $2
			AND ($3 = 0 OR blog_id = $3)
		ORDER BY created_at`, start, end, siteID)
	if err != nil {
		return nil, fmt.Errorf("query ticket sales: %w", err)
	}
	defer rows.Close()

	var out []store.TicketRow
	for rows.Next() {
		var r store.TicketRow
		if err := rows.Scan(&r.Timestamp, &r.Type, &r.Currency, &r.Gross, &r.Discount, &r.Amount, &r.Gateway); err != nil {
			return nil, fmt.Errorf("scan ticket sale: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket sales: %w", err)
	}
	return out, nil
}

// SponsorInvoices returns the invoice index entries for one site,
// optionally filtered by status.
func (s *IndexStore) SponsorInvoices(ctx context.Context, siteID int64, status string) ([]store.InvoiceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT blog_id, invoice_id, sponsor_name, status, COALESCE(currency, ''), COALESCE(amount, 0), due_date
		FROM camp_sponsor_invoices_index
		WHERE blog_id = $1
			AND ($2 = '' OR status = $2)
		ORDER BY invoice_id`, siteID, status)
	if err != nil {
		return nil, fmt.Errorf("query sponsor invoices: %w", err)
	}
	defer rows.Close()

	var out []store.InvoiceRow
	for rows.Next() {
		var r store.InvoiceRow
		if err := rows.Scan(&r.BlogID, &r.InvoiceID, &r.Sponsor, &r.Status, &r.Currency, &r.Amount, &r.DueDate); err != nil {
			return nil, fmt.Errorf("scan sponsor invoice: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sponsor invoices: %w", err)
	}
	return out, nil
}

// StatusChanges returns camp status transitions inside the window,
// optionally restricted to one status or one camp.
func (s *IndexStore) StatusChanges(ctx context.Context, start, end time.Time, status string, campID int64) ([]store.StatusChangeRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.camp_id, c.name, l.status, l.changed_at
		FROM camp_status_log l
		JOIN camps c ON c.id = l.camp_id
		WHERE l.changed_at >= $1 AND l.changed_at <= $2
			AND ($3 = '' OR l.status = $3)
			AND ($4 = 0 OR l.camp_id = $4)
		ORDER BY l.changed_at`, start, end, status, campID)
	if err != nil {
		return nil, fmt.Errorf("query status changes: %w", err)
	}
	defer rows.Close()

	var out []store.StatusChangeRow
	for rows.Next() {
		var r store.StatusChangeRow
		if err := rows.Scan(&r.CampID, &r.Name, &r.Status, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status changes: %w", err)
	}
	return out, nil
}

// Grants returns sponsorship grant metadata for the given camps. Camps
// without both a grant currency and amount are omitted.
func (s *IndexStore) Grants(ctx context.Context, campIDs []int64) ([]store.GrantRow, error) {
	if len(campIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.camp_id, c.name, g.currency, g.amount
		FROM camp_grants g
		JOIN camps c ON c.id = g.camp_id
		WHERE g.camp_id = ANY($1)
			AND g.currency <> '' AND g.amount > 0
		ORDER BY g.camp_id`, pq.Array(campIDs))
	if err != nil {
		return nil, fmt.Errorf("query grants: %w", err)
	}
	defer rows.Close()

	var out []store.GrantRow
	for rows.Next() {
		var r store.GrantRow
		if err := rows.Scan(&r.CampID, &r.Name, &r.Currency, &r.Amount); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}
	return out, nil
}
