package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/wc-tools/camp-reports/pkg/models/domain"
	"github.com/wc-tools/camp-reports/pkg/reports"
	"github.com/wc-tools/camp-reports/pkg/reports/definitions"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

type TableConfig struct {
	CurrencyWidth int
	AmountWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CurrencyWidth: 10,
		AmountWidth:   16,
	}
}

// Reporter renders report output to a writer as a table, CSV rows or JSON.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// Render writes the report payload in the requested format. Accumulated
// report errors render before any data.
func (r *Reporter) Render(format, slug string, data any, errs []reports.Error) error {
	if len(errs) > 0 {
		for _, e := range errs {
			if _, err := fmt.Fprintf(r.writer, "error [%s]: %s\n", e.Code, e.Message); err != nil {
				return err
			}
		}
		return nil
	}

	switch format {
	case FormatCSV:
		if groups, ok := currencyGroups(data); ok {
			return r.renderCSV(groups)
		}
		return r.renderJSON(data)
	case FormatJSON:
		return r.renderJSON(data)
	default:
		if groups, ok := currencyGroups(data); ok {
			return r.renderTable(slug, groups)
		}
		return r.renderJSON(data)
	}
}

// currencyGroups extracts currency-bucket groups from the payloads that
// carry them; other payloads fall back to JSON rendering.
func currencyGroups(data any) ([]domain.Group, bool) {
	switch v := data.(type) {
	case []domain.Group:
		return v, true
	case definitions.SponsorInvoicesData:
		return v.Totals, true
	case definitions.SponsorshipGrantsData:
		return v.Totals, true
	default:
		return nil, false
	}
}

func (r *Reporter) renderJSON(data any) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (r *Reporter) renderCSV(groups []domain.Group) error {
	w := csv.NewWriter(r.writer)
	if err := w.Write([]string{"group", "currency", "gross", "discount", "refunded", "net", "converted_usd"}); err != nil {
		return err
	}
	for _, g := range groups {
		for _, b := range g.Buckets {
			record := []string{
				g.Name,
				b.Currency,
				formatAmount(b.Gross),
				formatAmount(b.Discount),
				formatAmount(b.Refunded),
				formatAmount(b.Net),
				formatAmount(b.ConvertedUSD),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func (r *Reporter) renderTable(slug string, groups []domain.Group) error {
	funcMap := template.FuncMap{
		"formatRow": func(currency string, net, converted any) string {
			return fmt.Sprintf("| %-*s | %*v | %*v |",
				r.config.CurrencyWidth, currency,
				r.config.AmountWidth, net,
				r.config.AmountWidth, converted)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", r.config.CurrencyWidth+2),
				strings.Repeat("-", r.config.AmountWidth+2),
				strings.Repeat("-", r.config.AmountWidth+2))
		},
		"amount": formatAmount,
	}

	tmpl := `{{$slug := .Slug}}{{range .Groups}}
=== {{$slug}}: {{.Name}} ===

{{separator}}
{{formatRow "Currency" "Net" "USD"}}
{{separator}}
{{range .Buckets}}{{formatRow .Currency (amount .Net) (amount .ConvertedUSD)}}
{{end}}{{separator}}
Total (USD): {{amount .TotalUSD}}
{{end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(r.writer, struct {
		Slug   string
		Groups []domain.Group
	}{Slug: slug, Groups: groups})
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
