package repository

import (
	"fmt"
	"strings"
	"time"

	"nfc-transactions-api/model"
)

// TransactionFilter describes an optional set of predicates over the
// transactions table. Each field is independent; whatever is set combines
// into a single conjunctive WHERE clause.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *model.TransactionType
	Status    *model.TransactionStatus
	NFCOnly   bool
	Search    string
	Limit     int
	Offset    int
}

// predicate is one self-contained condition with its placeholder arguments.
type predicate struct {
	expr string
	args []interface{}
}

// predicates renders each active filter as an independent condition. The
// search predicate internally unions three columns but still joins the other
// predicates with AND.
func (f *TransactionFilter) predicates() []predicate {
	var preds []predicate

	// Both bounds are required for the range to apply; a lone bound is the
	// caller's problem and is simply not forwarded here.
	if f.StartDate != nil && f.EndDate != nil {
		preds = append(preds, predicate{
			expr: "transaction_date BETWEEN ? AND ?",
			args: []interface{}{*f.StartDate, *f.EndDate},
		})
	}
	if f.Type != nil {
		preds = append(preds, predicate{expr: "type = ?", args: []interface{}{*f.Type}})
	}
	if f.Status != nil {
		preds = append(preds, predicate{expr: "status = ?", args: []interface{}{*f.Status}})
	}
	if f.NFCOnly {
		preds = append(preds, predicate{expr: "nfc_data IS NOT NULL"})
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		preds = append(preds, predicate{
			expr: "(merchant_name ILIKE ? OR transaction_id ILIKE ? OR category ILIKE ?)",
			args: []interface{}{pattern, pattern, pattern},
		})
	}
	return preds
}

// whereClause joins the active predicates into a WHERE clause with Postgres
// positional placeholders. An empty filter yields an empty clause.
func (f *TransactionFilter) whereClause() (string, []interface{}) {
	preds := f.predicates()
	if len(preds) == 0 {
		return "", nil
	}

	var (
		parts []string
		args  []interface{}
	)
	position := 1
	for _, p := range preds {
		expr := p.expr
		for range p.args {
			expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", position), 1)
			position++
		}
		parts = append(parts, expr)
		args = append(args, p.args...)
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// describe summarizes the active predicates for structured logging.
func (f *TransactionFilter) describe() string {
	var active []string
	if f.StartDate != nil && f.EndDate != nil {
		active = append(active, "date_range")
	}
	if f.Type != nil {
		active = append(active, "type="+string(*f.Type))
	}
	if f.Status != nil {
		active = append(active, "status="+string(*f.Status))
	}
	if f.NFCOnly {
		active = append(active, "nfc_only")
	}
	if f.Search != "" {
		active = append(active, "search")
	}
	if len(active) == 0 {
		return "none"
	}
	return strings.Join(active, ",")
}
