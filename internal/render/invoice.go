// Package render turns billing results and attendance records into
// downloadable documents.
package render

import (
	"fmt"
	"math"
	"strings"
)

// Invoice is everything printed on one invoice document.
type Invoice struct {
	Number        string
	IssuedOn      string // YYYY-MM-DD
	CenterName    string
	CenterAddress string
	Currency      string
	StudentName   string
	GuardianName  string
	Period        string
	Lines         []Line
	Total         float64
}

// Line is one printed invoice line.
type Line struct {
	Category      string
	Description   string
	Amount        float64
	Informational bool
}

// RowKind tells the drawer how to style a row.
type RowKind int

const (
	RowTitle RowKind = iota
	RowText
	RowSpacer
	RowHeader
	RowItem
	RowNote
	RowRule
	RowTotal
)

// Row is one laid-out line of the document. Left and Right are the two
// text columns; Right is right-aligned.
type Row struct {
	Kind  RowKind
	Left  string
	Mid   string
	Right string
}

// Money formats an amount rounded to two decimals with the currency symbol.
func Money(currency string, amount float64) string {
	rounded := math.Round(amount*100) / 100
	if currency == "" {
		return fmt.Sprintf("%.2f", rounded)
	}
	return fmt.Sprintf("%s %.2f", currency, rounded)
}

// Layout computes the rows of an invoice in print order.
func Layout(inv Invoice) []Row {
	rows := []Row{{Kind: RowTitle, Left: orDefault(inv.CenterName, "Daycare Center")}}
	if inv.CenterAddress != "" {
		for _, l := range strings.Split(inv.CenterAddress, "\n") {
			rows = append(rows, Row{Kind: RowText, Left: strings.TrimSpace(l)})
		}
	}
	rows = append(rows,
		Row{Kind: RowSpacer},
		Row{Kind: RowText, Left: "Invoice " + inv.Number, Right: inv.IssuedOn},
		Row{Kind: RowText, Left: "Student: " + inv.StudentName},
	)
	if inv.GuardianName != "" {
		rows = append(rows, Row{Kind: RowText, Left: "Guardian: " + inv.GuardianName})
	}
	rows = append(rows,
		Row{Kind: RowText, Left: "Period: " + inv.Period},
		Row{Kind: RowSpacer},
		Row{Kind: RowHeader, Left: "Category", Mid: "Description", Right: "Amount"},
	)

	var notes []Line
	for _, l := range inv.Lines {
		if l.Informational {
			notes = append(notes, l)
			continue
		}
		rows = append(rows, Row{Kind: RowItem, Left: l.Category, Mid: l.Description, Right: Money(inv.Currency, l.Amount)})
	}

	rows = append(rows,
		Row{Kind: RowRule},
		Row{Kind: RowTotal, Left: "Total", Right: Money(inv.Currency, inv.Total)},
	)

	if len(notes) > 0 {
		rows = append(rows, Row{Kind: RowSpacer})
		for _, n := range notes {
			rows = append(rows, Row{
				Kind:  RowNote,
				Left:  n.Category,
				Mid:   n.Description,
				Right: "(" + Money(inv.Currency, n.Amount) + ")",
			})
		}
	}
	return rows
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
