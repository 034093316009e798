package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() Invoice {
	return Invoice{
		Number:        "INV-000012",
		IssuedOn:      "2025-03-03",
		CenterName:    "Little Steps",
		CenterAddress: "12 Garden Road\nSpringfield",
		Currency:      "$",
		StudentName:   "Ana Ruiz",
		GuardianName:  "Marta Ruiz",
		Period:        "March 2025",
		Lines: []Line{
			{Category: "Flexible Fee", Description: "March 2025 - monthly fee (Full day)", Amount: 410},
			{Category: "Extended Schedule", Description: "March 2025 - extended schedule surcharge", Amount: 30},
			{Category: "Enrollment Fee", Description: "enrollment fee (already paid)", Amount: 100, Informational: true},
			{Category: "Penalty", Description: "07/03 - late pickup (17:25)", Amount: 10},
		},
		Total: 450,
	}
}

func rowsOf(rows []Row, kind RowKind) []Row {
	var out []Row
	for _, r := range rows {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$ 136.67", Money("$", 410.0/3))
	assert.Equal(t, "40.00", Money("", 40))
	assert.Equal(t, "€ 0.10", Money("€", 0.1))
}

func TestLayoutSeparatesInformationalLines(t *testing.T) {
	rows := Layout(sampleInvoice())

	items := rowsOf(rows, RowItem)
	require.Len(t, items, 3)
	assert.Equal(t, "Flexible Fee", items[0].Left)
	assert.Equal(t, "$ 410.00", items[0].Right)

	notes := rowsOf(rows, RowNote)
	require.Len(t, notes, 1)
	assert.Equal(t, "enrollment fee (already paid)", notes[0].Mid)
	assert.Equal(t, "($ 100.00)", notes[0].Right)

	total := rowsOf(rows, RowTotal)
	require.Len(t, total, 1)
	assert.Equal(t, "$ 450.00", total[0].Right)

	// notes are printed after the total
	var totalIdx, noteIdx int
	for i, r := range rows {
		switch r.Kind {
		case RowTotal:
			totalIdx = i
		case RowNote:
			noteIdx = i
		}
	}
	assert.Greater(t, noteIdx, totalIdx)
}

func TestLayoutHeader(t *testing.T) {
	rows := Layout(sampleInvoice())

	assert.Equal(t, Row{Kind: RowTitle, Left: "Little Steps"}, rows[0])
	assert.Equal(t, "12 Garden Road", rows[1].Left)
	assert.Equal(t, "Springfield", rows[2].Left)

	texts := rowsOf(rows, RowText)
	var lefts []string
	for _, r := range texts {
		lefts = append(lefts, r.Left)
	}
	assert.Contains(t, lefts, "Invoice INV-000012")
	assert.Contains(t, lefts, "Student: Ana Ruiz")
	assert.Contains(t, lefts, "Guardian: Marta Ruiz")
	assert.Contains(t, lefts, "Period: March 2025")
}

func TestLayoutDefaultsCenterName(t *testing.T) {
	inv := sampleInvoice()
	inv.CenterName = " "
	inv.CenterAddress = ""
	inv.GuardianName = ""

	rows := Layout(inv)
	assert.Equal(t, "Daycare Center", rows[0].Left)
	assert.Equal(t, RowSpacer, rows[1].Kind)
	for _, r := range rowsOf(rows, RowText) {
		assert.NotContains(t, r.Left, "Guardian")
	}
}

func TestRenderInvoiceWithoutFont(t *testing.T) {
	_, err := NewPDFRenderer("/nonexistent/font.ttf").RenderInvoice(sampleInvoice())
	assert.ErrorIs(t, err, ErrFontMissing)
}
