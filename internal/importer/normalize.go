package importer

import (
	"strings"
	"time"

	"trade-journal-go/internal/models"
)

// The export layout is positional. Column names in the header row are
// only used to locate it (see FindHeaderRow); field extraction always
// uses these fixed offsets. A broker-side layout change breaks the
// import loudly rather than mis-mapping fields.
const (
	colOpenTime   = 0
	colPosition   = 1
	colSymbol     = 2
	colType       = 3
	colVolume     = 4
	colEntryPrice = 5
	colStopLoss   = 6
	colTakeProfit = 7
	colCloseTime  = 8
	colExitPrice  = 9
	colCommission = 10
	colSwap       = 11
	colProfit     = 12
)

// openTimeLayout is the exact timestamp format of the export's Time
// column.
const openTimeLayout = "2006.01.02 15:04:05"

// footerMarkers identify the summary section that trails the trade table.
// A first cell containing any of them ends the data region.
var footerMarkers = []string{"orders", "deals", "total", "balance"}

// row wraps one raw line of the export. Cells are untyped external data;
// the accessors apply trimming and numeric coercion at this boundary so
// nothing else handles raw cells.
type row []string

func (r row) text(i int) string {
	if i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

func (r row) float(i int) float64 {
	return CoerceFloat(r.text(i))
}

// rowOutcome tells the orchestrator what to do after normalizing a row.
type rowOutcome int

const (
	// rowTrade: a candidate trade was produced.
	rowTrade rowOutcome = iota
	// rowSkip: ignore this row, keep going (blank line, header repeat).
	rowSkip
	// rowEndOfTable: footer reached, stop processing all further rows.
	rowEndOfTable
)

// normalizeRow converts one raw data row into a trade candidate, or
// signals skip / end-of-table.
//
// The win flag comes straight from the broker's Profit column rather than
// being recomputed from entry and exit, so a broker figure that includes
// swap or commission is taken at face value. Manual entry computes its
// own PnL; the two paths are intentionally not unified.
func normalizeRow(r row) (*models.Trade, rowOutcome) {
	first := strings.ToLower(r.text(colOpenTime))
	for _, marker := range footerMarkers {
		if strings.Contains(first, marker) {
			return nil, rowEndOfTable
		}
	}

	symbol := r.text(colSymbol)
	switch strings.ToLower(symbol) {
	case "", "nan", "symbol":
		return nil, rowSkip
	}

	direction := models.DirectionLong
	if strings.Contains(strings.ToLower(r.text(colType)), "sell") {
		direction = models.DirectionShort
	}

	// An unparseable or blank open time leaves CreatedAt unset rather
	// than defaulting to now.
	var openedAt *time.Time
	if ts := r.text(colOpenTime); ts != "" {
		if t, err := time.Parse(openTimeLayout, ts); err == nil {
			openedAt = &t
		}
	}

	exitPrice := r.float(colExitPrice)
	pnl := r.float(colProfit)
	isWin := pnl > 0
	notes := "Position: " + r.text(colPosition)

	trade := &models.Trade{
		CreatedAt:  openedAt,
		Pair:       symbol,
		Direction:  direction,
		SetupName:  "Imported",
		EntryPrice: r.float(colEntryPrice),
		ExitPrice:  &exitPrice,
		StopLoss:   r.float(colStopLoss),
		TakeProfit: r.float(colTakeProfit),
		Quantity:   r.float(colVolume),
		Commission: r.float(colCommission),
		Pnl:        &pnl,
		IsWin:      &isWin,
		Emotions:   "Neutral",
		Notes:      &notes,
	}
	return trade, rowTrade
}
