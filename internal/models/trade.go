package models

import "time"

// Trade directions. Long positions profit when price rises, short
// positions when it falls.
const (
	DirectionLong  = "Long"
	DirectionShort = "Short"
)

// Trade represents a single journal entry in the database.
//
// CreatedAt is the trade's open time, not a bookkeeping timestamp: it is
// the ordering key for the equity curve and the grouping key for the
// time-bucketed stats. It is a pointer because imported rows with an
// unparseable time column are stored without one.
type Trade struct {
	ID uint `json:"id" gorm:"primarykey"`
	// autoCreateTime is off: an imported row whose time column failed
	// to parse must stay NULL instead of being stamped at insert.
	CreatedAt  *time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	Pair       string     `json:"pair" gorm:"index"`
	Direction  string     `json:"direction"`
	SetupName  string     `json:"setup_name"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  *float64   `json:"exit_price"`
	StopLoss   float64    `json:"stop_loss"`
	TakeProfit float64    `json:"take_profit"`
	Quantity   float64    `json:"quantity"`
	Commission float64    `json:"commission"`
	Pnl        *float64   `json:"pnl"`
	IsWin      *bool      `json:"is_win"`
	Emotions   string     `json:"emotions"`
	Mistakes   *string    `json:"mistakes"`
	Notes      *string    `json:"notes"`
	ImageURL   *string    `json:"image_url"`
}

// Closed reports whether the position has been exited. Pnl and IsWin are
// set if and only if this is true.
func (t *Trade) Closed() bool {
	return t.ExitPrice != nil
}
