package journal

import "trade-journal-go/internal/models"

// ComputePnL returns the signed profit of a closed position and whether it
// counts as a win. Long: (exit - entry) * quantity. Short: (entry - exit)
// * quantity. A flat result is not a win.
func ComputePnL(direction string, entry, exit, quantity float64) (pnl float64, isWin bool) {
	if direction == models.DirectionLong {
		pnl = (exit - entry) * quantity
	} else {
		pnl = (entry - exit) * quantity
	}
	return pnl, pnl > 0
}
