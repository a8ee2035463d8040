// Package analytics derives performance figures from the closed-trade
// set. Every query is read-only and operates on trades with a recorded
// PnL; open positions are invisible here.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/storage"
)

// Summary is the headline statistics block.
type Summary struct {
	TotalTrades  int     `json:"total_trades"`
	WinRate      float64 `json:"win_rate"`
	TotalPnl     float64 `json:"total_pnl"`
	AverageWin   float64 `json:"average_win"`
	AverageLoss  float64 `json:"average_loss"`
	ProfitFactor float64 `json:"profit_factor"`
}

// EquityPoint is one step of the cumulative balance curve.
type EquityPoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// DayPerformance aggregates PnL per weekday.
type DayPerformance struct {
	Day   string  `json:"day"`
	Pnl   float64 `json:"pnl"`
	Count int     `json:"count"`
}

// HourPerformance aggregates PnL per hour of day.
type HourPerformance struct {
	Hour  string  `json:"hour"`
	Pnl   float64 `json:"pnl"`
	Count int     `json:"count"`
}

// DailyPnl aggregates PnL per calendar date.
type DailyPnl struct {
	Date string  `json:"date"`
	Pnl  float64 `json:"pnl"`
}

// DirectionPerformance splits results between long and short trades.
type DirectionPerformance struct {
	Direction   string  `json:"direction"`
	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
	TotalPnl    float64 `json:"total_pnl"`
}

// Engine computes analytics over the stored trades.
type Engine struct {
	store *storage.TradeStore
}

// NewEngine creates an analytics engine backed by the given store.
func NewEngine(store *storage.TradeStore) *Engine {
	return &Engine{store: store}
}

func isWin(t *models.Trade) bool {
	return t.IsWin != nil && *t.IsWin
}

// Summary returns the aggregate statistics block. With no closed trades
// every field is zero.
func (e *Engine) Summary() (*Summary, error) {
	trades, err := e.store.ClosedTrades()
	if err != nil {
		return nil, err
	}

	s := &Summary{TotalTrades: len(trades)}
	if s.TotalTrades == 0 {
		return s, nil
	}

	var wins, losses int
	var totalWins, totalLosses float64
	for i := range trades {
		t := &trades[i]
		pnl := *t.Pnl
		s.TotalPnl += pnl
		if isWin(t) {
			wins++
			totalWins += pnl
		} else {
			losses++
			totalLosses += pnl
		}
	}

	s.WinRate = float64(wins) / float64(s.TotalTrades) * 100
	if wins > 0 {
		s.AverageWin = totalWins / float64(wins)
	}
	if losses > 0 {
		s.AverageLoss = totalLosses / float64(losses)
	}
	if absLosses := math.Abs(totalLosses); absLosses > 0 {
		s.ProfitFactor = totalWins / absLosses
	} else if totalWins > 0 {
		s.ProfitFactor = totalWins
	}
	return s, nil
}

// EquityCurve returns the running balance over the closed trades in open
// time order, starting from a synthetic zero point.
func (e *Engine) EquityCurve() ([]EquityPoint, error) {
	trades, err := e.store.ClosedTrades()
	if err != nil {
		return nil, err
	}

	curve := make([]EquityPoint, 0, len(trades)+1)
	curve = append(curve, EquityPoint{Date: "Start", Balance: 0})

	var balance float64
	for i := range trades {
		t := &trades[i]
		balance += *t.Pnl
		label := "Unknown"
		if t.CreatedAt != nil {
			label = t.CreatedAt.Format("2006-01-02 15:04")
		}
		curve = append(curve, EquityPoint{Date: label, Balance: round2(balance)})
	}
	return curve, nil
}

// PerformanceByDay groups closed trades by the weekday they were opened
// on. Trades without an open time are left out.
func (e *Engine) PerformanceByDay() ([]DayPerformance, error) {
	trades, err := e.store.ClosedTrades()
	if err != nil {
		return nil, err
	}

	var pnl [7]float64
	var count [7]int
	for i := range trades {
		t := &trades[i]
		if t.CreatedAt == nil {
			continue
		}
		d := int(t.CreatedAt.Weekday()) // 0 = Sunday
		pnl[d] += *t.Pnl
		count[d]++
	}

	dayNames := [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	out := make([]DayPerformance, 0, 7)
	for d := 0; d < 7; d++ {
		if count[d] == 0 {
			continue
		}
		out = append(out, DayPerformance{Day: dayNames[d], Pnl: pnl[d], Count: count[d]})
	}
	return out, nil
}

// PerformanceByHour groups closed trades by the hour of day they were
// opened at, ascending. Trades without an open time are left out.
func (e *Engine) PerformanceByHour() ([]HourPerformance, error) {
	trades, err := e.store.ClosedTrades()
	if err != nil {
		return nil, err
	}

	var pnl [24]float64
	var count [24]int
	for i := range trades {
		t := &trades[i]
		if t.CreatedAt == nil {
			continue
		}
		h := t.CreatedAt.Hour()
		pnl[h] += *t.Pnl
		count[h]++
	}

	out := make([]HourPerformance, 0, 24)
	for h := 0; h < 24; h++ {
		if count[h] == 0 {
			continue
		}
		out = append(out, HourPerformance{
			Hour:  fmt.Sprintf("%02d:00", h),
			Pnl:   pnl[h],
			Count: count[h],
		})
	}
	return out, nil
}

// DailyPnl sums closed-trade PnL per calendar date, ascending. Trades
// without an open time are left out.
func (e *Engine) DailyPnl() ([]DailyPnl, error) {
	trades, err := e.store.ClosedTrades()
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]float64)
	for i := range trades {
		t := &trades[i]
		if t.CreatedAt == nil {
			continue
		}
		byDate[t.CreatedAt.Format("2006-01-02")] += *t.Pnl
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DailyPnl, 0, len(dates))
	for _, d := range dates {
		out = append(out, DailyPnl{Date: d, Pnl: byDate[d]})
	}
	return out, nil
}

// DirectionPerformance splits the closed trades into long and short
// groups. A trade counts as a win only when its win flag is explicitly
// true; both false and unset are losses.
func (e *Engine) DirectionPerformance() ([]DirectionPerformance, error) {
	trades, err := e.store.ClosedTrades()
	if err != nil {
		return nil, err
	}

	type group struct {
		total int
		wins  int
		pnl   float64
	}
	groups := make(map[string]*group)
	for i := range trades {
		t := &trades[i]
		g := groups[t.Direction]
		if g == nil {
			g = &group{}
			groups[t.Direction] = g
		}
		g.total++
		if isWin(t) {
			g.wins++
		}
		if t.Pnl != nil {
			g.pnl += *t.Pnl
		}
	}

	directions := make([]string, 0, len(groups))
	for d := range groups {
		directions = append(directions, d)
	}
	sort.Strings(directions)

	out := make([]DirectionPerformance, 0, len(directions))
	for _, d := range directions {
		g := groups[d]
		var winRate float64
		if g.total > 0 {
			winRate = round2(float64(g.wins) / float64(g.total) * 100)
		}
		out = append(out, DirectionPerformance{
			Direction:   d,
			TotalTrades: g.total,
			Wins:        g.wins,
			Losses:      g.total - g.wins,
			WinRate:     winRate,
			TotalPnl:    g.pnl,
		})
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
