package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

// ErrNotFound is returned when an operation targets a trade id that does
// not exist.
var ErrNotFound = errors.New("trade not found")

// DuplicateKey is the composite identity used to recognize an
// already-imported trade. CreatedAt is part of the key; two records whose
// open time failed to parse (both nil) compare equal on it.
type DuplicateKey struct {
	Pair       string
	Direction  string
	Quantity   float64
	EntryPrice float64
	CreatedAt  *time.Time
}

// TradeStore wraps the database handle with the trade queries the rest of
// the application needs.
type TradeStore struct {
	db *gorm.DB
}

// NewTradeStore creates a store around an open gorm handle.
func NewTradeStore(db *gorm.DB) *TradeStore {
	return &TradeStore{db: db}
}

// InTx runs fn inside a single transaction. The store passed to fn issues
// every query through that transaction, so uncommitted inserts are visible
// to subsequent duplicate checks. A non-nil error from fn rolls everything
// back.
func (s *TradeStore) InTx(fn func(tx *TradeStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&TradeStore{db: tx})
	})
}

// Insert persists a new trade and fills in its assigned id.
func (s *TradeStore) Insert(trade *models.Trade) error {
	if err := s.db.Create(trade).Error; err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// Get returns the trade with the given id, or ErrNotFound.
func (s *TradeStore) Get(id uint) (*models.Trade, error) {
	var trade models.Trade
	if err := s.db.First(&trade, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trade %d: %w", id, err)
	}
	return &trade, nil
}

// List returns trades in insertion order, paged by offset and limit.
func (s *TradeStore) List(offset, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	if err := s.db.Offset(offset).Limit(limit).Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// Save writes back every field of an existing trade.
func (s *TradeStore) Save(trade *models.Trade) error {
	if err := s.db.Save(trade).Error; err != nil {
		return fmt.Errorf("failed to save trade %d: %w", trade.ID, err)
	}
	return nil
}

// Delete removes the trade with the given id and returns it, or
// ErrNotFound if it never existed.
func (s *TradeStore) Delete(id uint) (*models.Trade, error) {
	trade, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(&models.Trade{}, id).Error; err != nil {
		return nil, fmt.Errorf("failed to delete trade %d: %w", id, err)
	}
	return trade, nil
}

// DeleteAll removes every trade and returns how many were removed.
func (s *TradeStore) DeleteAll() (int64, error) {
	res := s.db.Where("1 = 1").Delete(&models.Trade{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear trades: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Count returns the total number of stored trades.
func (s *TradeStore) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.Trade{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return n, nil
}

// HasDuplicate reports whether a trade matching the full key already
// exists. NULL open times only match other NULL open times.
func (s *TradeStore) HasDuplicate(key DuplicateKey) (bool, error) {
	q := s.db.Model(&models.Trade{}).
		Where("pair = ? AND direction = ? AND quantity = ? AND entry_price = ?",
			key.Pair, key.Direction, key.Quantity, key.EntryPrice)
	if key.CreatedAt != nil {
		q = q.Where("created_at = ?", key.CreatedAt)
	} else {
		q = q.Where("created_at IS NULL")
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check for duplicate trade: %w", err)
	}
	return n > 0, nil
}

// ClosedTrades returns every trade with a recorded PnL, ordered by open
// time ascending. Trades without an open time sort first, matching
// sqlite's NULL ordering.
func (s *TradeStore) ClosedTrades() ([]models.Trade, error) {
	var trades []models.Trade
	if err := s.db.Where("pnl IS NOT NULL").Order("created_at").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to load closed trades: %w", err)
	}
	return trades, nil
}
