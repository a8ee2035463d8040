package journal

import (
	"time"

	"go.uber.org/zap"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/storage"
)

// TradeInput is the payload for creating a trade manually.
type TradeInput struct {
	Pair       string   `json:"pair" validate:"required"`
	Direction  string   `json:"direction" validate:"required,oneof=Long Short"`
	SetupName  string   `json:"setup_name" validate:"required"`
	EntryPrice float64  `json:"entry_price"`
	ExitPrice  *float64 `json:"exit_price"`
	StopLoss   float64  `json:"stop_loss"`
	TakeProfit float64  `json:"take_profit"`
	Quantity   float64  `json:"quantity"`
	Commission *float64 `json:"commission"`
	Emotions   string   `json:"emotions" validate:"required"`
	Mistakes   *string  `json:"mistakes"`
	Notes      *string  `json:"notes"`
	ImageURL   *string  `json:"image_url"`
}

// TradeUpdate is a partial update; nil fields are left untouched.
type TradeUpdate struct {
	Pair       *string  `json:"pair"`
	Direction  *string  `json:"direction" validate:"omitempty,oneof=Long Short"`
	SetupName  *string  `json:"setup_name"`
	EntryPrice *float64 `json:"entry_price"`
	ExitPrice  *float64 `json:"exit_price"`
	StopLoss   *float64 `json:"stop_loss"`
	TakeProfit *float64 `json:"take_profit"`
	Quantity   *float64 `json:"quantity"`
	Commission *float64 `json:"commission"`
	Emotions   *string  `json:"emotions"`
	Mistakes   *string  `json:"mistakes"`
	Notes      *string  `json:"notes"`
	ImageURL   *string  `json:"image_url"`
}

// Service implements manual trade lifecycle operations: create, read,
// partial update, close, delete.
type Service struct {
	store  *storage.TradeStore
	logger *zap.Logger

	// now supplies the open time stamped on manually created trades.
	// Swapped out in tests for a fixed clock.
	now func() time.Time
}

// NewService creates a trade service backed by the given store.
func NewService(store *storage.TradeStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new trade. When an exit price is supplied the PnL and
// win flag are derived before the record is written; otherwise the
// position is stored open.
func (s *Service) Create(in TradeInput) (*models.Trade, error) {
	openedAt := s.now()
	trade := &models.Trade{
		CreatedAt:  &openedAt,
		Pair:       in.Pair,
		Direction:  in.Direction,
		SetupName:  in.SetupName,
		EntryPrice: in.EntryPrice,
		ExitPrice:  in.ExitPrice,
		StopLoss:   in.StopLoss,
		TakeProfit: in.TakeProfit,
		Quantity:   in.Quantity,
		Emotions:   in.Emotions,
		Mistakes:   in.Mistakes,
		Notes:      in.Notes,
		ImageURL:   in.ImageURL,
	}
	if in.Commission != nil {
		trade.Commission = *in.Commission
	}
	if in.ExitPrice != nil {
		pnl, isWin := ComputePnL(trade.Direction, trade.EntryPrice, *in.ExitPrice, trade.Quantity)
		trade.Pnl = &pnl
		trade.IsWin = &isWin
	}

	if err := s.store.Insert(trade); err != nil {
		return nil, err
	}
	s.logger.Info("Trade created",
		zap.Uint("id", trade.ID),
		zap.String("pair", trade.Pair),
		zap.String("direction", trade.Direction))
	return trade, nil
}

// Get returns a single trade by id.
func (s *Service) Get(id uint) (*models.Trade, error) {
	return s.store.Get(id)
}

// List returns a page of trades.
func (s *Service) List(skip, limit int) ([]models.Trade, error) {
	return s.store.List(skip, limit)
}

// Update applies the non-nil fields of upd to an existing trade. If the
// trade ends up with an exit price, PnL and the win flag are recomputed
// from the post-update direction, entry and quantity.
func (s *Service) Update(id uint, upd TradeUpdate) (*models.Trade, error) {
	trade, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if upd.Pair != nil {
		trade.Pair = *upd.Pair
	}
	if upd.Direction != nil {
		trade.Direction = *upd.Direction
	}
	if upd.SetupName != nil {
		trade.SetupName = *upd.SetupName
	}
	if upd.EntryPrice != nil {
		trade.EntryPrice = *upd.EntryPrice
	}
	if upd.ExitPrice != nil {
		trade.ExitPrice = upd.ExitPrice
	}
	if upd.StopLoss != nil {
		trade.StopLoss = *upd.StopLoss
	}
	if upd.TakeProfit != nil {
		trade.TakeProfit = *upd.TakeProfit
	}
	if upd.Quantity != nil {
		trade.Quantity = *upd.Quantity
	}
	if upd.Commission != nil {
		trade.Commission = *upd.Commission
	}
	if upd.Emotions != nil {
		trade.Emotions = *upd.Emotions
	}
	if upd.Mistakes != nil {
		trade.Mistakes = upd.Mistakes
	}
	if upd.Notes != nil {
		trade.Notes = upd.Notes
	}
	if upd.ImageURL != nil {
		trade.ImageURL = upd.ImageURL
	}

	if trade.ExitPrice != nil {
		pnl, isWin := ComputePnL(trade.Direction, trade.EntryPrice, *trade.ExitPrice, trade.Quantity)
		trade.Pnl = &pnl
		trade.IsWin = &isWin
	}

	if err := s.store.Save(trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// Close records the exit price on an open (or already closed) trade and
// derives PnL and the win flag.
func (s *Service) Close(id uint, exitPrice float64) (*models.Trade, error) {
	trade, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	trade.ExitPrice = &exitPrice
	pnl, isWin := ComputePnL(trade.Direction, trade.EntryPrice, exitPrice, trade.Quantity)
	trade.Pnl = &pnl
	trade.IsWin = &isWin

	if err := s.store.Save(trade); err != nil {
		return nil, err
	}
	s.logger.Info("Trade closed",
		zap.Uint("id", trade.ID),
		zap.Float64("exit_price", exitPrice),
		zap.Float64("pnl", pnl))
	return trade, nil
}

// Delete removes a single trade and returns it.
func (s *Service) Delete(id uint) (*models.Trade, error) {
	return s.store.Delete(id)
}

// DeleteAll removes every trade and returns how many were removed.
func (s *Service) DeleteAll() (int64, error) {
	n, err := s.store.DeleteAll()
	if err != nil {
		return 0, err
	}
	s.logger.Warn("All trades cleared", zap.Int64("removed", n))
	return n, nil
}
