package importer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"trade-journal-go/internal/storage"
)

// ErrHeaderNotFound is returned when no row of the uploaded table names
// both the Time and Position columns.
var ErrHeaderNotFound = errors.New("could not find trade table header in file")

// Importer drives the import pipeline: decode, locate the header, then
// normalize, dedup and persist each data row inside one transaction.
type Importer struct {
	store  *storage.TradeStore
	logger *zap.Logger
}

// New creates an importer backed by the given store.
func New(store *storage.TradeStore, logger *zap.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// Import ingests one uploaded file and returns how many trades it added.
// The whole file is one unit of work: if any row fails to persist, every
// row already inserted from this file is rolled back and the count is
// zero. Existing records are never touched.
func (im *Importer) Import(data []byte, filename string) (int, error) {
	rows, err := DecodeTable(data, filename)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return 0, err
		}
		return 0, fmt.Errorf("error processing file: %w", err)
	}

	headerIdx := FindHeaderRow(rows)
	if headerIdx < 0 {
		return 0, ErrHeaderNotFound
	}

	imported := 0
	err = im.store.InTx(func(tx *storage.TradeStore) error {
		for _, raw := range rows[headerIdx+1:] {
			trade, outcome := normalizeRow(raw)
			if outcome == rowEndOfTable {
				break
			}
			if outcome == rowSkip {
				continue
			}

			// Duplicate checks go through the transaction so a file
			// repeating its own rows dedups against them too.
			dup, err := tx.HasDuplicate(storage.DuplicateKey{
				Pair:       trade.Pair,
				Direction:  trade.Direction,
				Quantity:   trade.Quantity,
				EntryPrice: trade.EntryPrice,
				CreatedAt:  trade.CreatedAt,
			})
			if err != nil {
				return err
			}
			if dup {
				continue
			}

			if err := tx.Insert(trade); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		im.logger.Error("Import failed, rolled back", zap.String("filename", filename), zap.Error(err))
		return 0, fmt.Errorf("error processing file: %w", err)
	}

	im.logger.Info("Import finished",
		zap.String("filename", filename),
		zap.Int("imported", imported))
	return imported, nil
}
