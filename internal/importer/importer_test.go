package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/storage"
)

const sampleCSV = `Trade History Report
Account: 123456

Time,Position,Symbol,Type,Volume,Price,S / L,T / P,Time,Price,Commission,Swap,Profit
2024.01.15 09:30:00,100001,EURUSD,buy,1.00,1.08500,1.08000,1.09500,2024.01.15 14:45:00,1.09000,-7.00,0.00,500.00
2024.01.16 10:00:00,100002,GBPUSD,sell,0.50,1.27000,1.27500,1.26000,2024.01.16 16:20:00,1.26500,-3.50,0.00,250.00
Total: 2 deals
`

func setupImporter(t *testing.T) (*Importer, *storage.TradeStore, *gorm.DB) {
	// A fresh file-backed database per test keeps transactions on one
	// database across pooled connections.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Trade{}))

	store := storage.NewTradeStore(db)
	return New(store, zap.NewNop()), store, db
}

func buildWorkbook(t *testing.T) []byte {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Trade History Report"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{
		"Time", "Position", "Symbol", "Type", "Volume", "Price",
		"S / L", "T / P", "Time", "Price", "Commission", "Swap", "Profit",
	}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{
		"2024.01.15 09:30:00", "100001", "EURUSD", "buy", "1.00", "1.08500",
		"1.08000", "1.09500", "2024.01.15 14:45:00", "1.09000", "-7.00", "0.00", "500.00",
	}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImport_HappyPath(t *testing.T) {
	imp, store, _ := setupImporter(t)

	count, err := imp.Import([]byte(sampleCSV), "history.csv")

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := store.List(0, 100)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "EURUSD", stored[0].Pair)
	assert.Equal(t, models.DirectionLong, stored[0].Direction)
	assert.Equal(t, "GBPUSD", stored[1].Pair)
	assert.Equal(t, models.DirectionShort, stored[1].Direction)
	require.NotNil(t, stored[0].Pnl)
	assert.Equal(t, 500.0, *stored[0].Pnl)
}

func TestImport_Idempotent(t *testing.T) {
	imp, store, _ := setupImporter(t)

	first, err := imp.Import([]byte(sampleCSV), "history.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := imp.Import([]byte(sampleCSV), "history.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	n, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestImport_DuplicateRowsWithinOneFile(t *testing.T) {
	imp, store, _ := setupImporter(t)
	duplicated := strings.Replace(sampleCSV, "Total: 2 deals",
		"2024.01.15 09:30:00,100001,EURUSD,buy,1.00,1.08500,1.08000,1.09500,2024.01.15 14:45:00,1.09000,-7.00,0.00,500.00\nTotal: 3 deals", 1)

	count, err := imp.Import([]byte(duplicated), "history.csv")

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	n, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestImport_FooterTruncatesRemainingRows(t *testing.T) {
	imp, store, _ := setupImporter(t)
	// A valid data row after the footer must not be imported.
	withTrailing := sampleCSV +
		"2024.01.17 11:00:00,100003,USDJPY,buy,1.00,150.000,149.000,151.000,2024.01.17 15:00:00,150.500,-5.00,0.00,50.00\n"

	count, err := imp.Import([]byte(withTrailing), "history.csv")

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	n, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestImport_HeaderNotFound(t *testing.T) {
	imp, store, _ := setupImporter(t)
	data := "Some,Other,Report\n1,2,3\n"

	count, err := imp.Import([]byte(data), "history.csv")

	assert.ErrorIs(t, err, ErrHeaderNotFound)
	assert.Zero(t, count)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImport_UnsupportedFormat(t *testing.T) {
	imp, _, _ := setupImporter(t)

	count, err := imp.Import([]byte(sampleCSV), "history.txt")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, count)
}

func TestImport_RollsBackOnRowError(t *testing.T) {
	imp, store, db := setupImporter(t)
	// Force the second insert to fail: the two rows share a symbol but
	// differ in every dedup field, so the duplicate check lets both
	// through and the unique index rejects the second one.
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX idx_trades_pair_unique ON trades(pair)").Error)

	data := `Time,Position,Symbol,Type,Volume,Price,S / L,T / P,Time,Price,Commission,Swap,Profit
2024.01.15 09:30:00,100001,EURUSD,buy,1.00,1.08500,1.08000,1.09500,2024.01.15 14:45:00,1.09000,-7.00,0.00,500.00
2024.01.16 10:00:00,100002,EURUSD,buy,2.00,1.09000,1.08000,1.09500,2024.01.16 16:20:00,1.09500,-3.50,0.00,100.00
`

	count, err := imp.Import([]byte(data), "history.csv")

	assert.Error(t, err)
	assert.Zero(t, count)

	// Nothing from the failed file may remain.
	n, cntErr := store.Count()
	require.NoError(t, cntErr)
	assert.Zero(t, n)
}

func TestImport_SpreadsheetRoundTrip(t *testing.T) {
	imp, store, _ := setupImporter(t)
	buf := buildWorkbook(t)

	count, err := imp.Import(buf, "history.xlsx")

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, cntErr := store.Count()
	require.NoError(t, cntErr)
	assert.EqualValues(t, 1, n)
}
