package papertrade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nivesh_pathshala/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache database keeps every pooled connection on the
	// same in-memory store while isolating tests from each other.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.MigrateUserModels(db))
	require.NoError(t, models.MigratePaperTradeModels(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func rupees(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetAccountAutoCreates(t *testing.T) {
	svc := NewService(newTestDB(t))

	account, err := svc.GetAccount(1)
	require.NoError(t, err)
	assert.Equal(t, models.InitialBalancePaise, account.BalancePaise)

	again, err := svc.GetAccount(1)
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID)
}

func TestBuyDebitsExactPaise(t *testing.T) {
	svc := NewService(newTestDB(t))

	trade, err := svc.Buy(1, "RELIANCE", 10, rupees("2845.55"))
	require.NoError(t, err)

	// 10 x 2845.55 rupees is exactly 2845550 paise, no float drift.
	assert.EqualValues(t, 2845550, trade.AmountPaise)
	assert.Equal(t, models.TradeSideBuy, trade.Side)

	account, err := svc.GetAccount(1)
	require.NoError(t, err)
	assert.Equal(t, models.InitialBalancePaise-2845550, account.BalancePaise)

	holdings, err := svc.Holdings(1)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.EqualValues(t, 10, holdings[0].Quantity)
	assert.True(t, holdings[0].AvgPrice.Equal(rupees("2845.55")))
}

func TestBuyInsufficientFunds(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Buy(1, "MRF", 100, rupees("150000"))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// The failed order must not touch the ledger.
	account, err := svc.GetAccount(1)
	require.NoError(t, err)
	assert.Equal(t, models.InitialBalancePaise, account.BalancePaise)

	holdings, err := svc.Holdings(1)
	require.NoError(t, err)
	assert.Empty(t, holdings)

	trades, err := svc.Trades(1, 10)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestBuyWeightedAverage(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Buy(1, "TCS", 10, rupees("3000"))
	require.NoError(t, err)
	_, err = svc.Buy(1, "TCS", 30, rupees("3400"))
	require.NoError(t, err)

	holdings, err := svc.Holdings(1)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.EqualValues(t, 40, holdings[0].Quantity)
	// (10*3000 + 30*3400) / 40 = 3300
	assert.True(t, holdings[0].AvgPrice.Equal(rupees("3300")),
		"got %s", holdings[0].AvgPrice)
}

func TestSellValidation(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Sell(1, "TCS", 5, rupees("3000"))
	assert.ErrorIs(t, err, ErrInsufficientHoldings)

	_, err = svc.Buy(1, "TCS", 5, rupees("3000"))
	require.NoError(t, err)

	_, err = svc.Sell(1, "TCS", 6, rupees("3000"))
	assert.ErrorIs(t, err, ErrInsufficientHoldings)

	// The rejected oversell must not mutate the position.
	holdings, err := svc.Holdings(1)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.EqualValues(t, 5, holdings[0].Quantity)
}

func TestSellToZeroRemovesHolding(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Buy(1, "INFY", 8, rupees("1500.25"))
	require.NoError(t, err)

	trade, err := svc.Sell(1, "INFY", 8, rupees("1520.75"))
	require.NoError(t, err)
	assert.EqualValues(t, 1216600, trade.AmountPaise)

	holdings, err := svc.Holdings(1)
	require.NoError(t, err)
	assert.Empty(t, holdings)

	account, err := svc.GetAccount(1)
	require.NoError(t, err)
	// Bought at 1200200 paise, sold at 1216600: net +16400.
	assert.Equal(t, models.InitialBalancePaise+16400, account.BalancePaise)
}

func TestPartialSellKeepsAvgPrice(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Buy(1, "SBIN", 20, rupees("820"))
	require.NoError(t, err)
	_, err = svc.Sell(1, "SBIN", 5, rupees("850"))
	require.NoError(t, err)

	holdings, err := svc.Holdings(1)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.EqualValues(t, 15, holdings[0].Quantity)
	assert.True(t, holdings[0].AvgPrice.Equal(rupees("820")))
}

func TestOrderValidation(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Buy(1, "TCS", 0, rupees("3000"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Buy(1, "TCS", -3, rupees("3000"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Buy(1, "TCS", 1, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = svc.Sell(1, "TCS", 1, rupees("-10"))
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestReset(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Buy(1, "TCS", 10, rupees("3000"))
	require.NoError(t, err)
	_, err = svc.Buy(1, "INFY", 5, rupees("1500"))
	require.NoError(t, err)

	account, err := svc.Reset(1)
	require.NoError(t, err)
	assert.Equal(t, models.InitialBalancePaise, account.BalancePaise)

	holdings, err := svc.Holdings(1)
	require.NoError(t, err)
	assert.Empty(t, holdings)

	trades, err := svc.Trades(1, 50)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestTradesLimit(t *testing.T) {
	svc := NewService(newTestDB(t))

	for i := 0; i < 6; i++ {
		_, err := svc.Buy(1, "ITC", 1, rupees("450"))
		require.NoError(t, err)
	}

	trades, err := svc.Trades(1, 4)
	require.NoError(t, err)
	assert.Len(t, trades, 4)

	// Out-of-range limits fall back to the default.
	trades, err = svc.Trades(1, 0)
	require.NoError(t, err)
	assert.Len(t, trades, 6)
}

func TestBuildPortfolio(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Buy(1, "TCS", 10, rupees("3000"))
	require.NoError(t, err)
	_, err = svc.Buy(1, "UNPRICED", 4, rupees("100"))
	require.NoError(t, err)

	priceOf := func(symbol string) (decimal.Decimal, bool) {
		if symbol == "TCS" {
			return rupees("3100"), true
		}
		return decimal.Zero, false
	}

	portfolio, err := svc.BuildPortfolio(1, priceOf)
	require.NoError(t, err)
	require.Len(t, portfolio.Positions, 2)

	// 10*3000*100 + 4*100*100 invested.
	assert.EqualValues(t, 3040000, portfolio.InvestedPaise)
	// TCS valued at the live price, UNPRICED falls back to avg cost.
	assert.EqualValues(t, 3140000, portfolio.ValuePaise)
	assert.EqualValues(t, 100000, portfolio.PnLPaise)

	spent := amountPaise(10, rupees("3000")) + amountPaise(4, rupees("100"))
	assert.Equal(t, models.InitialBalancePaise-spent, portfolio.BalancePaise)
}
