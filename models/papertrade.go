package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InitialBalancePaise is the fixed starting balance for every paper
// trading account: Rs 10,00,000 in paise.
const InitialBalancePaise int64 = 100000000

// Trade side constants
const (
	TradeSideBuy  = "BUY"
	TradeSideSell = "SELL"
)

// PaperAccount represents a user's virtual brokerage account.
// Balance is held in paise so bookkeeping stays exact.
type PaperAccount struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BalancePaise int64     `gorm:"not null" json:"balance_paise"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PaperHolding represents an aggregated position in one symbol
type PaperHolding struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	AccountID uint            `gorm:"index:idx_account_symbol,unique" json:"account_id"`
	Symbol    string          `gorm:"index:idx_account_symbol,unique" json:"symbol"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	AvgPrice  decimal.Decimal `gorm:"type:decimal(15,2)" json:"avg_price"` // rupees
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PaperTrade represents one executed simulator order (append-only log)
type PaperTrade struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	AccountID   uint            `gorm:"index" json:"account_id"`
	Symbol      string          `gorm:"index" json:"symbol"`
	Side        string          `json:"side"` // BUY, SELL
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(15,2)" json:"price"` // rupees
	AmountPaise int64           `json:"amount_paise"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MigratePaperTradeModels runs database migrations for paper trading models
func MigratePaperTradeModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&PaperAccount{},
		&PaperHolding{},
		&PaperTrade{},
	)
}
