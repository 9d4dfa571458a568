package papertrade

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"nivesh_pathshala/models"
)

// Errors surfaced to the API layer for 4xx mapping.
var (
	ErrInsufficientFunds    = errors.New("insufficient balance")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidPrice         = errors.New("price must be positive")
)

// Position is one holding enriched with live valuation.
type Position struct {
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	InvestedPaise int64          `json:"invested_paise"`
	ValuePaise    int64          `json:"value_paise"`
	PnLPaise      int64          `json:"pnl_paise"`
}

// Portfolio is the full account snapshot served to the UI.
type Portfolio struct {
	BalancePaise  int64      `json:"balance_paise"`
	InvestedPaise int64      `json:"invested_paise"`
	ValuePaise    int64      `json:"value_paise"`
	PnLPaise      int64      `json:"pnl_paise"`
	Positions     []Position `json:"positions"`
}

// Service runs the paper trading ledger. All balance arithmetic is in
// integer paise and every order executes in a single transaction.
type Service struct {
	db *gorm.DB
}

// NewService creates a paper trading service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// amountPaise converts quantity x price (rupees, 2dp) to exact paise.
func amountPaise(quantity int64, price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(quantity)).Mul(decimal.NewFromInt(100)).IntPart()
}

// GetAccount loads the user's account, creating it with the standard
// starting balance on first touch.
func (s *Service) GetAccount(userID uint) (*models.PaperAccount, error) {
	var account models.PaperAccount
	err := s.db.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.PaperAccount{UserID: userID, BalancePaise: models.InitialBalancePaise}
		if err := s.db.Create(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to create paper account: %w", err)
		}
		return &account, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load paper account: %w", err)
	}
	return &account, nil
}

func validateOrder(quantity int64, price decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// Buy debits the account and opens or averages into a holding.
func (s *Service) Buy(userID uint, symbol string, quantity int64, price decimal.Decimal) (*models.PaperTrade, error) {
	if err := validateOrder(quantity, price); err != nil {
		return nil, err
	}

	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	cost := amountPaise(quantity, price)
	var trade models.PaperTrade

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var acc models.PaperAccount
		if err := tx.First(&acc, account.ID).Error; err != nil {
			return err
		}
		if acc.BalancePaise < cost {
			return ErrInsufficientFunds
		}

		acc.BalancePaise -= cost
		if err := tx.Save(&acc).Error; err != nil {
			return err
		}

		var holding models.PaperHolding
		err := tx.Where("account_id = ? AND symbol = ?", acc.ID, symbol).First(&holding).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			holding = models.PaperHolding{
				AccountID: acc.ID,
				Symbol:    symbol,
				Quantity:  quantity,
				AvgPrice:  price,
			}
			if err := tx.Create(&holding).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			// Weighted average over the combined position.
			oldQty := decimal.NewFromInt(holding.Quantity)
			newQty := decimal.NewFromInt(quantity)
			total := oldQty.Add(newQty)
			holding.AvgPrice = holding.AvgPrice.Mul(oldQty).Add(price.Mul(newQty)).Div(total).Round(2)
			holding.Quantity += quantity
			if err := tx.Save(&holding).Error; err != nil {
				return err
			}
		}

		trade = models.PaperTrade{
			AccountID:   acc.ID,
			Symbol:      symbol,
			Side:        models.TradeSideBuy,
			Quantity:    quantity,
			Price:       price,
			AmountPaise: cost,
		}
		return tx.Create(&trade).Error
	})
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// Sell closes part or all of a holding and credits the proceeds. The
// position row is removed when the quantity reaches zero.
func (s *Service) Sell(userID uint, symbol string, quantity int64, price decimal.Decimal) (*models.PaperTrade, error) {
	if err := validateOrder(quantity, price); err != nil {
		return nil, err
	}

	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	proceeds := amountPaise(quantity, price)
	var trade models.PaperTrade

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var holding models.PaperHolding
		err := tx.Where("account_id = ? AND symbol = ?", account.ID, symbol).First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsufficientHoldings
		}
		if err != nil {
			return err
		}
		if holding.Quantity < quantity {
			return ErrInsufficientHoldings
		}

		holding.Quantity -= quantity
		if holding.Quantity == 0 {
			if err := tx.Delete(&holding).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Save(&holding).Error; err != nil {
				return err
			}
		}

		var acc models.PaperAccount
		if err := tx.First(&acc, account.ID).Error; err != nil {
			return err
		}
		acc.BalancePaise += proceeds
		if err := tx.Save(&acc).Error; err != nil {
			return err
		}

		trade = models.PaperTrade{
			AccountID:   acc.ID,
			Symbol:      symbol,
			Side:        models.TradeSideSell,
			Quantity:    quantity,
			Price:       price,
			AmountPaise: proceeds,
		}
		return tx.Create(&trade).Error
	})
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// Reset wipes holdings and trade history and restores the starting
// balance.
func (s *Service) Reset(userID uint) (*models.PaperAccount, error) {
	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.PaperHolding{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.PaperTrade{}).Error; err != nil {
			return err
		}
		account.BalancePaise = models.InitialBalancePaise
		return tx.Save(account).Error
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Holdings returns the open positions for a user.
func (s *Service) Holdings(userID uint) ([]models.PaperHolding, error) {
	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	var holdings []models.PaperHolding
	if err := s.db.Where("account_id = ?", account.ID).Order("symbol asc").Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	return holdings, nil
}

// Trades returns the most recent executions, newest first.
func (s *Service) Trades(userID uint, limit int) ([]models.PaperTrade, error) {
	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var trades []models.PaperTrade
	if err := s.db.Where("account_id = ?", account.ID).Order("created_at desc, id desc").Limit(limit).Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	return trades, nil
}

// BuildPortfolio values the open positions with the supplied price
// lookup. Symbols the lookup cannot price fall back to their average
// cost so the snapshot stays complete.
func (s *Service) BuildPortfolio(userID uint, priceOf func(symbol string) (decimal.Decimal, bool)) (*Portfolio, error) {
	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.Holdings(userID)
	if err != nil {
		return nil, err
	}

	portfolio := &Portfolio{
		BalancePaise: account.BalancePaise,
		Positions:    make([]Position, 0, len(holdings)),
	}
	for _, h := range holdings {
		current, ok := priceOf(h.Symbol)
		if !ok || !current.IsPositive() {
			current = h.AvgPrice
		}
		invested := amountPaise(h.Quantity, h.AvgPrice)
		value := amountPaise(h.Quantity, current)
		portfolio.InvestedPaise += invested
		portfolio.ValuePaise += value
		portfolio.Positions = append(portfolio.Positions, Position{
			Symbol:        h.Symbol,
			Quantity:      h.Quantity,
			AvgPrice:      h.AvgPrice,
			CurrentPrice:  current,
			InvestedPaise: invested,
			ValuePaise:    value,
			PnLPaise:      value - invested,
		})
	}
	portfolio.PnLPaise = portfolio.ValuePaise - portfolio.InvestedPaise
	return portfolio, nil
}
