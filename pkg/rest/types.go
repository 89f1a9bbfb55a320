// Package rest holds the JSON shapes of the HTTP API shared by the server and
// the Go client.
package rest

import (
	"time"

	"github.com/shopspring/decimal"
)

type Skin struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Float         string          `json:"float"`
	Wear          string          `json:"wear"`
	Image         string          `json:"image"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	ProfitLoss    decimal.Decimal `json:"profitLoss"`
	Notes         string          `json:"notes"`
	Trend         *string         `json:"trend"`
	AcquiredAt    time.Time       `json:"acquired_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SkinCreate is the body of POST /v1/skins.
type SkinCreate struct {
	Name          string          `json:"name"`
	Float         string          `json:"float"`
	Wear          string          `json:"wear"`
	Image         string          `json:"image"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Notes         string          `json:"notes"`
	Trend         *string         `json:"trend"`
	AcquiredAt    *time.Time      `json:"acquired_at"`
}

// SkinPatch is the body of PATCH /v1/skins/{id}. Absent fields are left as is.
type SkinPatch struct {
	Name          *string          `json:"name"`
	Float         *string          `json:"float"`
	Wear          *string          `json:"wear"`
	Image         *string          `json:"image"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	Notes         *string          `json:"notes"`
	Trend         *string          `json:"trend"`
	AcquiredAt    *time.Time       `json:"acquired_at"`
}

type SellRequest struct {
	SalePrice decimal.Decimal `json:"sale_price"`
	Notes     string          `json:"notes"`
}

type SellResponse struct {
	Transaction Transaction `json:"transaction"`
}

type Transaction struct {
	ID        int64           `json:"id"`
	SkinID    *int64          `json:"skin_id"`
	Type      string          `json:"transaction_type"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}

type Summary struct {
	Count            int             `json:"count"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	ProfitPercentage decimal.Decimal `json:"profitPercentage"`
	BestPerformers   []Skin          `json:"bestPerformers"`
	WorstPerformers  []Skin          `json:"worstPerformers"`
}

type Portfolio struct {
	Mode    string  `json:"mode"`
	Summary Summary `json:"summary"`
	Skins   []Skin  `json:"skins"`
}

type TradeItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Value       decimal.Decimal `json:"value"`
	MarketTrend string          `json:"marketTrend"`
	Popularity  int             `json:"popularity"`
}

type TradeEvaluateRequest struct {
	YourItems  []TradeItem `json:"yourItems"`
	TheirItems []TradeItem `json:"theirItems"`
}

type TradeEvaluation struct {
	Source     string          `json:"source"`
	Verdict    string          `json:"verdict"`
	Difference decimal.Decimal `json:"difference"`
	YourTotal  decimal.Decimal `json:"yourTotal"`
	TheirTotal decimal.Decimal `json:"theirTotal"`
	Message    string          `json:"message"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// MarketPriceRequest is the body of POST /get-market-prices.
type MarketPriceRequest struct {
	MarketName string `json:"marketName"`
}

type MarketPriceResponse struct {
	Price string `json:"price"`
}

// SteamAPIRequest is the body of POST /steam-api. Action selects between the
// price lookup (empty) and the trade evaluation ("evaluateTrade").
type SteamAPIRequest struct {
	Action         string      `json:"action,omitempty"`
	MarketHashName string      `json:"market_hash_name,omitempty"`
	AppID          int         `json:"appid,omitempty"`
	YourItems      []TradeItem `json:"yourItems,omitempty"`
	TheirItems     []TradeItem `json:"theirItems,omitempty"`
}

type TradeEvaluationResponse struct {
	Evaluation string `json:"evaluation"`
}

// ProxyError is the error envelope of the price proxy endpoints.
type ProxyError struct {
	Error string `json:"error"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
