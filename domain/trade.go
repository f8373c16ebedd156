package domain

import "github.com/shopspring/decimal"

// Trade is an immutable record of one execution between a maker and a
// taker order, always priced at the maker's resting price.
type Trade struct {
	TradeID       string
	Symbol        string
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	MakerOrderID  string
	TakerOrderID  string
	AggressorSide Side
	Timestamp     int64
}

// NewTrade constructs a Trade. id and timestamp are assigned by the engine,
// never derived from the orders themselves.
func NewTrade(id, symbol string, price, quantity decimal.Decimal, makerID, takerID string, aggressor Side, timestamp int64) Trade {
	return Trade{
		TradeID:       id,
		Symbol:        symbol,
		Price:         price,
		Quantity:      quantity,
		MakerOrderID:  makerID,
		TakerOrderID:  takerID,
		AggressorSide: aggressor,
		Timestamp:     timestamp,
	}
}
