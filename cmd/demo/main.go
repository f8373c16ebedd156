package main

import (
	"fmt"

	"clobcore/domain"
	"clobcore/engine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// printSink is the simplest possible EventSink: it just prints what it
// receives. Used here to demonstrate the subscribe path; a real deployment
// would wire an EventSink into a message bus instead.
type printSink struct{}

func (printSink) OnTrade(t domain.Trade) {
	fmt.Printf("trade executed: %s %s @ %s x %s (maker=%s taker=%s)\n",
		t.TradeID, t.Symbol, t.Price, t.Quantity, t.MakerOrderID, t.TakerOrderID)
}

func (printSink) OnBookSnapshot(s engine.BookSnapshot) {
	fmt.Printf("book snapshot: %s seq=%d bids=%d asks=%d\n", s.Symbol, s.Sequence, len(s.Bids), len(s.Asks))
}

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()

	cfg := engine.DefaultConfig()
	cfg.Symbols["BTCUSDT"] = engine.SymbolConfig{PriceScale: 2, QtyScale: 8}

	eng := engine.New(cfg, log)
	eng.Subscribe(printSink{})

	fmt.Println("engine started")
	fmt.Printf("registered symbols: %v\n", eng.Symbols())

	sell := engine.OrderSpec{
		ID:       "order-1",
		Symbol:   "BTCUSDT",
		Side:     domain.SideSell,
		Type:     domain.OrderTypeLimit,
		Price:    decimal.NewFromFloat(50000),
		Quantity: decimal.NewFromFloat(1),
	}
	sellOrder, _ := eng.Submit(sell)
	fmt.Printf("submitted sell order: status=%s\n", sellOrder.Status)

	buy := engine.OrderSpec{
		ID:       "order-2",
		Symbol:   "BTCUSDT",
		Side:     domain.SideBuy,
		Type:     domain.OrderTypeLimit,
		Price:    decimal.NewFromFloat(50000),
		Quantity: decimal.NewFromFloat(0.5),
	}
	buyOrder, trades := eng.Submit(buy)
	fmt.Printf("submitted buy order: status=%s, trades=%d\n", buyOrder.Status, len(trades))

	bid, ask, bidOK, askOK := eng.BBO("BTCUSDT")
	fmt.Printf("BBO: bid=%s(%v) ask=%s(%v)\n", bid, bidOK, ask, askOK)

	for _, t := range eng.RecentTrades("BTCUSDT", 10) {
		fmt.Printf("recent trade: %s price=%s qty=%s\n", t.TradeID, t.Price, t.Quantity)
	}
}
