package main

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"clobcore/domain"
	"clobcore/engine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// tradeCounter is an EventSink that does nothing but count, used to cross
// check the trade count Submit returns directly against what subscribers
// actually observe.
type tradeCounter struct {
	n atomic.Int64
}

func (c *tradeCounter) OnTrade(domain.Trade)               { c.n.Add(1) }
func (c *tradeCounter) OnBookSnapshot(engine.BookSnapshot) {}

func main() {
	fmt.Println("=== matching engine load test ===")

	log := zap.NewNop()
	cfg := engine.DefaultConfig()
	cfg.Symbols["BTCUSDT"] = engine.SymbolConfig{PriceScale: 2, QtyScale: 8}
	eng := engine.New(cfg, log)

	counter := &tradeCounter{}
	eng.Subscribe(counter)

	testDuration := 5 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 2
	if numWorkers < 1 {
		numWorkers = 1
	}

	var orderCount, tradeCount atomic.Int64

	fmt.Printf("CPUs: %d\n", numCPU)
	fmt.Printf("producers: %d (NumCPU - 2)\n", numWorkers)
	fmt.Printf("duration: %v\n\n", testDuration)

	start := time.Now()
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			orderID := 0
			for {
				select {
				case <-stop:
					return
				default:
				}

				var side domain.Side
				price := decimal.NewFromInt(50000 + int64(orderID%200))
				if orderID%2 == 0 {
					side = domain.SideBuy
				} else {
					side = domain.SideSell
				}

				spec := engine.OrderSpec{
					ID:       fmt.Sprintf("w%d-order-%d", workerID, orderID),
					Symbol:   "BTCUSDT",
					Side:     side,
					Type:     domain.OrderTypeLimit,
					Price:    price,
					Quantity: decimal.NewFromInt(1),
				}
				_, trades := eng.Submit(spec)
				orderCount.Add(1)
				tradeCount.Add(int64(len(trades)))
				orderID++
			}
		}(w)
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				elapsed := time.Since(start)
				orders := orderCount.Load()
				trades := tradeCount.Load()
				fmt.Printf("[%.0fs] orders: %d (%.0f/s) | trades: %d (%.0f/s)\n",
					elapsed.Seconds(), orders, float64(orders)/elapsed.Seconds(),
					trades, float64(trades)/elapsed.Seconds())
			}
		}
	}()

	time.Sleep(testDuration)
	close(stop)
	wg.Wait()
	<-progressDone

	elapsed := time.Since(start)
	totalOrders := orderCount.Load()
	totalTrades := tradeCount.Load()

	fmt.Println("\n=== results ===")
	fmt.Printf("duration:        %v\n", elapsed)
	fmt.Printf("total orders:    %d\n", totalOrders)
	fmt.Printf("total trades:    %d\n", totalTrades)
	fmt.Printf("order throughput: %.0f orders/sec\n", float64(totalOrders)/elapsed.Seconds())
	fmt.Printf("trade throughput: %.0f trades/sec\n", float64(totalTrades)/elapsed.Seconds())
	if totalOrders > 0 {
		fmt.Printf("match rate:       %.2f%%\n", float64(totalTrades)/float64(totalOrders)*100)
	}

	// event-sink counter may lag briefly behind the synchronous return-value
	// count, since subscribers drain asynchronously; give it a moment.
	time.Sleep(100 * time.Millisecond)
	fmt.Printf("event sink observed %d trades\n", counter.n.Load())

	bid, ask, bidOK, askOK := eng.BBO("BTCUSDT")
	fmt.Println("\n=== book state ===")
	fmt.Printf("best bid: %s (present=%v)\n", bid, bidOK)
	fmt.Printf("best ask: %s (present=%v)\n", ask, askOK)

	snap, _ := eng.OrderBookSnapshot("BTCUSDT", 5)
	fmt.Println("\nbid depth (top 5):")
	for i, lvl := range snap.Bids {
		fmt.Printf("  %d. price=%s qty=%s\n", i+1, lvl.Price, lvl.Quantity)
	}
	fmt.Println("\nask depth (top 5):")
	for i, lvl := range snap.Asks {
		fmt.Printf("  %d. price=%s qty=%s\n", i+1, lvl.Price, lvl.Quantity)
	}
}
