// Package simulation walks price-ordered order books to estimate realistic
// market-order fills. Everything here is pure and deterministic: no I/O, no
// shared state, safe to call concurrently.
package simulation

import "github.com/btccompare/venuecost/internal/models"

const (
	// notionalTolerance is the unfilled-notional threshold below which a
	// buy counts as fully filled, in quote-currency units.
	notionalTolerance = 0.01
	// quantityTolerance is the equivalent threshold for sells, scaled to
	// the asset's precision (one satoshi for BTC).
	quantityTolerance = 1e-8
)

// SimulateMarketBuy walks asks in ascending price order and spends notional
// quote currency against them. Levels with non-positive price or quantity
// are skipped, never treated as liquidity. Degenerate inputs (empty book,
// notional <= 0) return a zero result with AmountUnfilled = notional.
func SimulateMarketBuy(asks []models.BookLevel, notional float64) models.MarketSimulationResult {
	if notional <= 0 || len(asks) == 0 {
		return models.MarketSimulationResult{AmountUnfilled: notional}
	}

	var (
		remaining = notional
		received  float64
		levels    int
		bestAsk   float64
	)

	for _, level := range asks {
		if remaining <= 0 {
			break
		}
		if level.Price <= 0 || level.Quantity <= 0 {
			continue
		}
		if bestAsk == 0 {
			bestAsk = level.Price
		}

		levelValue := level.Price * level.Quantity
		if remaining >= levelValue {
			// The whole level is affordable; consume it.
			received += level.Quantity
			remaining -= levelValue
		} else {
			// Partial fill of the final level.
			received += remaining / level.Price
			remaining = 0
		}
		levels++
	}

	spent := notional - remaining

	var avgFill float64
	if received > 0 {
		avgFill = spent / received
	}

	var slippage float64
	if avgFill > 0 && bestAsk > 0 {
		slippage = (avgFill - bestAsk) / bestAsk * 100
	}

	return models.MarketSimulationResult{
		AssetReceived:   received,
		AvgFillPrice:    avgFill,
		SlippagePercent: slippage,
		TotalSpent:      spent,
		FullyFilled:     remaining <= notionalTolerance,
		LevelsConsumed:  levels,
		AmountUnfilled:  remaining,
	}
}

// SimulateMarketSell is the mirror operation: walk bids in descending price
// order selling quantity units of the asset. TotalSpent holds the quote
// proceeds; AmountUnfilled is the unsold quantity in asset units.
func SimulateMarketSell(bids []models.BookLevel, quantity float64) models.MarketSimulationResult {
	if quantity <= 0 || len(bids) == 0 {
		return models.MarketSimulationResult{AmountUnfilled: quantity}
	}

	var (
		remaining = quantity
		proceeds  float64
		levels    int
		bestBid   float64
	)

	for _, level := range bids {
		if remaining <= 0 {
			break
		}
		if level.Price <= 0 || level.Quantity <= 0 {
			continue
		}
		if bestBid == 0 {
			bestBid = level.Price
		}

		if remaining >= level.Quantity {
			proceeds += level.Price * level.Quantity
			remaining -= level.Quantity
		} else {
			proceeds += level.Price * remaining
			remaining = 0
		}
		levels++
	}

	sold := quantity - remaining

	var avgFill float64
	if sold > 0 {
		avgFill = proceeds / sold
	}

	// Selling into descending bids fills below the best bid, so slippage
	// is the shortfall versus the top of book.
	var slippage float64
	if avgFill > 0 && bestBid > 0 {
		slippage = (bestBid - avgFill) / bestBid * 100
	}

	return models.MarketSimulationResult{
		AssetReceived:   sold,
		AvgFillPrice:    avgFill,
		SlippagePercent: slippage,
		TotalSpent:      proceeds,
		FullyFilled:     remaining <= quantityTolerance,
		LevelsConsumed:  levels,
		AmountUnfilled:  remaining,
	}
}
