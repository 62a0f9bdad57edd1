package orchestrator

import (
	"github.com/btccompare/venuecost/internal/connector"
	"github.com/btccompare/venuecost/internal/models"
)

// summarizeBook normalizes a raw order book into the snapshot summary the
// simulation and comparison engines consume. Levels with non-positive price
// or quantity are discarded here so downstream consumers never see them.
// Returns nil when neither side has a valid level.
func summarizeBook(book connector.OrderBook) *models.OrderBookSummary {
	asks := validLevels(book.Asks)
	bids := validLevels(book.Bids)
	if len(asks) == 0 && len(bids) == 0 {
		return nil
	}

	summary := &models.OrderBookSummary{Asks: asks, Bids: bids}

	for _, l := range asks {
		summary.AskDepth += l.Quantity
	}
	for _, l := range bids {
		summary.BidDepth += l.Quantity
	}

	if len(asks) > 0 {
		summary.BestAsk = asks[0].Price
	}
	if len(bids) > 0 {
		summary.BestBid = bids[0].Price
	}
	if summary.BestAsk > 0 && summary.BestBid > 0 {
		summary.Spread = summary.BestAsk - summary.BestBid
		mid := (summary.BestAsk + summary.BestBid) / 2
		summary.SpreadPercent = summary.Spread / mid * 100
	}

	return summary
}

func validLevels(levels []models.BookLevel) []models.BookLevel {
	out := make([]models.BookLevel, 0, len(levels))
	for _, l := range levels {
		if l.Price <= 0 || l.Quantity <= 0 {
			continue
		}
		out = append(out, l)
	}
	return out
}
