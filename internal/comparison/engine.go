// Package comparison combines live venue prices with curated fee schedules
// into a ranked total-cost breakdown. Pure functions only: results depend on
// the inputs and nothing else, and are computed fresh per request.
package comparison

import (
	"sort"
	"time"

	"github.com/btccompare/venuecost/internal/models"
	"github.com/btccompare/venuecost/internal/registry"
)

// Calculate produces one ranked ComparisonResult per featured venue with an
// available price. Venues missing from prices are left out; a single venue
// still produces a one-row ranking.
func Calculate(prices map[string]float64, req models.ComparisonRequest) models.ComparisonOutcome {
	if req.Amount <= 0 {
		return models.ComparisonOutcome{Results: []models.ComparisonResult{}, Timestamp: time.Now()}
	}

	results := make([]models.ComparisonResult, 0, len(prices))

	for _, venue := range registry.Featured {
		price, ok := prices[venue.ID]
		if !ok || price <= 0 {
			continue
		}
		results = append(results, calculateVenue(venue, price, req))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalCost < results[j].TotalCost
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	if len(results) > 0 {
		results[0].IsBestDeal = true
		best := results[0].TotalCost
		for i := 1; i < len(results); i++ {
			results[i].ROIVsBest = (results[i].TotalCost - best) / req.Amount * 100
		}
	}

	return models.ComparisonOutcome{Results: results, Timestamp: time.Now()}
}

func calculateVenue(venue registry.Venue, price float64, req models.ComparisonRequest) models.ComparisonResult {
	takerPercent, _ := FeesForVolume(venue, req.Amount)
	takerRate := takerPercent / 100

	depositRate := venue.DepositRate(req.DepositMethod)
	spreadRate := venue.SpreadEstimate

	tradingFee := req.Amount * takerRate
	depositFee := req.Amount * depositRate
	spreadCost := req.Amount * spreadRate

	var withdrawalAsset float64
	if venue.Fees != nil && venue.Fees.WithdrawalFee != nil {
		withdrawalAsset = *venue.Fees.WithdrawalFee
	}
	withdrawalFee := withdrawalAsset * price

	totalCost := tradingFee + depositFee + spreadCost + withdrawalFee

	// Buy mode nets out every cost from the asset amount received. Sell
	// mode reports the gross quantity being sold: the caller is disposing
	// of the asset, not receiving it.
	var netReceived float64
	switch req.Mode {
	case models.TradeModeSell:
		netReceived = req.Amount
	default:
		netReceived = (req.Amount - depositFee) / price
		netReceived *= 1 - takerRate
		netReceived *= 1 - spreadRate
		netReceived -= withdrawalAsset
	}

	return models.ComparisonResult{
		VenueID:            venue.ID,
		VenueName:          venue.Name,
		Price:              price,
		TradingFeePercent:  takerPercent,
		TradingFee:         tradingFee,
		DepositFeePercent:  depositRate * 100,
		DepositFee:         depositFee,
		SpreadPercent:      spreadRate * 100,
		SpreadCost:         spreadCost,
		WithdrawalFeeAsset: withdrawalAsset,
		WithdrawalFee:      withdrawalFee,
		TotalCost:          totalCost,
		TotalCostPercent:   totalCost / req.Amount * 100,
		NetAssetReceived:   netReceived,
	}
}

// FeesForVolume selects the fee tier whose [MinVolume, MaxVolume) range
// contains volume, falling back to the venue's base fee when no tier
// matches or the venue has no tiers.
func FeesForVolume(venue registry.Venue, volume float64) (takerPercent, makerPercent float64) {
	if venue.Fees == nil {
		return 0, 0
	}
	for _, tier := range venue.Fees.Tiers {
		if volume >= tier.MinVolume && volume < tier.MaxVolume {
			return tier.TakerPercent, tier.MakerPercent
		}
	}
	return venue.Fees.TakerPercent, venue.Fees.MakerPercent
}
