package models

import "time"

// BookLevel is a single [price, quantity] level in an order book side.
type BookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// OrderBookSummary represents normalized depth data from any venue
type OrderBookSummary struct {
	BestBid       float64 `json:"best_bid"`
	BestAsk       float64 `json:"best_ask"`
	Spread        float64 `json:"spread"`
	SpreadPercent float64 `json:"spread_percent"`

	// Aggregate quantity over the top levels of each side
	BidDepth float64 `json:"bid_depth"`
	AskDepth float64 `json:"ask_depth"`

	// Raw levels sorted by price: asks ascending, bids descending.
	// Consumed by the market-order simulation engine.
	Asks []BookLevel `json:"asks"`
	Bids []BookLevel `json:"bids"`
}

// FeeTier is one row of a volume-tiered fee schedule.
type FeeTier struct {
	Label        string  `json:"label"`
	MinVolume    float64 `json:"min_volume"`
	MaxVolume    float64 `json:"max_volume"`
	TakerPercent float64 `json:"taker_percent"`
	MakerPercent float64 `json:"maker_percent"`
}

// FeeData holds a venue's fee schedule. WithdrawalFee is denominated in the
// traded asset, not the quote currency; nil means unknown.
type FeeData struct {
	TakerPercent  float64  `json:"taker_percent"`
	MakerPercent  float64  `json:"maker_percent"`
	WithdrawalFee *float64 `json:"withdrawal_fee,omitempty"`

	FiatDeposit    string `json:"fiat_deposit,omitempty"`
	FiatWithdrawal string `json:"fiat_withdrawal,omitempty"`

	// Tiers are contiguous and non-decreasing in volume. An empty slice
	// means the venue publishes a flat fee only.
	Tiers []FeeTier `json:"tiers,omitempty"`
}

// VenueStatus is the lifecycle status of one fetch attempt.
type VenueStatus string

const (
	VenueStatusOK    VenueStatus = "ok"
	VenueStatusError VenueStatus = "error"
)

// HealthStatus classifies a venue by its consecutive-failure count.
type HealthStatus string

const (
	HealthUnknown  HealthStatus = "unknown"
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

// VenueRecord is one venue's snapshot from a single fetch cycle. Records are
// built fresh every cycle and never mutated in place; a new snapshot replaces
// the prior cached one. When Status is "error" Price and OrderBook are nil;
// when Status is "ok" Price is non-nil.
type VenueRecord struct {
	SnapshotID string `json:"snapshot_id"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	Region     string `json:"region"`
	Featured   bool   `json:"featured"`

	Price     *float64          `json:"price,omitempty"`
	Pair      string            `json:"pair,omitempty"`
	Fees      *FeeData          `json:"fees,omitempty"`
	OrderBook *OrderBookSummary `json:"order_book,omitempty"`

	Status              VenueStatus  `json:"status"`
	Health              HealthStatus `json:"health"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	Error               string       `json:"error,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

// FetchResult is the orchestrator's answer for one asset.
type FetchResult struct {
	Venues          []VenueRecord `json:"venues"`
	TotalDiscovered int           `json:"total_discovered"`
	Asset           string        `json:"asset"`
	FetchedAt       time.Time     `json:"fetched_at"`
}

// MarketSimulationResult is the outcome of walking an order book with a
// market order. Computed fresh per (book, notional) pair.
type MarketSimulationResult struct {
	AssetReceived   float64 `json:"asset_received"`
	AvgFillPrice    float64 `json:"avg_fill_price"`
	SlippagePercent float64 `json:"slippage_percent"`
	TotalSpent      float64 `json:"total_spent"`
	FullyFilled     bool    `json:"fully_filled"`
	LevelsConsumed  int     `json:"levels_consumed"`
	AmountUnfilled  float64 `json:"amount_unfilled"`
}

// TradeMode selects which side of a comparison request is being priced.
type TradeMode string

const (
	TradeModeBuy  TradeMode = "buy"
	TradeModeSell TradeMode = "sell"
)

// ComparisonRequest carries the caller's parameters for a cost comparison.
type ComparisonRequest struct {
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	DepositMethod string    `json:"deposit_method"`
	Mode          TradeMode `json:"mode"`
}

// ComparisonResult is one venue's cost breakdown for a comparison request.
// Fee components are reported both as percent of notional and in quote
// currency. Rank is 1-based ascending by TotalCost.
type ComparisonResult struct {
	VenueID   string  `json:"venue_id"`
	VenueName string  `json:"venue_name"`
	Price     float64 `json:"price"`

	TradingFeePercent  float64 `json:"trading_fee_percent"`
	TradingFee         float64 `json:"trading_fee"`
	DepositFeePercent  float64 `json:"deposit_fee_percent"`
	DepositFee         float64 `json:"deposit_fee"`
	SpreadPercent      float64 `json:"spread_percent"`
	SpreadCost         float64 `json:"spread_cost"`
	WithdrawalFeeAsset float64 `json:"withdrawal_fee_asset"`
	WithdrawalFee      float64 `json:"withdrawal_fee"`
	TotalCost          float64 `json:"total_cost"`
	TotalCostPercent   float64 `json:"total_cost_percent"`
	NetAssetReceived   float64 `json:"net_asset_received"`

	Rank       int     `json:"rank"`
	IsBestDeal bool    `json:"is_best_deal"`
	ROIVsBest  float64 `json:"roi_vs_best"`
}

// ComparisonOutcome wraps the ranked results with the computation time.
type ComparisonOutcome struct {
	Results   []ComparisonResult `json:"results"`
	Timestamp time.Time          `json:"timestamp"`
}
