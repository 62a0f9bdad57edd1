package registry

import (
	"github.com/btccompare/venuecost/internal/models"
)

// Venue is the hand-maintained metadata for a featured venue. Fee schedules
// are curated manually because programmatic fee discovery from connector
// metadata is unreliable across venues.
type Venue struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Countries []string `json:"countries"`
	Featured  bool     `json:"featured"`

	// Primary pair template plus ordered fallbacks tried when the primary
	// returns no usable price. %s is substituted with the asset symbol.
	QuoteCurrency  string   `json:"quote_currency"`
	FallbackQuotes []string `json:"fallback_quotes"`

	SupportedAssets []string        `json:"supported_assets"`
	Fees            *models.FeeData `json:"fees,omitempty"`

	// Deposit fee rate (fraction of notional) per deposit method. Methods
	// missing from the map are treated as free or unsupported.
	DepositMethods map[string]float64 `json:"deposit_methods,omitempty"`

	// Spread estimate used by the comparison engine when no live order
	// book is available, as a fraction of notional.
	SpreadEstimate float64 `json:"spread_estimate"`

	AffiliateURL string `json:"affiliate_url,omitempty"`
	WebsiteURL   string `json:"website_url,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
}

func f64(v float64) *float64 { return &v }

// Featured is the curated venue table. IDs match connector adapter IDs.
var Featured = []Venue{
	{
		ID:              "kraken",
		Name:            "Kraken",
		Countries:       []string{"US"},
		Featured:        true,
		QuoteCurrency:   "%s/USD",
		FallbackQuotes:  []string{"%s/USDT", "%s/EUR"},
		SupportedAssets: []string{"BTC", "ETH", "SOL", "LTC"},
		Fees: &models.FeeData{
			TakerPercent:   0.26,
			MakerPercent:   0.16,
			WithdrawalFee:  f64(0.00001),
			FiatDeposit:    "Free SEPA / $4 wire",
			FiatWithdrawal: "$5 wire",
			Tiers: []models.FeeTier{
				{Label: "$0+", MinVolume: 0, MaxVolume: 50_000, TakerPercent: 0.26, MakerPercent: 0.16},
				{Label: "$50K+", MinVolume: 50_000, MaxVolume: 100_000, TakerPercent: 0.24, MakerPercent: 0.14},
				{Label: "$100K+", MinVolume: 100_000, MaxVolume: 250_000, TakerPercent: 0.22, MakerPercent: 0.12},
				{Label: "$250K+", MinVolume: 250_000, MaxVolume: 500_000, TakerPercent: 0.20, MakerPercent: 0.10},
				{Label: "$500K+", MinVolume: 500_000, MaxVolume: 1_000_000, TakerPercent: 0.18, MakerPercent: 0.08},
			},
		},
		DepositMethods: map[string]float64{"card": 0.037, "wire": 0.0},
		SpreadEstimate: 0.001,
		AffiliateURL:   "https://kraken.com/sign-up?ref=venuecost",
		WebsiteURL:     "https://kraken.com",
		LogoURL:        "/logos/kraken.svg",
	},
	{
		ID:              "coinbase",
		Name:            "Coinbase",
		Countries:       []string{"US"},
		Featured:        true,
		QuoteCurrency:   "%s-USD",
		FallbackQuotes:  []string{"%s-USDT", "%s-EUR"},
		SupportedAssets: []string{"BTC", "ETH", "SOL", "LTC"},
		Fees: &models.FeeData{
			TakerPercent:   0.60,
			MakerPercent:   0.40,
			WithdrawalFee:  f64(0.0),
			FiatDeposit:    "Free ACH / 3.99% card",
			FiatWithdrawal: "$25 wire",
			Tiers: []models.FeeTier{
				{Label: "$0+", MinVolume: 0, MaxVolume: 10_000, TakerPercent: 0.60, MakerPercent: 0.40},
				{Label: "$10K+", MinVolume: 10_000, MaxVolume: 50_000, TakerPercent: 0.40, MakerPercent: 0.25},
				{Label: "$50K+", MinVolume: 50_000, MaxVolume: 100_000, TakerPercent: 0.25, MakerPercent: 0.15},
				{Label: "$100K+", MinVolume: 100_000, MaxVolume: 1_000_000, TakerPercent: 0.20, MakerPercent: 0.10},
			},
		},
		DepositMethods: map[string]float64{"card": 0.0399, "ach": 0.0, "wire": 0.0},
		SpreadEstimate: 0.005,
		AffiliateURL:   "https://coinbase.com/join/venuecost",
		WebsiteURL:     "https://coinbase.com",
		LogoURL:        "/logos/coinbase.svg",
	},
	{
		ID:              "binance",
		Name:            "Binance",
		Countries:       []string{"MT", "FR", "IT"},
		Featured:        true,
		QuoteCurrency:   "%sUSDT",
		FallbackQuotes:  []string{"%sBUSD", "%sUSDC"},
		SupportedAssets: []string{"BTC", "ETH", "SOL", "LTC"},
		Fees: &models.FeeData{
			TakerPercent:   0.10,
			MakerPercent:   0.10,
			WithdrawalFee:  f64(0.0002),
			FiatDeposit:    "Free SEPA / 1.8% card",
			FiatWithdrawal: "1 EUR SEPA",
			Tiers: []models.FeeTier{
				{Label: "VIP 0", MinVolume: 0, MaxVolume: 1_000_000, TakerPercent: 0.10, MakerPercent: 0.10},
				{Label: "VIP 1", MinVolume: 1_000_000, MaxVolume: 5_000_000, TakerPercent: 0.09, MakerPercent: 0.09},
				{Label: "VIP 2", MinVolume: 5_000_000, MaxVolume: 20_000_000, TakerPercent: 0.08, MakerPercent: 0.08},
			},
		},
		DepositMethods: map[string]float64{"card": 0.018, "sepa": 0.0},
		SpreadEstimate: 0.0005,
		AffiliateURL:   "https://accounts.binance.com/register?ref=venuecost",
		WebsiteURL:     "https://binance.com",
		LogoURL:        "/logos/binance.svg",
	},
	{
		ID:              "okx",
		Name:            "OKX",
		Countries:       []string{"SC"},
		Featured:        true,
		QuoteCurrency:   "%s-USDT",
		FallbackQuotes:  []string{"%s-USDC", "%s-USD"},
		SupportedAssets: []string{"BTC", "ETH", "SOL", "LTC"},
		Fees: &models.FeeData{
			TakerPercent:   0.10,
			MakerPercent:   0.08,
			WithdrawalFee:  f64(0.00004),
			FiatDeposit:    "Free bank transfer",
			FiatWithdrawal: "Varies by channel",
		},
		DepositMethods: map[string]float64{"card": 0.02},
		SpreadEstimate: 0.0008,
		WebsiteURL:     "https://okx.com",
		LogoURL:        "/logos/okx.svg",
	},
	{
		ID:              "bitstamp",
		Name:            "Bitstamp",
		Countries:       []string{"LU", "GB"},
		Featured:        true,
		QuoteCurrency:   "%s/USD",
		FallbackQuotes:  []string{"%s/EUR"},
		SupportedAssets: []string{"BTC", "ETH", "LTC"},
		Fees: &models.FeeData{
			TakerPercent:   0.40,
			MakerPercent:   0.30,
			WithdrawalFee:  f64(0.00005),
			FiatDeposit:    "Free SEPA / 5% card",
			FiatWithdrawal: "0.1% SEPA (min 3 EUR)",
			Tiers: []models.FeeTier{
				{Label: "$0+", MinVolume: 0, MaxVolume: 100_000, TakerPercent: 0.40, MakerPercent: 0.30},
				{Label: "$100K+", MinVolume: 100_000, MaxVolume: 1_000_000, TakerPercent: 0.24, MakerPercent: 0.14},
			},
		},
		DepositMethods: map[string]float64{"card": 0.05, "sepa": 0.0},
		SpreadEstimate: 0.002,
		WebsiteURL:     "https://bitstamp.net",
		LogoURL:        "/logos/bitstamp.svg",
	},
	{
		ID:              "gemini",
		Name:            "Gemini",
		Countries:       []string{"US"},
		Featured:        true,
		QuoteCurrency:   "%sUSD",
		FallbackQuotes:  []string{"%sUSDT"},
		SupportedAssets: []string{"BTC", "ETH"},
		Fees: &models.FeeData{
			TakerPercent:   0.40,
			MakerPercent:   0.20,
			WithdrawalFee:  f64(0.0),
			FiatDeposit:    "Free ACH / 3.49% card",
			FiatWithdrawal: "$25 wire",
		},
		DepositMethods: map[string]float64{"card": 0.0349, "ach": 0.0},
		SpreadEstimate: 0.003,
		WebsiteURL:     "https://gemini.com",
		LogoURL:        "/logos/gemini.svg",
	},
	{
		ID:              "bitfinex",
		Name:            "Bitfinex",
		Countries:       []string{"VG"},
		Featured:        true,
		QuoteCurrency:   "t%sUSD",
		FallbackQuotes:  []string{"t%sUST"},
		SupportedAssets: []string{"BTC", "ETH", "SOL", "LTC"},
		Fees: &models.FeeData{
			TakerPercent:   0.20,
			MakerPercent:   0.10,
			WithdrawalFee:  f64(0.0004),
			FiatDeposit:    "0.1% bank transfer",
			FiatWithdrawal: "0.1% (min $60 express)",
		},
		DepositMethods: map[string]float64{"wire": 0.001},
		SpreadEstimate: 0.001,
		WebsiteURL:     "https://bitfinex.com",
		LogoURL:        "/logos/bitfinex.svg",
	},
}

// Blocklist holds venues excluded from discovery outright: defunct, frozen
// withdrawals, or pathologically slow public endpoints.
var Blocklist = map[string]string{
	"ftx":       "defunct",
	"wex":       "defunct",
	"btce":      "defunct",
	"hitbtc":    "frozen withdrawals reported",
	"yobit":     "unreliable public API",
	"coinsbit":  "unreliable public API",
	"bitforex":  "defunct",
	"tradeogre": "timeouts on public endpoints",
}

// IsBlocked reports whether a venue ID is excluded from discovery.
func IsBlocked(id string) bool {
	_, ok := Blocklist[id]
	return ok
}

// Lookup returns the featured entry for a venue ID, if any.
func Lookup(id string) (Venue, bool) {
	for _, v := range Featured {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

// SupportsAsset reports whether a featured venue lists the asset. Unknown
// venues are assumed to support whatever their adapter can quote.
func (v Venue) SupportsAsset(asset string) bool {
	for _, a := range v.SupportedAssets {
		if a == asset {
			return true
		}
	}
	return false
}

// DepositRate returns the fee fraction for a deposit method, 0 when the
// method is free or unsupported.
func (v Venue) DepositRate(method string) float64 {
	if v.DepositMethods == nil {
		return 0
	}
	return v.DepositMethods[method]
}
