package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/btccompare/venuecost/internal/cache"
	"github.com/btccompare/venuecost/internal/comparison"
	"github.com/btccompare/venuecost/internal/config"
	"github.com/btccompare/venuecost/internal/connector"
	"github.com/btccompare/venuecost/internal/health"
	httpapi "github.com/btccompare/venuecost/internal/interfaces/http"
	"github.com/btccompare/venuecost/internal/interfaces/http/handlers"
	"github.com/btccompare/venuecost/internal/metrics"
	"github.com/btccompare/venuecost/internal/models"
	"github.com/btccompare/venuecost/internal/net/breaker"
	"github.com/btccompare/venuecost/internal/net/ratelimit"
	"github.com/btccompare/venuecost/internal/orchestrator"
	"github.com/btccompare/venuecost/internal/simulation"
)

const (
	appName = "venuecost"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Compare true trading costs across crypto venues",
		Version: version,
		Long: `venuecost aggregates live prices, order books, and fee schedules from
external trading venues and computes the true cost of executing a trade
on each one. Read-only and advisory: it never places orders.`,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace|debug|info|warn|error)")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the current per-venue snapshot for an asset",
		RunE:  runFetch,
	}
	fetchCmd.Flags().String("asset", "BTC", "Asset symbol")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank venues by total cost for a notional amount",
		RunE:  runCompare,
	}
	compareCmd.Flags().String("asset", "BTC", "Asset symbol")
	compareCmd.Flags().Float64("amount", 1000, "Notional amount in quote currency")
	compareCmd.Flags().String("deposit-method", "wire", "Deposit method (wire|sepa|ach|card)")
	compareCmd.Flags().String("mode", "buy", "Trade mode (buy|sell)")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a market order against one venue's live book",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().String("asset", "BTC", "Asset symbol")
	simulateCmd.Flags().String("venue", "kraken", "Venue ID")
	simulateCmd.Flags().Float64("notional", 1000, "Notional to spend (buy mode)")
	simulateCmd.Flags().Float64("quantity", 0, "Quantity to sell (sell mode)")
	simulateCmd.Flags().String("side", "buy", "Order side (buy|sell)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		RunE:  runServe,
	}
	serveCmd.Flags().Int("port", 0, "Override the configured HTTP port")

	rootCmd.AddCommand(fetchCmd, compareCmd, simulateCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

type pipeline struct {
	cfg     config.Config
	store   cache.Store
	monitor *health.Monitor
	fetcher *orchestrator.Fetcher
}

func buildPipeline(cmd *cobra.Command) (*pipeline, error) {
	applyLogLevel(cmd)

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	var store cache.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = cache.NewRedisStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using Redis cache store")
	} else {
		store = cache.NewMemoryStore()
	}

	deps := connector.Deps{
		HTTPClient: &http.Client{Timeout: cfg.Fetch.FetchTimeout()},
		Limiter:    ratelimit.NewLimiter(cfg.Fetch.RateRPS, cfg.Fetch.RateBurst),
		Breakers:   breaker.NewSet(),
	}

	monitor := health.NewMonitor()
	discovery := orchestrator.NewDiscovery(deps, store)
	fetcher := orchestrator.NewFetcher(discovery, store, monitor, orchestrator.Config{
		BatchSize:    cfg.Fetch.BatchSize,
		BatchDelay:   cfg.Fetch.BatchDelay(),
		FetchTimeout: cfg.Fetch.FetchTimeout(),
		BookDepth:    cfg.Fetch.BookDepth,
	})

	return &pipeline{cfg: cfg, store: store, monitor: monitor, fetcher: fetcher}, nil
}

func runFetch(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline(cmd)
	if err != nil {
		return err
	}

	asset, _ := cmd.Flags().GetString("asset")
	result, err := p.fetcher.FetchAll(cmd.Context(), asset)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline(cmd)
	if err != nil {
		return err
	}

	asset, _ := cmd.Flags().GetString("asset")
	amount, _ := cmd.Flags().GetFloat64("amount")
	method, _ := cmd.Flags().GetString("deposit-method")
	mode, _ := cmd.Flags().GetString("mode")

	fetched, err := p.fetcher.FetchAll(cmd.Context(), asset)
	if err != nil {
		return err
	}

	prices := make(map[string]float64)
	for _, v := range fetched.Venues {
		if v.Status == models.VenueStatusOK && v.Price != nil {
			prices[v.ID] = *v.Price
		}
	}
	if len(prices) == 0 {
		return fmt.Errorf("no venue returned a usable price for %s", asset)
	}

	outcome := comparison.Calculate(prices, models.ComparisonRequest{
		Amount:        amount,
		Currency:      "USD",
		DepositMethod: method,
		Mode:          models.TradeMode(strings.ToLower(mode)),
	})
	return printJSON(outcome)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline(cmd)
	if err != nil {
		return err
	}

	asset, _ := cmd.Flags().GetString("asset")
	venueID, _ := cmd.Flags().GetString("venue")
	notional, _ := cmd.Flags().GetFloat64("notional")
	quantity, _ := cmd.Flags().GetFloat64("quantity")
	side, _ := cmd.Flags().GetString("side")

	fetched, err := p.fetcher.FetchAll(cmd.Context(), asset)
	if err != nil {
		return err
	}

	var book *models.OrderBookSummary
	for _, v := range fetched.Venues {
		if v.ID == venueID {
			book = v.OrderBook
			break
		}
	}
	if book == nil {
		return fmt.Errorf("no order book available for venue %q", venueID)
	}

	var result models.MarketSimulationResult
	if strings.EqualFold(side, "sell") {
		result = simulation.SimulateMarketSell(book.Bids, quantity)
	} else {
		result = simulation.SimulateMarketBuy(book.Asks, notional)
	}
	return printJSON(result)
}

func runServe(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline(cmd)
	if err != nil {
		return err
	}
	metrics.Initialize()

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		p.cfg.HTTP.Port = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if p.cfg.Refresh.Interval() > 0 {
		p.fetcher.StartRefresh(ctx, p.cfg.Refresh.Interval(), p.cfg.Refresh.Assets...)
		log.Info().
			Dur("interval", p.cfg.Refresh.Interval()).
			Strs("assets", p.cfg.Refresh.Assets).
			Msg("background refresh enabled")
	}

	h := handlers.New(p.fetcher, p.monitor, p.store)
	server := httpapi.NewServer(p.cfg.HTTP, h)
	return server.Start(ctx)
}

func applyLogLevel(cmd *cobra.Command) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	if level, err := zerolog.ParseLevel(levelStr); err == nil {
		zerolog.SetGlobalLevel(level)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
