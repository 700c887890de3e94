package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/muhammadchandra19/marketsim/internal/app/gateway"
	"github.com/muhammadchandra19/marketsim/internal/app/live"
	feedv1 "github.com/muhammadchandra19/marketsim/internal/domain/feed/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/agents"
	"github.com/muhammadchandra19/marketsim/internal/usecase/engine"
	"github.com/muhammadchandra19/marketsim/internal/usecase/feed"
	"github.com/muhammadchandra19/marketsim/internal/usecase/rules"
	"github.com/muhammadchandra19/marketsim/pkg/config"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	defer log.Sync()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rc := buildRulesConfig(cfg.Rules)
	e := engine.New(rules.NewRuleSet(rc))

	var pub feedv1.Publisher
	var kafkaPub *feed.Publisher
	if cfg.Kafka.Enabled {
		kafkaPub = feed.NewPublisher(cfg.Kafka, log)
		pub = kafkaPub
		log.Info("trade feed enabled",
			logger.NewField("topic", cfg.Kafka.Topic),
			logger.NewField("brokers", cfg.Kafka.Brokers),
		)
	}

	lw := live.New(live.Config{
		Seed:     cfg.Seed,
		HorizonS: cfg.HorizonS,
		DtNs:     orderbookv1.Ts(cfg.World.DtNs),
		// One virtual tick per equal span of wall time.
		TickEvery: time.Duration(cfg.World.DtNs),
	}, e, log, pub)
	lw.AddAgent(agents.NewNoiseTrader(orderbookv1.OwnerID(cfg.NoiseTrader.Owner), buildNoiseConfig(cfg, rc)))
	lw.AddAgent(agents.NewMarketMaker(orderbookv1.OwnerID(cfg.MarketMaker.Owner), buildMakerConfig(cfg, rc)))
	lw.Start()

	srv := gateway.NewServer(gateway.Config{Port: cfg.Port}, lw, log)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutdown signal received", logger.NewField("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			log.Error(err, logger.NewField("action", "listen_and_serve"))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var shutdownErrs error
	shutdownErrs = multierr.Append(shutdownErrs, srv.Shutdown(shutdownCtx))
	lw.Stop()
	if kafkaPub != nil {
		shutdownErrs = multierr.Append(shutdownErrs, kafkaPub.Close())
	}
	if shutdownErrs != nil {
		log.Error(shutdownErrs, logger.NewField("action", "shutdown"))
	}

	log.Info("gateway shutdown complete")
}

func buildRulesConfig(rc config.RulesConfig) rulesv1.Config {
	return rulesv1.Config{
		EnforceHalt:                  rc.EnforceHalt,
		TickSizeTicks:                orderbookv1.Price(rc.TickSizeTicks),
		LotSize:                      orderbookv1.Qty(rc.LotSize),
		MinQty:                       orderbookv1.Qty(rc.MinQty),
		STP:                          parseSTP(rc.STP),
		EnablePriceBands:             rc.EnablePriceBands,
		EnableVolatilityInterruption: rc.EnableVolatilityInterruption,
		BandBPS:                      rc.BandBPS,
		VolAuctionDurationNs:         orderbookv1.Ts(rc.VolAuctionDurationNs),
	}
}

func parseSTP(s string) rulesv1.STPMode {
	switch s {
	case "cancel_taker":
		return rulesv1.STPCancelTaker
	case "cancel_maker":
		return rulesv1.STPCancelMaker
	default:
		return rulesv1.STPNone
	}
}

func buildNoiseConfig(cfg *config.Config, rc rulesv1.Config) agents.NoiseTraderConfig {
	nc := agents.DefaultNoiseTraderConfig()
	nc.TickSize = rc.TickSizeTicks
	nc.LotSize = rc.LotSize
	nc.MinQty = orderbookv1.Qty(cfg.NoiseTrader.MinQty)
	nc.MaxQty = orderbookv1.Qty(cfg.NoiseTrader.MaxQty)
	nc.IntensityPerStep = cfg.NoiseTrader.IntensityPerStep
	nc.ProbMarket = cfg.NoiseTrader.ProbMarket
	nc.MaxOffsetTicks = cfg.NoiseTrader.MaxOffsetTicks
	nc.DefaultMid = orderbookv1.Price(cfg.NoiseTrader.DefaultMid)
	return nc
}

func buildMakerConfig(cfg *config.Config, rc rulesv1.Config) agents.MarketMakerConfig {
	mc := agents.DefaultMarketMakerConfig()
	mc.TickSize = rc.TickSizeTicks
	mc.QuoteQty = orderbookv1.Qty(cfg.MarketMaker.QuoteQty)
	mc.SpreadTicks = orderbookv1.Price(cfg.MarketMaker.SpreadTicks)
	mc.RefreshNs = orderbookv1.Ts(cfg.MarketMaker.RefreshNs)
	mc.MaxSkewTicks = orderbookv1.Price(cfg.MarketMaker.MaxSkewTicks)
	mc.SkewPerUnit = cfg.MarketMaker.SkewPerUnit
	return mc
}
