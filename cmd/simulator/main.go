package main

import (
	"os"
	"strconv"

	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	rulesv1 "github.com/muhammadchandra19/marketsim/internal/domain/rules/v1"
	worldv1 "github.com/muhammadchandra19/marketsim/internal/domain/world/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/agents"
	"github.com/muhammadchandra19/marketsim/internal/usecase/engine"
	"github.com/muhammadchandra19/marketsim/internal/usecase/record"
	"github.com/muhammadchandra19/marketsim/internal/usecase/rules"
	"github.com/muhammadchandra19/marketsim/internal/usecase/world"
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

// Usage: simulator [seed] [horizon_seconds]. Positional arguments override
// the environment.
func main() {
	defer log.Sync()

	seed := cfg.Seed
	horizon := cfg.HorizonS
	if len(os.Args) > 1 {
		v, err := strconv.ParseUint(os.Args[1], 10, 64)
		if err != nil {
			log.Error(err, logger.NewField("arg", "seed"))
			os.Exit(2)
		}
		seed = v
	}
	if len(os.Args) > 2 {
		v, err := strconv.ParseFloat(os.Args[2], 64)
		if err != nil {
			log.Error(err, logger.NewField("arg", "horizon_seconds"))
			os.Exit(2)
		}
		horizon = v
	}

	rc := buildRulesConfig(cfg.Rules)
	e := engine.New(rules.NewRuleSet(rc))
	w := world.New(e)
	w.AddAgent(agents.NewNoiseTrader(orderbookv1.OwnerID(cfg.NoiseTrader.Owner), buildNoiseConfig(cfg, rc)))
	w.AddAgent(agents.NewMarketMaker(orderbookv1.OwnerID(cfg.MarketMaker.Owner), buildMakerConfig(cfg, rc)))

	log.Info("simulation starting",
		logger.NewField("seed", seed),
		logger.NewField("horizon_s", horizon),
		logger.NewField("dt_ns", cfg.World.DtNs),
	)

	res := w.Run(seed, horizon, worldv1.Config{DtNs: orderbookv1.Ts(cfg.World.DtNs)})

	if err := record.WriteRunFiles(cfg.OutDir, res); err != nil {
		log.Error(err, logger.NewField("out_dir", cfg.OutDir))
		os.Exit(1)
	}

	log.Info("simulation complete",
		logger.NewField("trades", len(res.Trades)),
		logger.NewField("tops", len(res.Tops)),
		logger.NewField("accounts", len(res.Accounts)),
		logger.NewField("cancel_failures", res.CancelFailures),
		logger.NewField("modify_failures", res.ModifyFailures),
		logger.NewField("out_dir", cfg.OutDir),
	)
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
