package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	if err := env.Parse(cfg); err != nil {
		return err // Return error if environment variable parsing fails
	}

	return nil
}

// Config holds the configuration for the simulator and gateway binaries.
type Config struct {
	Port     int     `env:"PORT" envDefault:"8080"`
	Seed     uint64  `env:"SEED" envDefault:"42"`
	HorizonS float64 `env:"HORIZON_S" envDefault:"60"`
	OutDir   string  `env:"OUT_DIR" envDefault:"."`

	World       WorldConfig       `envPrefix:"WORLD_"`
	Rules       RulesConfig       `envPrefix:"RULES_"`
	NoiseTrader NoiseTraderConfig `envPrefix:"NOISE_"`
	MarketMaker MarketMakerConfig `envPrefix:"MM_"`
	Kafka       KafkaConfig       `envPrefix:"KAFKA_"`
}

// WorldConfig holds the discrete-event driver knobs.
type WorldConfig struct {
	DtNs int64 `env:"DT_NS" envDefault:"1000000"` // 1ms virtual tick
}

// RulesConfig holds the market rules knobs.
type RulesConfig struct {
	EnforceHalt                  bool   `env:"ENFORCE_HALT" envDefault:"true"`
	TickSizeTicks                int64  `env:"TICK_SIZE_TICKS" envDefault:"1"`
	LotSize                      int64  `env:"LOT_SIZE" envDefault:"1"`
	MinQty                       int64  `env:"MIN_QTY" envDefault:"1"`
	STP                          string `env:"STP" envDefault:"none"` // none | cancel_taker | cancel_maker
	EnablePriceBands             bool   `env:"ENABLE_PRICE_BANDS" envDefault:"false"`
	EnableVolatilityInterruption bool   `env:"ENABLE_VOLATILITY_INTERRUPTION" envDefault:"false"`
	BandBPS                      int64  `env:"BAND_BPS" envDefault:"1000"`
	VolAuctionDurationNs         int64  `env:"VOL_AUCTION_DURATION_NS" envDefault:"5000000000"`
}

// NoiseTraderConfig holds the noise trader agent knobs.
type NoiseTraderConfig struct {
	Owner            uint64  `env:"OWNER" envDefault:"1"`
	MinQty           int64   `env:"MIN_QTY" envDefault:"1"`
	MaxQty           int64   `env:"MAX_QTY" envDefault:"10"`
	IntensityPerStep float64 `env:"INTENSITY_PER_STEP" envDefault:"0.3"`
	ProbMarket       float64 `env:"PROB_MARKET" envDefault:"0.25"`
	MaxOffsetTicks   int64   `env:"MAX_OFFSET_TICKS" envDefault:"10"`
	DefaultMid       int64   `env:"DEFAULT_MID" envDefault:"100"`
}

// MarketMakerConfig holds the market maker agent knobs.
type MarketMakerConfig struct {
	Owner        uint64 `env:"OWNER" envDefault:"2"`
	QuoteQty     int64  `env:"QUOTE_QTY" envDefault:"10"`
	SpreadTicks  int64  `env:"SPREAD_TICKS" envDefault:"4"`
	RefreshNs    int64  `env:"REFRESH_NS" envDefault:"50000000"` // 50ms
	MaxSkewTicks int64  `env:"MAX_SKEW_TICKS" envDefault:"20"`
	SkewPerUnit  int64  `env:"SKEW_PER_UNIT" envDefault:"1"`
}

// KafkaConfig holds the configuration for the optional trade feed publisher.
type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Topic   string   `env:"TOPIC" envDefault:"marketsim.trades"`
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
}
