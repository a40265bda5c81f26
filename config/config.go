package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	SentimentBackendVader = "vader"
	SentimentBackendHugot = "hugot"
)

type Config struct {
	Env      string
	LogLevel string

	// Universe of tickers the bot answers for, without market suffix.
	Stocks         []string `validate:"min=1,dive,required"`
	MarketSuffix   string   `validate:"required"`
	MarketCurrency string   `validate:"required"`

	NewsAPIKey           string
	NewsLanguages        []string      `validate:"min=1,dive,len=2"`
	NewsWindow           time.Duration `validate:"min=1h"`
	NewsSources          []string      `validate:"dive,oneof=infomoney valor googlenews reddit"`
	FetchTimeout         time.Duration `validate:"min=1s"`
	MaxConcurrentFetches int           `validate:"min=1"`

	RedditClientID     string
	RedditClientSecret string
	RedditSubreddits   []string

	EODHDAPIKey    string
	EODHDRateLimit int `validate:"min=1"`

	SentimentBackend string `validate:"oneof=vader hugot"`
	HugotModelPath   string `validate:"required_if=SentimentBackend hugot"`

	CheckInterval     time.Duration `validate:"min=1m"`
	TickCadence       time.Duration `validate:"min=100ms"`
	MaxConcurrentRuns int           `validate:"min=1"`

	Kafka  KafkaConfig
	Valkey ValkeyConfig
}

type KafkaConfig struct {
	Broker        string `validate:"required"`
	GroupID       string `validate:"required"`
	CommandTopic  string `validate:"required"`
	OutboundTopic string `validate:"required"`
}

type ValkeyConfig struct {
	// Empty address disables the summary cache.
	InitAddress     string
	Password        string
	UseTLS          bool
	SummaryCacheTTL time.Duration `validate:"min=1s"`
}

// Load reads the environment (after LoadEnv) into a validated Config.
func Load() (Config, error) {
	cfg := Config{
		Env:      getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Stocks:         getList("STOCKS", []string{"PETR4", "VALE3", "ITUB4", "BBDC4", "ABEV3", "BBAS3", "WEGE3", "MGLU3"}),
		MarketSuffix:   getEnv("MARKET_SUFFIX", ".SA"),
		MarketCurrency: getEnv("MARKET_CURRENCY", "BRL"),

		NewsAPIKey:           os.Getenv("NEWS_API_KEY"),
		NewsLanguages:        getList("NEWS_LANGUAGES", []string{"pt", "en"}),
		NewsWindow:           getDuration("NEWS_WINDOW", 48*time.Hour),
		NewsSources:          getList("NEWS_SOURCES", []string{"infomoney", "valor", "googlenews"}),
		FetchTimeout:         getDuration("FETCH_TIMEOUT", 10*time.Second),
		MaxConcurrentFetches: getInt("MAX_CONCURRENT_FETCHES", 4),

		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditSubreddits:   getList("REDDIT_SUBREDDITS", []string{"investimentos", "farialimabets"}),

		EODHDAPIKey:    os.Getenv("EODHD_API_KEY"),
		EODHDRateLimit: getInt("EODHD_RATE_LIMIT", 10),

		SentimentBackend: strings.ToLower(getEnv("SENTIMENT_BACKEND", SentimentBackendVader)),
		HugotModelPath:   os.Getenv("HUGOT_MODEL_PATH"),

		CheckInterval:     getDuration("CHECK_INTERVAL", 30*time.Minute),
		TickCadence:       getDuration("TICK_CADENCE", time.Second),
		MaxConcurrentRuns: getInt("MAX_CONCURRENT_RUNS", 4),

		Kafka: KafkaConfig{
			Broker:        getEnv("KAFKA_BROKER", "localhost:29092"),
			GroupID:       getEnv("KAFKA_CONSUMER_GROUP_ID", "marketpulse-dispatcher"),
			CommandTopic:  getEnv("KAFKA_COMMAND_TOPIC", "chat-commands"),
			OutboundTopic: getEnv("KAFKA_OUTBOUND_TOPIC", "chat-outbound"),
		},
		Valkey: ValkeyConfig{
			InitAddress:     os.Getenv("VALKEY_INIT_ADDRESS"),
			Password:        os.Getenv("VALKEY_PASSWORD"),
			UseTLS:          os.Getenv("VALKEY_TLS") == "true",
			SummaryCacheTTL: getDuration("SUMMARY_CACHE_TTL", 5*time.Minute),
		},
	}

	for i, s := range cfg.Stocks {
		cfg.Stocks[i] = strings.ToUpper(s)
	}
	for i, s := range cfg.NewsSources {
		cfg.NewsSources[i] = strings.ToLower(s)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("[Config] invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return append([]string(nil), defaultValue...)
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key), slog.String("value", raw))
		return defaultValue
	}
	return v
}

// getDuration accepts Go durations ("90s", "15m") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("[Config] Invalid duration, using default",
		slog.String("key", key), slog.String("value", raw))
	return defaultValue
}
