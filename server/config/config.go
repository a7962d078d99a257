package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"skirmish/utils"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config はプロセス全体の設定です。
type Config struct {
	Addr         string
	Port         string
	TickInterval time.Duration
	PingInterval time.Duration
	IdleTimeout  time.Duration
	RespawnDelay time.Duration
	WireCodec    string
	LogLevel     slog.Level
	OTLPEndpoint string // 空ならテレメトリ無効
	AuthSecret   string // 空なら /ws は認証なし
}

func (c Config) ListenAddr() string { return c.Addr + ":" + c.Port }

// Load は .env があれば読み込んでから環境変数を解釈します。.env が無いのはエラーではありません。
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Addr:         utils.GetEnvDefault("ADDR", "localhost"),
		Port:         utils.GetEnvDefault("PORT", "9090"),
		WireCodec:    strings.ToLower(utils.GetEnvDefault("WIRE_CODEC", "json")),
		OTLPEndpoint: utils.GetEnvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		AuthSecret:   utils.GetEnvDefault("AUTH_SECRET", ""),
	}

	var err error
	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"TICK_INTERVAL", 33 * time.Millisecond, &cfg.TickInterval},
		{"PING_INTERVAL", 10 * time.Second, &cfg.PingInterval},
		{"IDLE_TIMEOUT", 30 * time.Second, &cfg.IdleTimeout},
		{"RESPAWN_DELAY", 3 * time.Second, &cfg.RespawnDelay},
	}
	for _, d := range durations {
		if *d.dst, err = utils.GetEnvDuration(d.key, d.def); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if cfg.TickInterval <= 0 {
		return Config{}, fmt.Errorf("%w: TICK_INTERVAL must be positive, got %s", ErrInvalidConfig, cfg.TickInterval)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(utils.GetEnvDefault("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("%w: LOG_LEVEL: %w", ErrInvalidConfig, err)
	}
	switch cfg.WireCodec {
	case "json", "msgpack":
	default:
		return Config{}, fmt.Errorf("%w: WIRE_CODEC must be json or msgpack, got %q", ErrInvalidConfig, cfg.WireCodec)
	}
	return cfg, nil
}
