package config

import "time"

type Prices struct {
	APIURL        string        `env:"PRICES_API_URL"        envDefault:"https://prices.runescape.wiki/api/v1/osrs/latest"`
	UserAgent     string        `env:"PRICES_USER_AGENT"     envDefault:"osrs-profit - profit tracker"`
	Timeout       time.Duration `env:"PRICES_API_TIMEOUT"    envDefault:"30s"`
	RecencyWindow time.Duration `env:"PRICES_RECENCY_WINDOW" envDefault:"2m"`
	WriteBatch    int           `env:"PRICES_WRITE_BATCH"    envDefault:"500"`
	LegacyTTL     time.Duration `env:"PRICES_LEGACY_TTL"     envDefault:"1m"`
}

type Player struct {
	APIURL    string        `env:"PLAYER_API_URL"    envDefault:"https://sync.runescape.wiki/runelite/player"`
	UserAgent string        `env:"PLAYER_USER_AGENT" envDefault:"osrs-profit - profit tracker"`
	Timeout   time.Duration `env:"PLAYER_API_TIMEOUT" envDefault:"10s"`
	RPS       float64       `env:"PLAYER_API_RPS"    envDefault:"2"`
	CacheTTL  time.Duration `env:"PLAYER_CACHE_TTL"  envDefault:"5m"`
}
