package market

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the yaml surface of the daemon. Human-facing amounts are decimal
// strings ("0.000100") and get converted to micro-units when building Params.
type Config struct {
	Admin        string `yaml:"admin"`
	Treasury     string `yaml:"treasury"`
	FeeBps       uint64 `yaml:"fee_bps"`
	Multiplier   uint64 `yaml:"multiplier_nano"`
	MinPrice     string `yaml:"min_price"`
	MaxSupply    uint64 `yaml:"max_supply"`
	BaseMetadata string `yaml:"base_metadata"`

	DBPath           string `yaml:"db_path"`
	ListenAddr       string `yaml:"listen_addr"`
	RelayIntervalSec int    `yaml:"relay_interval_sec"`
}

// DefaultConfig returns a runnable local setup with the calibrated curve.
func DefaultConfig() Config {
	return Config{
		Admin:            "user:admin",
		Treasury:         "user:treasury",
		FeeBps:           FallbackFeeBps,
		Multiplier:       DefaultMultiplierNano,
		MinPrice:         FormatAmount(DefaultMinPrice),
		MaxSupply:        FallbackMaxSupply,
		BaseMetadata:     "ipfs://curvemarket/",
		DBPath:           "data/curvemarket.db",
		ListenAddr:       ":8480",
		RelayIntervalSec: 30,
	}
}

// LoadConfig reads the yaml file and fills unset knobs from the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Save writes the config back out, used by the init-config command.
func (c Config) Save(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Params converts the human-facing knobs into the engine parameter record.
func (c Config) Params() (Params, error) {
	min, err := ParseAmount(c.MinPrice)
	if err != nil {
		return Params{}, err
	}
	p := Params{
		Admin:          Address(c.Admin),
		Treasury:       Address(c.Treasury),
		FeeBps:         c.FeeBps,
		MultiplierNano: c.Multiplier,
		MinPrice:       min,
		MaxSupply:      c.MaxSupply,
		BaseMetadata:   c.BaseMetadata,
	}
	return p, p.Validate()
}
