package defs

import (
	"time"

	"go.uber.org/zap"
)

const DefaultDB = "dexwatch"

// Intervals.
const (
	DefaultPollInterval = 60 * time.Second
	TimeoutInterval     = 2 * time.Second
)

const DefaultLogPath = "dexcom_readings_log.csv"

type Config struct {
	Dexcom          DexcomConfig     `yaml:"dexcom"`
	Nightscout      NightscoutConfig `yaml:"nightscout"`
	Mongo           MongoConfig      `yaml:"mongo"`
	Glucose         GlucoseConfig    `yaml:"glucose"`
	LogPath         string           `yaml:"logPath"`
	IntervalSeconds int              `yaml:"intervalSeconds"`
	HTTPAddr        string           `yaml:"httpAddress"`
	Logger          *zap.Logger      `yaml:"_,omitempty"`
}

type DexcomConfig struct {
	Account  string `yaml:"account"`
	Password string `yaml:"password"`
	Region   string `yaml:"region"`
}

type NightscoutConfig struct {
	URL       string `yaml:"url"`
	APISecret string `yaml:"apiSecret"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GlucoseConfig bounds the in-range band used by the stats endpoint, in mg/dL.
type GlucoseConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}
