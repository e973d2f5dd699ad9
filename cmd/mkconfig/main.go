package main

import (
	"dexwatch/watcher/defs"
	"flag"
	"fmt"
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"
)

func main() {
	dexcomAccount := flag.String("dexcom-account", "", "dexcom account")
	dexcomPassword := flag.String("dexcom-password", "", "dexcom password")
	dexcomRegion := flag.String("dexcom-region", "us", "dexcom region (us, ous, jp)")

	nightscoutURL := flag.String("nightscout-url", "", "nightscout base url (empty disables forwarding)")
	nightscoutSecret := flag.String("nightscout-secret", "", "nightscout api secret")

	interval := flag.Int("interval", 60, "poll interval in seconds")
	logPath := flag.String("log-path", defs.DefaultLogPath, "poll outcome csv path")
	httpAddr := flag.String("http", "", "status api address (empty disables)")

	glucoseLow := flag.Float64("glucose-low", 70, "lower bound for in-range glucose, mg/dL")
	glucoseHigh := flag.Float64("glucose-high", 180, "upper bound for in-range glucose, mg/dL")

	mongoURI := flag.String("mongo-uri", "", "mongo uri (empty disables the mirror)")
	mongoUsername := flag.String("mongo-username", "", "mongo username")
	mongoPassword := flag.String("mongo-password", "", "mongo password")

	flag.Parse()

	cfg := defs.Config{
		Dexcom: defs.DexcomConfig{
			Account:  *dexcomAccount,
			Password: *dexcomPassword,
			Region:   *dexcomRegion,
		},
		Nightscout: defs.NightscoutConfig{
			URL:       *nightscoutURL,
			APISecret: *nightscoutSecret,
		},
		Mongo: defs.MongoConfig{
			URI:      *mongoURI,
			Username: *mongoUsername,
			Password: *mongoPassword,
		},
		Glucose: defs.GlucoseConfig{
			Low:  *glucoseLow,
			High: *glucoseHigh,
		},
		LogPath:         *logPath,
		IntervalSeconds: *interval,
		HTTPAddr:        *httpAddr,
	}

	if err := writeConfig(cfg, "config.yaml"); err != nil {
		log.Fatal(err)
	}

	if cfg.Mongo.URI != "" {
		if err := writeEnv(cfg.Mongo, "dexwatch.env"); err != nil {
			log.Fatal(err)
		}
	}
}

func writeConfig(cfg defs.Config, path string) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0666)
}

func writeEnv(cfg defs.MongoConfig, path string) error {
	envVars := map[string]string{
		"MONGO_USERNAME": cfg.Username,
		"MONGO_PASSWORD": cfg.Password,
	}
	envString := ""
	for k, v := range envVars {
		envString += fmt.Sprintln(k + "=" + v)
	}
	return ioutil.WriteFile(path, []byte(envString), 0666)
}
