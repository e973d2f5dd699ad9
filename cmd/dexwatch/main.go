package main

import (
	"dexwatch/watcher"
	"dexwatch/watcher/defs"
	"flag"
	"io/ioutil"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "f", "config.yaml", "config file")
	flag.Parse()
}

func main() {
	logger, _ := zap.NewDevelopment()
	config := defs.Config{Logger: logger}

	file, err := ioutil.ReadFile(configFile)
	if err != nil {
		panic(err)
	}

	if err = yaml.Unmarshal(file, &config); err != nil {
		panic(err)
	}

	logger.Debug("loaded config file", zap.String("file", configFile))

	s, err := watcher.New(config)
	if err != nil {
		logger.Fatal("unable to set up watcher", zap.Error(err))
	}

	if err := s.Run(); err != nil {
		logger.Fatal("initialization failed", zap.Error(err))
	}
}
