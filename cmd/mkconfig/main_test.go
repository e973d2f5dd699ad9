package main

import (
	"dexwatch/watcher/defs"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	yamlv3 "gopkg.in/yaml.v3"
)

type MkconfigTestSuite struct {
	suite.Suite
	cfg defs.Config
}

func TestMkconfigTestSuite(t *testing.T) {
	suite.Run(t, new(MkconfigTestSuite))
}

func (suite *MkconfigTestSuite) SetupTest() {
	suite.cfg = defs.Config{
		Dexcom: defs.DexcomConfig{
			Account:  "testAccount",
			Password: "testPassword",
			Region:   "ous",
		},
		Nightscout: defs.NightscoutConfig{
			URL:       "https://nightscout.example.com",
			APISecret: "testSecret",
		},
		Mongo: defs.MongoConfig{
			URI:      "mongodb://mongo:27017",
			Username: "admin",
			Password: "password",
		},
		Glucose: defs.GlucoseConfig{
			Low:  70,
			High: 180,
		},
		LogPath:         "readings.csv",
		IntervalSeconds: 30,
		HTTPAddr:        ":4242",
	}
}

// The generated file must load back through the same path the daemon uses.
func (suite *MkconfigTestSuite) TestWriteConfigRoundTrip() {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	assert.NoError(suite.T(), writeConfig(suite.cfg, path))

	data, err := ioutil.ReadFile(path)
	assert.NoError(suite.T(), err)

	var parsed defs.Config
	assert.NoError(suite.T(), yamlv3.Unmarshal(data, &parsed))
	assert.Equal(suite.T(), suite.cfg, parsed)
}

func (suite *MkconfigTestSuite) TestWriteEnv() {
	path := filepath.Join(suite.T().TempDir(), "dexwatch.env")
	assert.NoError(suite.T(), writeEnv(suite.cfg.Mongo, path))

	data, err := ioutil.ReadFile(path)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), string(data), "MONGO_USERNAME=admin\n")
	assert.Contains(suite.T(), string(data), "MONGO_PASSWORD=password\n")
}

func (suite *MkconfigTestSuite) TestWriteConfigUnwritablePath() {
	path := filepath.Join(suite.T().TempDir(), "missing", "config.yaml")
	assert.Error(suite.T(), writeConfig(suite.cfg, path))
}
