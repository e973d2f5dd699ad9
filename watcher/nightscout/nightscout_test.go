package nightscout

import (
	"context"
	"dexwatch/watcher/defs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gopkg.in/h2non/gock.v1"
)

const testURL = "https://nightscout.example.com"

type NightscoutTestSuite struct {
	suite.Suite
	reading *defs.Reading
}

func TestNightscoutTestSuite(t *testing.T) {
	suite.Run(t, new(NightscoutTestSuite))
}

func (suite *NightscoutTestSuite) SetupSuite() {
	suite.reading = &defs.Reading{
		Time:             time.Date(2022, time.May, 15, 1, 30, 0, 0, time.UTC),
		MgDL:             120,
		TrendDescription: "steady",
		TrendArrow:       "→",
	}
}

func (suite *NightscoutTestSuite) AfterTest(_, _ string) {
	gock.Off()
}

func (suite *NightscoutTestSuite) TestForward() {
	gock.New(testURL).
		Post(entriesEndpoint).
		MatchType("json").
		MatchHeader("api-secret", "testSecret").
		JSON([]map[string]interface{}{{
			"dateString": "2022-05-15T01:30:00Z",
			"sgv":        120,
			"direction":  "→",
			"type":       "sgv",
		}}).
		Reply(200).
		BodyString("[]")

	client := New(defs.NightscoutConfig{URL: testURL, APISecret: "testSecret"}, zap.New(nil))
	res, err := client.Forward(context.Background(), suite.reading)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), Delivered, res)
	assert.True(suite.T(), gock.IsDone(), "expected exactly one outbound call")
}

func (suite *NightscoutTestSuite) TestForwardNotConfigured() {
	client := New(defs.NightscoutConfig{}, zap.New(nil))
	res, err := client.Forward(context.Background(), suite.reading)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), Skipped, res)
}

func (suite *NightscoutTestSuite) TestForwardServerError() {
	gock.New(testURL).
		Post(entriesEndpoint).
		Reply(500).
		BodyString("boom")

	client := New(defs.NightscoutConfig{URL: testURL, APISecret: "testSecret"}, zap.New(nil))
	res, err := client.Forward(context.Background(), suite.reading)
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), Failed, res)
}
