package csvlog

import (
	"dexwatch/watcher/defs"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CsvlogTestSuite struct {
	suite.Suite
	rec *Recorder
}

func TestCsvlogTestSuite(t *testing.T) {
	suite.Run(t, new(CsvlogTestSuite))
}

func (suite *CsvlogTestSuite) SetupTest() {
	suite.rec = &Recorder{Path: filepath.Join(suite.T().TempDir(), "readings.csv")}
}

func (suite *CsvlogTestSuite) readAll() [][]string {
	f, err := os.Open(suite.rec.Path)
	assert.NoError(suite.T(), err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(suite.T(), err)
	return rows
}

func (suite *CsvlogTestSuite) TestHeaderWrittenOnceThenAppends() {
	check := time.Date(2022, time.May, 15, 1, 30, 0, 0, time.UTC)
	r := &defs.Reading{
		Time:             check.Add(-time.Minute),
		MgDL:             120,
		TrendDescription: "steady",
		TrendArrow:       "→",
	}

	err := suite.rec.Append(defs.PollOutcome{CheckTime: check, New: true, Reading: r})
	assert.NoError(suite.T(), err)

	rows := suite.readAll()
	assert.Len(suite.T(), rows, 2)
	assert.Equal(suite.T(), header, rows[0])
	assert.Equal(suite.T(), []string{
		"2022-05-15T01:30:00Z", "true", "120", "2022-05-15T01:29:00Z", "steady", "→",
	}, rows[1])

	err = suite.rec.Append(defs.PollOutcome{CheckTime: check.Add(time.Minute)})
	assert.NoError(suite.T(), err)

	rows = suite.readAll()
	assert.Len(suite.T(), rows, 3, "second append should add exactly one row")
	assert.Equal(suite.T(), header, rows[0])
}

func (suite *CsvlogTestSuite) TestFetchFailureRowHasEmptyFields() {
	check := time.Date(2022, time.May, 15, 1, 30, 0, 0, time.UTC)

	err := suite.rec.Append(defs.PollOutcome{CheckTime: check})
	assert.NoError(suite.T(), err)

	rows := suite.readAll()
	assert.Equal(suite.T(), []string{
		"2022-05-15T01:30:00Z", "false", "", "", "", "",
	}, rows[1])
}

func (suite *CsvlogTestSuite) TestAppendUnwritablePath() {
	rec := &Recorder{Path: filepath.Join(suite.T().TempDir(), "missing", "readings.csv")}
	err := rec.Append(defs.PollOutcome{CheckTime: time.Now()})
	assert.Error(suite.T(), err)
}
