package csvlog

import (
	"dexwatch/watcher/defs"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var header = []string{
	"check_timestamp_utc",
	"new_reading_received",
	"glucose_value_mgdl",
	"glucose_timestamp_utc",
	"trend_description",
	"trend_arrow",
}

// Recorder appends one row per poll outcome to a CSV file, writing the
// header first if the file does not exist yet. The file is opened and closed
// within each call so a crash between ticks never leaves buffered rows.
type Recorder struct {
	Path string
}

func (r *Recorder) Append(outcome defs.PollOutcome) error {
	_, statErr := os.Stat(r.Path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to open log %s: %w", r.Path, err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			f.Close()
			return fmt.Errorf("unable to write log header: %w", err)
		}
	}
	if err := w.Write(row(outcome)); err != nil {
		f.Close()
		return fmt.Errorf("unable to write log record: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("unable to flush log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close log: %w", err)
	}
	return nil
}

func row(o defs.PollOutcome) []string {
	rec := []string{
		o.CheckTime.UTC().Format(time.RFC3339),
		strconv.FormatBool(o.New),
		"", "", "", "",
	}
	if o.New && o.Reading != nil {
		rec[2] = strconv.FormatFloat(o.Reading.MgDL, 'f', -1, 64)
		rec[3] = o.Reading.Time.UTC().Format(time.RFC3339)
		rec[4] = o.Reading.TrendDescription
		rec[5] = o.Reading.TrendArrow
	}
	return rec
}
