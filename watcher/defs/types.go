package defs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reading is one glucose measurement as fetched from the monitoring source.
// Immutable once constructed.
type Reading struct {
	ID               *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Time             time.Time           `bson:"time" json:"time"`
	MgDL             float64             `bson:"mgdl" json:"mgdl"`
	TrendDescription string              `bson:"trendDescription" json:"trendDescription"`
	TrendArrow       string              `bson:"trendArrow" json:"trendArrow"`
}

// PollOutcome is the result of a single poll cycle. Reading is non-nil iff
// New is true.
type PollOutcome struct {
	CheckTime time.Time
	New       bool
	Reading   *Reading
}

// DedupState carries the timestamp of the last accepted reading between
// ticks. The zero value means no reading has been accepted yet.
type DedupState struct {
	LastTime time.Time
}
