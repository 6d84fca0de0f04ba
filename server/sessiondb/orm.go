package sessiondb

import (
	"time"

	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/pawscan/server/scan"
)

// BaseModel is our base class for a GORM model.
// The default GORM Model uses int, but we prefer int64
type BaseModel struct {
	ID int64 `gorm:"primaryKey" json:"id"`
}

// A finished capture session.
// The headline columns are duplicated out of Report so that listing does not need to decode it.
type Session struct {
	BaseModel
	UUID       string                      `json:"uuid"`
	StartTime  dbh.IntTime                 `json:"startTime"`
	Duration   int32                       `json:"duration"` // milliseconds
	Frames     int32                       `json:"frames"`
	State      string                      `json:"state"`   // coherent behavior state
	Emotion    string                      `json:"emotion"` // validated emotion
	Confidence float64                     `json:"confidence"`
	Report     *dbh.JSONField[scan.Result] `json:"report,omitempty"`
}

func (s *Session) EndTime() time.Time {
	return s.StartTime.Get().Add(time.Duration(s.Duration) * time.Millisecond)
}
