// Package sessiondb stores the results of finished capture sessions.
package sessiondb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/pawscan/server/scan"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("session not found")

// Columns of a listing. The report blob is left out.
var listColumns = []string{"id", "uuid", "start_time", "duration", "frames", "state", "emotion", "confidence"}

type SessionDB struct {
	Log logs.Log
	DB  *gorm.DB
}

// Open or create the session database
func Open(logger logs.Log, dbFilename string) (*SessionDB, error) {
	os.MkdirAll(filepath.Dir(dbFilename), 0777)
	db, err := dbh.OpenDB(logger, dbh.MakeSqliteConfig(dbFilename), Migrations(logger), 0)
	if err != nil {
		return nil, fmt.Errorf("Failed to open database %v: %w", dbFilename, err)
	}
	return &SessionDB{
		Log: logger,
		DB:  db,
	}, nil
}

// SaveResult stores a finished session. Saving the same session twice replaces it.
func (s *SessionDB) SaveResult(ctx context.Context, r *scan.Result) error {
	var report dbh.JSONField[scan.Result]
	report.Data = *r
	rec := &Session{
		UUID:       r.ID,
		StartTime:  dbh.MakeIntTime(r.Started),
		Duration:   int32(r.Duration().Milliseconds()),
		Frames:     int32(r.Frames),
		State:      string(r.Coherent.BehaviorState.State),
		Emotion:    string(r.Coherent.ValidatedEmotion.Emotion),
		Confidence: r.Emotion.Confidence,
		Report:     &report,
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", r.ID).Delete(&Session{}).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
}

// List returns the most recent sessions first, without their reports
func (s *SessionDB) List(limit int) ([]*Session, error) {
	var sessions []*Session
	if err := s.DB.Select(listColumns).Order("start_time DESC, id DESC").Limit(limit).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Get loads the full result of one session
func (s *SessionDB) Get(uuid string) (*scan.Result, error) {
	rec := Session{}
	if err := s.DB.Where("uuid = ?", uuid).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rec.Report == nil {
		return nil, fmt.Errorf("Session %v has no report", uuid)
	}
	r := rec.Report.Data
	return &r, nil
}

// Purge deletes sessions that started before the given time
func (s *SessionDB) Purge(before time.Time) (int64, error) {
	res := s.DB.Where("start_time < ?", dbh.MakeIntTime(before)).Delete(&Session{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected != 0 {
		s.Log.Infof("Purged %v sessions from before %v", res.RowsAffected, before.Format(time.DateOnly))
	}
	return res.RowsAffected, nil
}

func (s *SessionDB) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
