package store

import (
	"time"

	"github.com/workattend/wa/pkg/model"
)

// RecordStore persists one DailyRecordSet per calendar day. Get returns an
// error wrapping model.ErrNotFound when nothing was saved for date; any other
// error means the stored day could not be used.
type RecordStore interface {
	Get(date time.Time) (*model.DailyRecordSet, error)
	Put(date time.Time, set *model.DailyRecordSet) error
	Close() error
}

var (
	_ RecordStore = (*FileStore)(nil)
	_ RecordStore = (*SQLiteStore)(nil)
)
