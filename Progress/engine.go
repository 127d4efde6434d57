// Package Progress implements the progress resolution and aggregation engine:
// carry-forward field resolution, derived reading/math metrics, the weekly
// Monday-Sunday scan and the reconciling daily-report write path.
package Progress

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a request date does not parse as YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

// ValidationError rejects a submission whose value cannot be used for the
// declared field type. The offending slug is always named.
type ValidationError struct {
	Slug string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("task %q requires a numeric value", e.Slug)
}

// Engine holds the storage handle and the per-student write locks. The
// submit path reads, derives and writes without a spanning transaction lock
// in storage, so concurrent submissions for the same student are serialized
// here instead of racing last-writer-wins.
type Engine struct {
	DB *gorm.DB
	// DefaultRate is the weekly reading rate assumed for students who never
	// had an explicit rate recorded.
	DefaultRate int

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewEngine(db *gorm.DB, defaultRate int) *Engine {
	return &Engine{
		DB:          db,
		DefaultRate: defaultRate,
		locks:       make(map[uint]*sync.Mutex),
	}
}

func (e *Engine) ownerLock(ownerID uint) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[ownerID] = lock
	}
	return lock
}

// ParseDate validates a YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

// MondayOf returns the Monday of the week containing d.
func MondayOf(d time.Time) time.Time {
	// time.Weekday counts Sunday as 0, the tracker week starts on Monday
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
