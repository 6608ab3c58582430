// Package confidence records 1-5 self-ratings per topic and builds the
// comparison message against the previous check.
package confidence

import (
	"context"
	"time"

	"studyhub/internal/apperr"
	"studyhub/internal/i18n"
	"studyhub/internal/model"
	"studyhub/internal/store"
)

// PreviousCheck describes the prior confidence rating, if any.
type PreviousCheck struct {
	Exists bool       `json:"exists"`
	Level  int        `json:"level,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
}

// Result is the outcome of recording a confidence check.
type Result struct {
	Entry      model.ConfidenceEntry `json:"confidence"`
	Current    int                   `json:"current_confidence"`
	Previous   PreviousCheck         `json:"previous_confidence"`
	Comparison string                `json:"comparison"`
}

// Tracker records confidence checks.
type Tracker struct {
	store *store.Store
}

// NewTracker returns a tracker over the given store.
func NewTracker(st *store.Store) *Tracker {
	return &Tracker{store: st}
}

// Record appends a confidence check for a topic. The previous level is
// snapshotted into the new row so the history reads standalone; the series is
// append-only.
func (t *Tracker) Record(ctx context.Context, topicID int64, level int, attemptID *int64, notes string) (Result, error) {
	if level < 1 || level > 5 {
		return Result{}, apperr.New(apperr.KindValidation, "Confidence level must be between 1 and 5")
	}
	if _, err := t.store.GetTopic(topicID); err != nil {
		return Result{}, err
	}

	previous, err := t.store.LatestConfidenceEntry(topicID)
	if err != nil {
		return Result{}, err
	}

	entry := model.ConfidenceEntry{
		TopicID:   &topicID,
		AttemptID: attemptID,
		Level:     level,
		Notes:     notes,
	}
	if previous != nil {
		prev := previous.Level
		entry.PreviousLevel = &prev
	}

	entry, err = t.store.CreateConfidenceEntry(entry)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Entry:      entry,
		Current:    level,
		Comparison: comparisonMessage(ctx, level, previous),
	}
	if previous != nil {
		res.Previous = PreviousCheck{Exists: true, Level: previous.Level, Date: &previous.TrackedAt}
	}
	return res, nil
}

func comparisonMessage(ctx context.Context, level int, previous *model.ConfidenceEntry) string {
	if previous == nil {
		return i18n.T(ctx, "ConfidenceFirstCheck")
	}
	data := map[string]any{"Date": previous.TrackedAt.Format("January 2, 2006")}
	switch {
	case level > previous.Level:
		return i18n.Td(ctx, "ConfidenceMore", data)
	case level < previous.Level:
		return i18n.Td(ctx, "ConfidenceLess", data)
	default:
		return i18n.Td(ctx, "ConfidenceSame", data)
	}
}
