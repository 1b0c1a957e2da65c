package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	progressKeyPrefix = "meeting:progress:"
	statsKey          = "meetings:stats"
)

// ProgressSnapshot is the cached view of a meeting's pipeline state, written
// by workers and read by the progress endpoint without touching Postgres.
type ProgressSnapshot struct {
	MeetingID string    `json:"meeting_id"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressStore caches progress snapshots and the stats payload. All methods
// are safe on a nil receiver so callers can run without any cache configured.
type ProgressStore struct {
	cache       Cache
	progressTTL time.Duration
	statsTTL    time.Duration
}

// NewProgressStore wraps a Cache. A nil cache yields a nil store, which is
// valid to call.
func NewProgressStore(c Cache, progressTTL, statsTTL time.Duration) *ProgressStore {
	if c == nil {
		return nil
	}
	if progressTTL <= 0 {
		progressTTL = time.Hour
	}
	if statsTTL <= 0 {
		statsTTL = 2 * time.Minute
	}
	return &ProgressStore{cache: c, progressTTL: progressTTL, statsTTL: statsTTL}
}

// SetProgress writes a snapshot for a meeting
func (p *ProgressStore) SetProgress(ctx context.Context, meetingID uuid.UUID, snapshot ProgressSnapshot) error {
	if p == nil {
		return nil
	}
	snapshot.MeetingID = meetingID.String()
	snapshot.UpdatedAt = time.Now()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal progress snapshot: %w", err)
	}
	return p.cache.Set(ctx, progressKeyPrefix+meetingID.String(), string(data), p.progressTTL)
}

// GetProgress reads the snapshot of a meeting; the bool reports a cache hit
func (p *ProgressStore) GetProgress(ctx context.Context, meetingID uuid.UUID) (*ProgressSnapshot, bool, error) {
	if p == nil {
		return nil, false, nil
	}
	raw, ok, err := p.cache.Get(ctx, progressKeyPrefix+meetingID.String())
	if err != nil || !ok {
		return nil, false, err
	}

	var snapshot ProgressSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal progress snapshot: %w", err)
	}
	return &snapshot, true, nil
}

// InvalidateProgress drops the snapshot of a meeting
func (p *ProgressStore) InvalidateProgress(ctx context.Context, meetingID uuid.UUID) error {
	if p == nil {
		return nil
	}
	return p.cache.Delete(ctx, progressKeyPrefix+meetingID.String())
}

// SetStats caches the aggregated stats payload
func (p *ProgressStore) SetStats(ctx context.Context, payload interface{}) error {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return p.cache.Set(ctx, statsKey, string(data), p.statsTTL)
}

// GetStats reads the cached stats payload into out; the bool reports a hit
func (p *ProgressStore) GetStats(ctx context.Context, out interface{}) (bool, error) {
	if p == nil {
		return false, nil
	}
	raw, ok, err := p.cache.Get(ctx, statsKey)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return true, nil
}

// InvalidateStats drops the cached stats payload
func (p *ProgressStore) InvalidateStats(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.cache.Delete(ctx, statsKey)
}
