package activity

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"team-collab-api/internal/errs"
	"team-collab-api/internal/models"
	"team-collab-api/internal/realtime"
)

// Recorder persists activity events and fans them out to live sessions.
// Recording is fire-and-forget from the mutation's perspective: a failure
// here is logged and never fails the operation that triggered it.
type Recorder struct {
	mu  sync.Mutex
	db  *gorm.DB
	hub *realtime.Hub
	log *slog.Logger
}

// NewRecorder wires a recorder to its store and hub.
func NewRecorder(db *gorm.DB, hub *realtime.Hub, log *slog.Logger) *Recorder {
	return &Recorder{db: db, hub: hub, log: log}
}

// envelope is the wire shape pushed to sessions.
type envelope struct {
	Event string               `json:"event"`
	Data  models.ActivityEvent `json:"data"`
}

// Record stores one event and broadcasts it to all currently connected
// sessions. The persist+broadcast pair runs under a lock so every session
// sees events in commit order even when mutations land on concurrent
// request goroutines; sessions that disconnected before the call receive
// nothing.
func (r *Recorder) Record(kind, actorID, subjectType, subjectID, summary string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	evt := models.ActivityEvent{
		ID:          uuid.NewString(),
		Kind:        kind,
		ActorID:     actorID,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Summary:     summary,
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.db.Create(&evt).Error; err != nil {
		r.log.Error("failed to persist activity event", "kind", kind, "error", err)
		return
	}

	payload, err := json.Marshal(envelope{Event: "activity", Data: evt})
	if err != nil {
		r.log.Error("failed to encode activity event", "kind", kind, "error", err)
		return
	}
	r.hub.Broadcast(payload)
}

// Recent returns up to limit events, newest first. This is the pull-based
// history query; the push channel never replays. Non-positive limits fall
// back to the default page size; oversize limits are clamped to the cap.
func (r *Recorder) Recent(limit int) ([]models.ActivityEvent, error) {
	switch {
	case limit <= 0:
		limit = 10
	case limit > 100:
		limit = 100
	}
	var events []models.ActivityEvent
	err := r.db.Order("created_at desc").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch activity", errs.ErrUnavailable)
	}
	return events, nil
}
