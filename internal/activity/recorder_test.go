package activity

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"team-collab-api/internal/logger"
	"team-collab-api/internal/models"
	"team-collab-api/internal/realtime"
	"team-collab-api/internal/testutil"
)

type captureClient struct {
	messages [][]byte
}

func (c *captureClient) Send(message []byte) bool {
	c.messages = append(c.messages, message)
	return true
}

func (c *captureClient) Close() {}

func TestRecord_PersistsAndBroadcasts(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	hub := realtime.NewHub()
	client := &captureClient{}
	hub.Register(client)

	rec := NewRecorder(db, hub, logger.Get())
	rec.Record(models.ActivityTaskCreated, "u-1", "task", "t-1", `Task "Design" was created`)

	var stored []models.ActivityEvent
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	require.Equal(t, models.ActivityTaskCreated, stored[0].Kind)
	require.Equal(t, "u-1", stored[0].ActorID)
	require.Equal(t, "t-1", stored[0].SubjectID)

	require.Len(t, client.messages, 1)
	var env struct {
		Event string               `json:"event"`
		Data  models.ActivityEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(client.messages[0], &env))
	require.Equal(t, "activity", env.Event)
	require.Equal(t, stored[0].ID, env.Data.ID)
}

func TestRecent_NewestFirstWithLimit(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	rec := NewRecorder(db, realtime.NewHub(), logger.Get())

	rec.Record(models.ActivityTeamCreated, "u-1", "team", "tm-1", "first")
	rec.Record(models.ActivityProjectCreated, "u-1", "project", "p-1", "second")
	rec.Record(models.ActivityTaskCreated, "u-1", "task", "t-1", "third")

	events, err := rec.Recent(2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "third", events[0].Summary)
	require.Equal(t, "second", events[1].Summary)
}

func TestRecent_DefaultsBadLimit(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	rec := NewRecorder(db, realtime.NewHub(), logger.Get())

	events, err := rec.Recent(-5)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestRecent_ClampsOversizeLimit(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	rec := NewRecorder(db, realtime.NewHub(), logger.Get())

	for i := 0; i < 105; i++ {
		rec.Record(models.ActivityTaskUpdated, "u-1", "task", fmt.Sprintf("t-%d", i), fmt.Sprintf("event %d", i))
	}

	events, err := rec.Recent(1000)
	require.NoError(t, err)
	require.Len(t, events, 100)
}

// Concurrent mutations must not invert commit order on the push channel:
// each session sees events in the order their rows were inserted.
func TestRecord_ConcurrentCallsDeliverInCommitOrder(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	hub := realtime.NewHub()
	client := &captureClient{}
	hub.Register(client)

	rec := NewRecorder(db, hub, logger.Get())

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec.Record(models.ActivityTaskUpdated, "u-1", "task", fmt.Sprintf("t-%d", i), "update")
		}(i)
	}
	wg.Wait()

	require.Len(t, client.messages, n)

	// rowid reflects insertion order regardless of timestamp granularity.
	var stored []models.ActivityEvent
	require.NoError(t, db.Order("rowid asc").Find(&stored).Error)
	require.Len(t, stored, n)

	for i, raw := range client.messages {
		var env struct {
			Data models.ActivityEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &env))
		require.Equal(t, stored[i].ID, env.Data.ID, "frame %d out of commit order", i)
	}
}
