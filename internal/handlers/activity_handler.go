package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"team-collab-api/internal/activity"
	"team-collab-api/internal/policy"
)

// ActivityHandler serves the pull-based activity history. Live delivery goes
// over the websocket channel; this endpoint is the backfill for late joiners.
type ActivityHandler struct {
	recorder *activity.Recorder
}

// NewActivityHandler wires the handler to the recorder.
func NewActivityHandler(recorder *activity.Recorder) *ActivityHandler {
	return &ActivityHandler{recorder: recorder}
}

// List handles GET /api/activity?limit=N
func (h *ActivityHandler) List(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !authorize(c, p, policy.ActionViewTasks, policy.Resource{}) {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	events, err := h.recorder.Recent(limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": events,
		"count":    len(events),
	})
}
