package handlers

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patlanio/whispeer/pkg/api/types"
	"github.com/patlanio/whispeer/pkg/emitter"
	"github.com/patlanio/whispeer/pkg/learning"
)

// LearnHandler handles command-learning session endpoints
type LearnHandler struct {
	registry *learning.Registry
}

// NewLearnHandler creates a new learn handler
func NewLearnHandler(registry *learning.Registry) *LearnHandler {
	return &LearnHandler{registry: registry}
}

// PrepareToLearn handles POST /prepare_to_learn
// @Summary      Start a learning session
// @Description  Connects to the requested emitter and opens a learning session the client polls with check_learned_command
// @Tags         learning
// @Accept       json
// @Produce      json
// @Param        request  body      types.PrepareToLearnRequest  true  "Device type and emitter"
// @Success      200      {object}  types.PrepareToLearnResponse
// @Failure      400      {object}  types.ErrorResponse  "Missing required field"
// @Router       /prepare_to_learn [post]
func (h *LearnHandler) PrepareToLearn(c *gin.Context) {
	var req types.PrepareToLearnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.DeviceType == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: device_type"})
		return
	}

	kind := emitter.Kind(req.DeviceType)

	target := req.Emitter.IP
	if kind == emitter.KindBLE {
		target = req.Emitter.Name
		if target == "" {
			target = req.Emitter.Interface
		}
	}

	frequency := 0.0
	if req.Emitter.Frequency != nil {
		frequency = *req.Emitter.Frequency
	}

	snap := h.registry.Create(c.Request.Context(), kind, target, frequency)

	resp := types.PrepareToLearnResponse{
		SessionID:  snap.ID,
		DeviceType: req.DeviceType,
	}
	if snap.Status == learning.StatusError {
		resp.Status = "error"
		resp.Message = snap.ErrorDetail
	} else {
		resp.Status = "success"
		resp.Message = fmt.Sprintf("Ready to learn %s command", req.DeviceType)
	}
	if kind == emitter.KindRF {
		freq := snap.Frequency
		resp.Frequency = &freq
	}

	c.JSON(http.StatusOK, resp)
}

// CheckLearnedCommand handles POST /check_learned_command
// @Summary      Poll a learning session
// @Description  Returns the session's current status and, once completed, the captured command payload
// @Tags         learning
// @Accept       json
// @Produce      json
// @Param        request  body      types.CheckLearnedCommandRequest  true  "Device type and session id"
// @Success      200      {object}  types.CheckLearnedCommandResponse
// @Failure      400      {object}  types.ErrorResponse  "Missing required field"
// @Router       /check_learned_command [post]
func (h *LearnHandler) CheckLearnedCommand(c *gin.Context) {
	var req types.CheckLearnedCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.DeviceType == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: device_type"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: session_id"})
		return
	}

	snap, err := h.registry.Poll(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, learning.ErrSessionNotFound) {
			// Unknown sessions are reported in the success envelope so
			// the polling client can surface the message.
			c.JSON(http.StatusOK, types.CheckLearnedCommandResponse{
				Status:    "error",
				Message:   fmt.Sprintf("Unknown learning session: %s", req.SessionID),
				SessionID: req.SessionID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	resp := types.CheckLearnedCommandResponse{
		SessionID:      snap.ID,
		LearningStatus: string(snap.Status),
	}

	switch snap.Status {
	case learning.StatusCompleted:
		resp.Status = "success"
		resp.Message = "Command learned successfully"
		resp.CommandData = hex.EncodeToString(snap.Payload)
		resp.CommandType = string(snap.Kind)
	case learning.StatusError:
		resp.Status = "error"
		resp.Message = snap.ErrorDetail
	case learning.StatusTimeout:
		resp.Status = "error"
		resp.Message = "Learning session timed out"
	default:
		resp.Status = "success"
		resp.Message = "Learning in progress, no command captured yet"
	}

	c.JSON(http.StatusOK, resp)
}
