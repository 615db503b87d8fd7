package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patlanio/whispeer/pkg/api/types"
	"github.com/patlanio/whispeer/pkg/db"
	"github.com/patlanio/whispeer/pkg/schema"
)

// DevicesHandler handles saved-device CRUD endpoints
type DevicesHandler struct {
	store     *db.DB
	validator *schema.Validator
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(store *db.DB, validator *schema.Validator) *DevicesHandler {
	return &DevicesHandler{store: store, validator: validator}
}

// ListDevices handles GET /devices
// @Summary      List saved devices
// @Description  Returns all saved devices together with their learned commands
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.ListDevicesResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	ctx := c.Request.Context()

	devices, err := h.store.ListDevices(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]types.DeviceWithCommands, 0, len(devices))
	for _, d := range devices {
		commands, err := h.store.ListCommands(ctx, d.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
			return
		}
		out = append(out, types.DeviceWithCommands{Device: d, Commands: commands})
	}

	c.JSON(http.StatusOK, types.ListDevicesResponse{
		Status:  "success",
		Devices: out,
		Count:   len(out),
	})
}

// CreateDevice handles POST /devices
// @Summary      Save a device
// @Description  Saves a device and its learned commands after validating the payload
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        request  body      types.CreateDeviceRequest  true  "Device definition"
// @Success      201      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid payload"
// @Failure      500      {object}  types.ErrorResponse
// @Router       /devices [post]
func (h *DevicesHandler) CreateDevice(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.ValidateDevice(raw); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	req := decodeCreateDevice(raw)

	commands := make([]db.Command, 0, len(req.Commands))
	for _, p := range req.Commands {
		commandType := p.CommandType
		if commandType == "" {
			commandType = req.DeviceType
		}
		commands = append(commands, db.Command{
			Name:        p.Name,
			CommandData: p.CommandData,
			CommandType: commandType,
		})
	}

	ctx := c.Request.Context()
	created, err := h.store.CreateDevice(ctx, db.Device{
		Name:       req.Name,
		DeviceType: req.DeviceType,
		EmitterIP:  req.EmitterIP,
		Frequency:  req.Frequency,
	}, commands)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	saved, err := h.store.ListCommands(ctx, created.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, types.DeviceResponse{
		Status: "success",
		Device: types.DeviceWithCommands{Device: created, Commands: saved},
	})
}

// DeleteDevice handles DELETE /device/:id
// @Summary      Remove a saved device
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.StatusResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      500  {object}  types.ErrorResponse
// @Router       /device/{id} [delete]
func (h *DevicesHandler) DeleteDevice(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteDevice(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: fmt.Sprintf("Unknown device: %s", id)})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Status:  "success",
		Message: "Device removed",
	})
}

// decodeCreateDevice maps an already-validated payload onto the request
// struct. The schema guarantees the field types.
func decodeCreateDevice(raw map[string]any) types.CreateDeviceRequest {
	req := types.CreateDeviceRequest{
		Name:       str(raw["name"]),
		DeviceType: str(raw["device_type"]),
		EmitterIP:  str(raw["emitter_ip"]),
	}
	if f, ok := raw["frequency"].(float64); ok {
		req.Frequency = &f
	}
	if list, ok := raw["commands"].([]any); ok {
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			req.Commands = append(req.Commands, types.CommandPayload{
				Name:        str(m["name"]),
				CommandData: str(m["command_data"]),
				CommandType: str(m["command_type"]),
			})
		}
	}
	return req
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
