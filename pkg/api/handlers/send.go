package handlers

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patlanio/whispeer/pkg/api/types"
	"github.com/patlanio/whispeer/pkg/db"
	"github.com/patlanio/whispeer/pkg/emitter"
)

// SendHandler handles command emission endpoints
type SendHandler struct {
	store     *db.DB
	broadlink emitter.Sender
	ble       emitter.Sender
}

// NewSendHandler creates a new send handler
func NewSendHandler(store *db.DB, broadlink, ble emitter.Sender) *SendHandler {
	return &SendHandler{store: store, broadlink: broadlink, ble: ble}
}

// SendCommand handles POST /send_command
// @Summary      Send a saved command
// @Description  Looks up a learned command by device and name and emits it through the device's emitter
// @Tags         sending
// @Accept       json
// @Produce      json
// @Param        request  body      types.SendCommandRequest  true  "Device id and command name"
// @Success      200      {object}  types.StatusResponse
// @Failure      400      {object}  types.ErrorResponse  "Missing required field"
// @Failure      404      {object}  types.ErrorResponse  "Device or command not found"
// @Failure      500      {object}  types.ErrorResponse  "Emission failed"
// @Router       /send_command [post]
func (h *SendHandler) SendCommand(c *gin.Context) {
	var req types.SendCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.DeviceID == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: device_id"})
		return
	}
	if req.Command == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: command"})
		return
	}

	ctx := c.Request.Context()

	device, err := h.store.GetDevice(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: fmt.Sprintf("Unknown device: %s", req.DeviceID)})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	command, err := h.store.GetCommand(ctx, device.ID, req.Command)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: fmt.Sprintf("Unknown command: %s", req.Command)})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	payload, err := hex.DecodeString(command.CommandData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: fmt.Sprintf("Stored command data is not valid hex: %v", err)})
		return
	}

	switch emitter.Kind(command.CommandType) {
	case emitter.KindBLE:
		err = h.ble.Send(ctx, device.EmitterIP, payload)
	case emitter.KindIR, emitter.KindRF, emitter.KindBroadlink:
		err = h.broadlink.Send(ctx, device.EmitterIP, payload)
	default:
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: fmt.Sprintf("Unsupported command type: %s", command.CommandType)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Status:  "success",
		Message: fmt.Sprintf("Command %q sent to %s", command.Name, device.Name),
	})
}

// TestDevice handles POST /device/:id
// @Summary      Test a saved device
// @Description  Checks that the device's emitter is reachable without sending a command
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.TestDeviceResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /device/{id} [post]
func (h *SendHandler) TestDevice(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	device, err := h.store.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: fmt.Sprintf("Unknown device: %s", id)})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	result := "passed"
	message := fmt.Sprintf("Device %s test completed", device.Name)

	switch emitter.Kind(device.DeviceType) {
	case emitter.KindBLE:
		if avail, ok := h.ble.(interface{ Available() bool }); ok && !avail.Available() {
			result = "simulated"
			message = "Bluetooth tools not available, emission will be simulated"
		}
	default:
		if conn, ok := h.broadlink.(emitter.Connector); ok && device.EmitterIP != "" {
			handle, err := conn.Connect(ctx, device.EmitterIP)
			if err != nil {
				c.JSON(http.StatusOK, types.TestDeviceResponse{
					Status:     "error",
					Message:    fmt.Sprintf("Failed to connect to device at %s: %v", device.EmitterIP, err),
					TestResult: "failed",
				})
				return
			}
			handle.Close()
		}
	}

	c.JSON(http.StatusOK, types.TestDeviceResponse{
		Status:     "success",
		Message:    message,
		TestResult: result,
	})
}

// SendBLESignal handles POST /send_ble_signal
// @Summary      Emit a raw BLE advertisement
// @Tags         sending
// @Accept       json
// @Produce      json
// @Param        request  body      types.SendBLESignalRequest  true  "Hex payload and optional interface"
// @Success      200      {object}  types.StatusResponse
// @Failure      400      {object}  types.ErrorResponse  "Missing required field"
// @Failure      500      {object}  types.ErrorResponse  "Emission failed"
// @Router       /send_ble_signal [post]
func (h *SendHandler) SendBLESignal(c *gin.Context) {
	var req types.SendBLESignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Data == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: data"})
		return
	}

	payload, err := hex.DecodeString(req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: fmt.Sprintf("Invalid hex data: %v", err)})
		return
	}

	if err := h.ble.Send(c.Request.Context(), req.Interface, payload); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Status:  "success",
		Message: "BLE signal emitted",
	})
}

// SendBroadlinkSignal handles POST /send_broadlink_signal
// @Summary      Emit a raw IR/RF payload through a Broadlink bridge
// @Tags         sending
// @Accept       json
// @Produce      json
// @Param        request  body      types.SendBroadlinkSignalRequest  true  "Bridge IP and hex payload"
// @Success      200      {object}  types.StatusResponse
// @Failure      400      {object}  types.ErrorResponse  "Missing required field"
// @Failure      500      {object}  types.ErrorResponse  "Emission failed"
// @Router       /send_broadlink_signal [post]
func (h *SendHandler) SendBroadlinkSignal(c *gin.Context) {
	var req types.SendBroadlinkSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.IP == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: ip"})
		return
	}
	if req.CommandData == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: command_data"})
		return
	}

	payload, err := hex.DecodeString(req.CommandData)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: fmt.Sprintf("Invalid hex data: %v", err)})
		return
	}

	if err := h.broadlink.Send(c.Request.Context(), req.IP, payload); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Status:  "success",
		Message: fmt.Sprintf("Signal sent through %s", req.IP),
	})
}
