package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patlanio/whispeer/pkg/api/types"
	"github.com/patlanio/whispeer/pkg/emitter"
)

// discoverTimeout bounds the Broadlink broadcast probe.
const discoverTimeout = 5 * time.Second

// Discoverer finds Broadlink bridges on the local network.
type Discoverer interface {
	Discover(ctx context.Context, timeout time.Duration) ([]emitter.BridgeInfo, error)
}

// InterfacesHandler handles transceiver enumeration endpoints
type InterfacesHandler struct {
	ble        emitter.InterfaceLister
	discoverer Discoverer
}

// NewInterfacesHandler creates a new interfaces handler
func NewInterfacesHandler(ble emitter.InterfaceLister, discoverer Discoverer) *InterfacesHandler {
	return &InterfacesHandler{ble: ble, discoverer: discoverer}
}

// GetInterfaces handles POST /get_interfaces
// @Summary      List available transceivers
// @Description  Lists Bluetooth adapters for ble, or Broadlink bridges for ir/rf/broadlink
// @Tags         interfaces
// @Accept       json
// @Produce      json
// @Param        request  body      types.GetInterfacesRequest  true  "Interface type"
// @Success      200      {object}  types.InterfacesResponse
// @Failure      400      {object}  types.ErrorResponse  "Missing or unsupported type"
// @Failure      500      {object}  types.ErrorResponse
// @Router       /get_interfaces [post]
func (h *InterfacesHandler) GetInterfaces(c *gin.Context) {
	var req types.GetInterfacesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Type == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Missing required field: type"})
		return
	}

	ctx := c.Request.Context()

	var (
		interfaces []emitter.Interface
		err        error
	)
	switch req.Type {
	case "ble":
		interfaces, err = h.ble.Interfaces(ctx)
	case "ir", "rf", "broadlink":
		interfaces, err = h.broadlinkInterfaces(ctx)
	default:
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Unsupported device type: " + req.Type})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.InterfacesResponse{
		Status:     "success",
		Interfaces: interfaces,
		Count:      len(interfaces),
	})
}

func (h *InterfacesHandler) broadlinkInterfaces(ctx context.Context) ([]emitter.Interface, error) {
	bridges, err := h.discoverer.Discover(ctx, discoverTimeout)
	if err != nil {
		return nil, err
	}

	interfaces := make([]emitter.Interface, 0, len(bridges))
	for _, b := range bridges {
		interfaces = append(interfaces, emitter.Interface{
			Name:        b.IP,
			Status:      "up",
			Type:        "broadlink",
			Description: b.Model,
			MAC:         b.MAC,
			Platform:    b.Manufacturer,
		})
	}
	return interfaces, nil
}

// DiscoverBroadlinkDevices handles POST /discover_broadlink_devices
// @Summary      Discover Broadlink bridges
// @Description  Broadcasts a discovery probe and returns the bridges that answered
// @Tags         interfaces
// @Produce      json
// @Success      200  {object}  types.DiscoverResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /discover_broadlink_devices [post]
func (h *InterfacesHandler) DiscoverBroadlinkDevices(c *gin.Context) {
	bridges, err := h.discoverer.Discover(c.Request.Context(), discoverTimeout)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.DiscoverResponse{
		Status:  "success",
		Devices: bridges,
		Count:   len(bridges),
	})
}
