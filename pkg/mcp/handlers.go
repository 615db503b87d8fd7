package mcp

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/patlanio/whispeer/pkg/db"
	"github.com/patlanio/whispeer/pkg/emitter"
	"github.com/patlanio/whispeer/pkg/learning"
)

// discoverTimeout bounds the Broadlink broadcast probe.
const discoverTimeout = 5 * time.Second

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bleStatus := "unavailable"
	if s.ble.Available() {
		bleStatus = "available"
	}

	dbStatus := "connected"
	status := "healthy"
	if err := s.store.PingContext(ctx); err != nil {
		dbStatus = "disconnected"
		status = "unhealthy"
	}

	out := GetHealthOutput{
		Status:    status,
		BLE:       bleStatus,
		Database:  dbStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := s.store.ListDevices(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list devices: %s", err)), nil
	}

	infos := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		commands, err := s.store.ListCommands(ctx, d.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list commands: %s", err)), nil
		}
		infos = append(infos, deviceToInfo(d, commands))
	}

	out := ListDevicesOutput{
		Devices: infos,
		Count:   len(infos),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceID, err := requiredString(request, "device_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	commandName, err := requiredString(request, "command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	device, err := s.store.GetDevice(ctx, deviceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown device: %s", deviceID)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	command, err := s.store.GetCommand(ctx, device.ID, commandName)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown command: %s", commandName)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := hex.DecodeString(command.CommandData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stored command data is not valid hex: %s", err)), nil
	}

	switch emitter.Kind(command.CommandType) {
	case emitter.KindBLE:
		err = s.ble.Send(ctx, device.EmitterIP, payload)
	default:
		err = s.broadlink.Send(ctx, device.EmitterIP, payload)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to send command: %s", err)), nil
	}

	out := SendCommandOutput{
		Success: true,
		Message: fmt.Sprintf("Command %q sent to %s", command.Name, device.Name),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendBLESignal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := requiredString(request, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	iface := optionalString(request, "interface")

	payload, err := hex.DecodeString(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid hex data: %s", err)), nil
	}

	if err := s.ble.Send(ctx, iface, payload); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to emit BLE signal: %s", err)), nil
	}

	out := SendSignalOutput{
		Success: true,
		Message: "BLE signal emitted",
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendBroadlinkSignal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ip, err := requiredString(request, "ip")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := requiredString(request, "command_data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := hex.DecodeString(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid hex data: %s", err)), nil
	}

	if err := s.broadlink.Send(ctx, ip, payload); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to emit signal: %s", err)), nil
	}

	out := SendSignalOutput{
		Success: true,
		Message: fmt.Sprintf("Signal sent through %s", ip),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDiscoverBroadlinkDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bridges, err := s.broadlink.Discover(ctx, discoverTimeout)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("discovery failed: %s", err)), nil
	}

	out := DiscoverOutput{Count: len(bridges)}
	for _, b := range bridges {
		out.Devices = append(out.Devices, BridgeInfo{IP: b.IP, MAC: b.MAC, Model: b.Model})
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListInterfaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out ListInterfacesOutput

	switch optionalString(request, "type") {
	case "ir", "rf", "broadlink":
		bridges, err := s.broadlink.Discover(ctx, discoverTimeout)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("discovery failed: %s", err)), nil
		}
		for _, b := range bridges {
			out.Interfaces = append(out.Interfaces, InterfaceInfo{Name: b.IP, Status: "up", Type: "broadlink"})
		}
	default:
		interfaces, err := s.ble.Interfaces(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list interfaces: %s", err)), nil
		}
		for _, i := range interfaces {
			out.Interfaces = append(out.Interfaces, InterfaceInfo{Name: i.Name, Status: i.Status, Type: i.Type})
		}
	}

	out.Count = len(out.Interfaces)
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handlePrepareToLearn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceType, err := requiredString(request, "device_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	kind := emitter.Kind(deviceType)
	target := optionalString(request, "ip")
	if kind == emitter.KindBLE {
		target = optionalString(request, "interface")
	}

	frequency := 0.0
	if f, ok := request.GetArguments()["frequency"].(float64); ok {
		frequency = f
	}

	snap := s.registry.Create(ctx, kind, target, frequency)

	out := PrepareToLearnOutput{
		SessionID:  snap.ID,
		Status:     string(snap.Status),
		DeviceType: deviceType,
	}
	if snap.Status == learning.StatusError {
		out.Message = snap.ErrorDetail
	} else {
		out.Message = fmt.Sprintf("Ready to learn %s command", deviceType)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleCheckLearnedCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requiredString(request, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := s.registry.Poll(ctx, sessionID)
	if err != nil {
		if errors.Is(err, learning.ErrSessionNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown learning session: %s", sessionID)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := CheckLearnedCommandOutput{
		SessionID:      snap.ID,
		LearningStatus: string(snap.Status),
	}
	switch snap.Status {
	case learning.StatusCompleted:
		out.CommandData = hex.EncodeToString(snap.Payload)
		out.Message = "Command learned successfully"
	case learning.StatusError:
		out.Message = snap.ErrorDetail
	case learning.StatusTimeout:
		out.Message = "Learning session timed out"
	default:
		out.Message = "Learning in progress, no command captured yet"
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalString(request mcp.CallToolRequest, key string) string {
	s, _ := request.GetArguments()[key].(string)
	return s
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
