package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of the Whispeer service, its database, and the Bluetooth tooling"),
		),
		s.handleGetHealth,
	)

	// List devices
	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List all saved devices with the names of their learned commands"),
		),
		s.handleListDevices,
	)

	// Send a saved command
	s.mcpServer.AddTool(
		mcp.NewTool("send_command",
			mcp.WithDescription("Emit a previously learned command through the device's emitter"),
			mcp.WithString("device_id",
				mcp.Required(),
				mcp.Description("Saved device identifier"),
			),
			mcp.WithString("command",
				mcp.Required(),
				mcp.Description("Name of the learned command to send"),
			),
		),
		s.handleSendCommand,
	)

	// Raw BLE advertisement
	s.mcpServer.AddTool(
		mcp.NewTool("send_ble_signal",
			mcp.WithDescription("Emit a raw BLE advertisement payload"),
			mcp.WithString("data",
				mcp.Required(),
				mcp.Description("Hex-encoded advertisement payload"),
			),
			mcp.WithString("interface",
				mcp.Description("Bluetooth adapter to emit through (default: first available)"),
			),
		),
		s.handleSendBLESignal,
	)

	// Raw Broadlink payload
	s.mcpServer.AddTool(
		mcp.NewTool("send_broadlink_signal",
			mcp.WithDescription("Emit a raw IR/RF payload through a Broadlink bridge"),
			mcp.WithString("ip",
				mcp.Required(),
				mcp.Description("Bridge IP address"),
			),
			mcp.WithString("command_data",
				mcp.Required(),
				mcp.Description("Hex-encoded IR/RF payload"),
			),
		),
		s.handleSendBroadlinkSignal,
	)

	// Broadlink discovery
	s.mcpServer.AddTool(
		mcp.NewTool("discover_broadlink_devices",
			mcp.WithDescription("Discover Broadlink bridges on the local network"),
		),
		s.handleDiscoverBroadlinkDevices,
	)

	// Interface listing
	s.mcpServer.AddTool(
		mcp.NewTool("list_interfaces",
			mcp.WithDescription("List available transceivers: Bluetooth adapters, or Broadlink bridges when type=broadlink"),
			mcp.WithString("type",
				mcp.Description("Interface type: ble (default) or broadlink"),
			),
		),
		s.handleListInterfaces,
	)

	// Learning
	s.mcpServer.AddTool(
		mcp.NewTool("prepare_to_learn",
			mcp.WithDescription("Open a learning session so a remote button press can be captured. Poll with check_learned_command."),
			mcp.WithString("device_type",
				mcp.Required(),
				mcp.Description("Signal family: ir, rf, or ble"),
			),
			mcp.WithString("ip",
				mcp.Description("Broadlink bridge IP (required for ir/rf)"),
			),
			mcp.WithString("interface",
				mcp.Description("Bluetooth adapter name (ble only)"),
			),
			mcp.WithNumber("frequency",
				mcp.Description("RF frequency in MHz (default 433.92)"),
			),
		),
		s.handlePrepareToLearn,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("check_learned_command",
			mcp.WithDescription("Poll a learning session; returns the captured command payload once completed"),
			mcp.WithString("session_id",
				mcp.Required(),
				mcp.Description("Session identifier from prepare_to_learn"),
			),
		),
		s.handleCheckLearnedCommand,
	)
}
