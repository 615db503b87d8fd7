package mcp

import "github.com/patlanio/whispeer/pkg/db"

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	BLE       string `json:"ble" jsonschema:"description=Bluetooth tooling availability"`
	Database  string `json:"database" jsonschema:"description=Database connection status"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Devices Tool ---

// ListDevicesOutput is the output for the list_devices tool
type ListDevicesOutput struct {
	Devices []DeviceInfo `json:"devices" jsonschema:"description=List of saved devices"`
	Count   int          `json:"count" jsonschema:"description=Total number of devices"`
}

// DeviceInfo represents a saved device in tool outputs
type DeviceInfo struct {
	ID         string   `json:"id" jsonschema:"description=Unique device identifier"`
	Name       string   `json:"name" jsonschema:"description=User-friendly device name"`
	DeviceType string   `json:"device_type" jsonschema:"description=Signal family (ir/rf/ble/broadlink)"`
	EmitterIP  string   `json:"emitter_ip,omitempty" jsonschema:"description=Bridge IP used to reach the device"`
	Frequency  *float64 `json:"frequency,omitempty" jsonschema:"description=RF frequency in MHz"`
	Commands   []string `json:"commands" jsonschema:"description=Names of the learned commands"`
}

// --- Send Command Tool ---

// SendCommandOutput is the output for the send_command tool
type SendCommandOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the command was emitted"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Signal Tools ---

// SendSignalOutput is the output for the raw-signal tools
type SendSignalOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the signal was emitted"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Discovery / Interfaces Tools ---

// DiscoverOutput is the output for the discover_broadlink_devices tool
type DiscoverOutput struct {
	Devices []BridgeInfo `json:"devices" jsonschema:"description=Broadlink bridges found on the network"`
	Count   int          `json:"count" jsonschema:"description=Number of bridges found"`
}

// BridgeInfo describes a discovered Broadlink bridge
type BridgeInfo struct {
	IP    string `json:"ip" jsonschema:"description=Bridge IP address"`
	MAC   string `json:"mac" jsonschema:"description=Bridge MAC address"`
	Model string `json:"model" jsonschema:"description=Bridge model name"`
}

// ListInterfacesOutput is the output for the list_interfaces tool
type ListInterfacesOutput struct {
	Interfaces []InterfaceInfo `json:"interfaces" jsonschema:"description=Available transceivers"`
	Count      int             `json:"count" jsonschema:"description=Number of transceivers"`
}

// InterfaceInfo describes a transceiver
type InterfaceInfo struct {
	Name   string `json:"name" jsonschema:"description=Interface name or address"`
	Status string `json:"status" jsonschema:"description=Interface status (up/down)"`
	Type   string `json:"type" jsonschema:"description=Interface type (bluetooth/broadlink/simulated)"`
}

// --- Learning Tools ---

// PrepareToLearnOutput is the output for the prepare_to_learn tool
type PrepareToLearnOutput struct {
	SessionID  string `json:"session_id" jsonschema:"description=Learning session identifier to poll with check_learned_command"`
	Status     string `json:"status" jsonschema:"description=Session status after preparation"`
	DeviceType string `json:"device_type" jsonschema:"description=Signal family being learned"`
	Message    string `json:"message" jsonschema:"description=Status message"`
}

// CheckLearnedCommandOutput is the output for the check_learned_command tool
type CheckLearnedCommandOutput struct {
	SessionID      string `json:"session_id" jsonschema:"description=Learning session identifier"`
	LearningStatus string `json:"learning_status" jsonschema:"description=Session status (preparing/ready/learning/completed/error/timeout)"`
	CommandData    string `json:"command_data,omitempty" jsonschema:"description=Captured command payload as hex once completed"`
	Message        string `json:"message" jsonschema:"description=Status message"`
}

// --- Helper conversions ---

// deviceToInfo converts a db.Device and its commands to DeviceInfo
func deviceToInfo(d db.Device, commands []db.Command) DeviceInfo {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}
	return DeviceInfo{
		ID:         d.ID,
		Name:       d.Name,
		DeviceType: d.DeviceType,
		EmitterIP:  d.EmitterIP,
		Frequency:  d.Frequency,
		Commands:   names,
	}
}
