package types

import (
	"time"

	"github.com/patlanio/whispeer/pkg/db"
	"github.com/patlanio/whispeer/pkg/emitter"
)

// --- Request DTOs ---

// EmitterSpec describes the transceiver a learn request goes through:
// a bridge IP (plus optional frequency) for ir/rf, or an adapter name
// for ble. Name and Interface are accepted interchangeably.
type EmitterSpec struct {
	IP        string   `json:"ip,omitempty"`
	Frequency *float64 `json:"frequency,omitempty"`
	Name      string   `json:"name,omitempty"`
	Interface string   `json:"interface,omitempty"`
}

// PrepareToLearnRequest is the request body for POST /prepare_to_learn
type PrepareToLearnRequest struct {
	DeviceType string      `json:"device_type"`
	Emitter    EmitterSpec `json:"emitter"`
}

// CheckLearnedCommandRequest is the request body for POST /check_learned_command
type CheckLearnedCommandRequest struct {
	DeviceType string `json:"device_type"`
	SessionID  string `json:"session_id"`
}

// GetInterfacesRequest is the request body for POST /get_interfaces
type GetInterfacesRequest struct {
	Type string `json:"type"`
}

// SendCommandRequest is the request body for POST /send_command
type SendCommandRequest struct {
	DeviceID string `json:"device_id"`
	Command  string `json:"command"`
}

// SendBLESignalRequest is the request body for POST /send_ble_signal
type SendBLESignalRequest struct {
	Data      string `json:"data"`
	Interface string `json:"interface,omitempty"`
}

// SendBroadlinkSignalRequest is the request body for POST /send_broadlink_signal
type SendBroadlinkSignalRequest struct {
	IP          string `json:"ip"`
	CommandData string `json:"command_data"`
}

// CreateDeviceRequest is the request body for POST /devices
type CreateDeviceRequest struct {
	Name       string           `json:"name"`
	DeviceType string           `json:"device_type"`
	EmitterIP  string           `json:"emitter_ip,omitempty"`
	Frequency  *float64         `json:"frequency,omitempty"`
	Commands   []CommandPayload `json:"commands,omitempty"`
}

// CommandPayload is a learned command submitted with a device.
type CommandPayload struct {
	Name        string `json:"name"`
	CommandData string `json:"command_data"`
	CommandType string `json:"command_type,omitempty"`
}

// --- Response DTOs ---

// ErrorResponse represents a request-level API error
type ErrorResponse struct {
	Error string `json:"error"`
}

// PrepareToLearnResponse is returned from POST /prepare_to_learn
type PrepareToLearnResponse struct {
	Status     string   `json:"status"`
	SessionID  string   `json:"session_id"`
	DeviceType string   `json:"device_type"`
	Message    string   `json:"message"`
	Frequency  *float64 `json:"frequency,omitempty"`
}

// CheckLearnedCommandResponse is returned from POST /check_learned_command
type CheckLearnedCommandResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	CommandData    string `json:"command_data,omitempty"`
	CommandType    string `json:"command_type,omitempty"`
	SessionID      string `json:"session_id"`
	LearningStatus string `json:"learning_status,omitempty"`
}

// StatusResponse is the generic success envelope for send operations.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// TestDeviceResponse is returned from POST /device/:id
type TestDeviceResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	TestResult string `json:"test_result"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	BLE       string    `json:"ble"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// InterfacesResponse is returned from GET /get_interfaces
type InterfacesResponse struct {
	Status     string              `json:"status"`
	Interfaces []emitter.Interface `json:"interfaces"`
	Count      int                 `json:"count"`
}

// DiscoverResponse is returned from GET /discover_broadlink_devices
type DiscoverResponse struct {
	Status  string               `json:"status"`
	Devices []emitter.BridgeInfo `json:"devices"`
	Count   int                  `json:"count"`
}

// DeviceWithCommands combines a saved device with its commands.
type DeviceWithCommands struct {
	db.Device
	Commands []db.Command `json:"commands"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	Status  string               `json:"status"`
	Devices []DeviceWithCommands `json:"devices"`
	Count   int                  `json:"count"`
}

// DeviceResponse is returned from POST /devices
type DeviceResponse struct {
	Status string             `json:"status"`
	Device DeviceWithCommands `json:"device"`
}
