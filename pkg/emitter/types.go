package emitter

// Kind identifies the signal family a device or command belongs to.
type Kind string

const (
	KindIR  Kind = "ir"
	KindRF  Kind = "rf"
	KindBLE Kind = "ble"
	// KindBroadlink is the send-side alias for IR/RF commands that go
	// through a Broadlink bridge.
	KindBroadlink Kind = "broadlink"
)

// Valid reports whether k is a kind a learning session accepts.
func (k Kind) Valid() bool {
	switch k {
	case KindIR, KindRF, KindBLE:
		return true
	}
	return false
}

// Learnable reports whether k names a kind any endpoint accepts.
func (k Kind) Learnable() bool {
	return k.Valid()
}

// DefaultRFFrequency is the sweep frequency used when an RF session
// does not specify one, in MHz.
const DefaultRFFrequency = 433.92

// Interface describes a transceiver the service can emit through:
// a Bluetooth adapter, a Broadlink bridge, or a simulation stand-in.
type Interface struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	MAC         string `json:"mac,omitempty"`
	Platform    string `json:"platform,omitempty"`
}

// BridgeInfo describes a Broadlink bridge found on the network.
type BridgeInfo struct {
	IP           string `json:"ip"`
	Port         int    `json:"port"`
	MAC          string `json:"mac"`
	DeviceType   string `json:"type"`
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
}
