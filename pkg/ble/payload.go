// Package ble emits BLE advertisements through BlueZ command-line
// tools (hcitool/hciconfig/bluetoothctl), with a simulation fallback
// when neither tools nor hardware are present.
package ble

import (
	"fmt"
	"strings"
)

// serviceUUID is the 16-bit service identifier carried in every
// advertisement's service-data block.
var serviceUUID = []string{"F0", "08"}

// hexPairs splits a hex string into upper-case byte tokens.
func hexPairs(data string) ([]string, error) {
	data = strings.TrimSpace(data)
	if len(data) == 0 || len(data)%2 != 0 {
		return nil, fmt.Errorf("hex data must have even length, got %d", len(data))
	}
	pairs := make([]string, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		pair := strings.ToUpper(data[i : i+2])
		for _, c := range pair {
			if !strings.ContainsRune("0123456789ABCDEF", c) {
				return nil, fmt.Errorf("invalid hex byte %q", pair)
			}
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// BuildAdvPayload frames hex command data as an advertising payload:
// the flags block, then a service-data block carrying the service UUID
// and the command bytes, each with its length prefix, the whole thing
// preceded by its significant-octet count. Tokens are hex bytes in the
// form hcitool expects.
func BuildAdvPayload(dataHex string) ([]string, error) {
	data, err := hexPairs(dataHex)
	if err != nil {
		return nil, err
	}

	flags := []string{"02", "01", "06"}

	serviceData := append([]string{"16"}, serviceUUID...)
	serviceData = append(serviceData, data...)

	payload := append([]string{}, flags...)
	payload = append(payload, fmt.Sprintf("%02X", len(serviceData)))
	payload = append(payload, serviceData...)

	full := append([]string{fmt.Sprintf("%02X", len(payload))}, payload...)
	return full, nil
}
