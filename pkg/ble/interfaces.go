package ble

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/patlanio/whispeer/pkg/emitter"
)

// runner abstracts subprocess execution so output parsing is testable.
type runner func(ctx context.Context, name string, args ...string) (string, error)

func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// Interfaces lists the host's Bluetooth adapters: hciconfig first,
// bluetoothctl as a fallback, and a simulation interface when neither
// reports anything.
func (a *Advertiser) Interfaces(ctx context.Context) ([]emitter.Interface, error) {
	if out, err := a.run(ctx, "hciconfig"); err == nil {
		if parsed := parseHciconfig(out); len(parsed) > 0 {
			return parsed, nil
		}
	}

	if out, err := a.run(ctx, "bluetoothctl", "list"); err == nil {
		if parsed := parseBluetoothctl(out); len(parsed) > 0 {
			return parsed, nil
		}
	}

	return []emitter.Interface{{
		Name:        "sim0",
		Description: "Simulation Interface (no hardware)",
		Status:      "SIMULATION",
		Type:        "simulation",
	}}, nil
}

// parseHciconfig walks hciconfig's block-per-adapter output. The
// header line names the adapter; the status flags appear on the
// indented lines that follow.
func parseHciconfig(out string) []emitter.Interface {
	var interfaces []emitter.Interface
	var current *emitter.Interface

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "hci") {
			if current != nil {
				interfaces = append(interfaces, *current)
			}
			name := strings.SplitN(line, ":", 2)[0]
			current = &emitter.Interface{
				Name:     name,
				Status:   "UNKNOWN",
				Type:     "bluetooth",
				Platform: "linux",
			}
			continue
		}
		if current == nil {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, "UP RUNNING") {
			current.Status = "UP"
		} else if strings.HasPrefix(trimmed, "DOWN") {
			current.Status = "DOWN"
		}
		if strings.HasPrefix(trimmed, "BD Address:") {
			fields := strings.Fields(trimmed)
			if len(fields) >= 3 {
				current.MAC = fields[2]
			}
		}
	}
	if current != nil {
		interfaces = append(interfaces, *current)
	}
	return interfaces
}

// parseBluetoothctl reads "Controller <MAC> <name> [default]" lines.
// bluetoothctl does not expose hci names, so adapters are numbered in
// listing order.
func parseBluetoothctl(out string) []emitter.Interface {
	var interfaces []emitter.Interface
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Controller") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		desc := ""
		if len(fields) > 2 {
			desc = strings.Join(fields[2:], " ")
		}
		interfaces = append(interfaces, emitter.Interface{
			Name:        fmt.Sprintf("hci%d", len(interfaces)),
			MAC:         fields[1],
			Description: desc,
			Status:      "AVAILABLE",
			Type:        "bluetooth",
			Platform:    "linux",
		})
	}
	return interfaces
}
