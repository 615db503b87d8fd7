package ble

import (
	"context"
	"encoding/hex"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

// settleDelay is a short pause after enabling advertising; Broadcom
// adapters drop the payload without it.
const settleDelay = 400 * time.Millisecond

// Advertiser emits BLE advertisements through hcitool. It implements
// emitter.Sender and emitter.InterfaceLister. When the BlueZ tools are
// missing the emission is simulated so the rest of the service keeps
// working on machines without Bluetooth.
type Advertiser struct {
	run      runner
	lookPath func(string) (string, error)
}

// NewAdvertiser creates an Advertiser using the host's BlueZ tools.
func NewAdvertiser() *Advertiser {
	return &Advertiser{run: execRunner, lookPath: exec.LookPath}
}

// Available reports whether the native emission path can be used.
func (a *Advertiser) Available() bool {
	_, err1 := a.lookPath("hcitool")
	_, err2 := a.lookPath("hciconfig")
	return err1 == nil && err2 == nil
}

// Send frames payload as an advertisement and emits it on the given
// interface. An empty target selects the first available adapter.
func (a *Advertiser) Send(ctx context.Context, target string, payload []byte) error {
	dataHex := hex.EncodeToString(payload)
	tokens, err := BuildAdvPayload(dataHex)
	if err != nil {
		return err
	}

	if !a.Available() {
		log.Warn().Str("data", dataHex).Msg("Bluetooth tools not available, simulating BLE emission")
		return nil
	}

	iface := target
	if iface == "" {
		interfaces, err := a.Interfaces(ctx)
		if err != nil || len(interfaces) == 0 {
			return fmt.Errorf("no Bluetooth interfaces available")
		}
		iface = interfaces[0].Name
		log.Info().Str("interface", iface).Msg("Using first available Bluetooth interface")
	}

	log.Info().Str("interface", iface).Str("data", dataHex).Msg("Emitting BLE advertisement")

	base := []string{"-i", iface, "cmd"}
	steps := [][]string{
		append(append([]string{}, base...), "0x08", "0x000A", "00"), // disable advertising
		append(append(append([]string{}, base...), "0x08", "0x0008"), tokens...), // set payload
		append(append([]string{}, base...), "0x08", "0x000A", "01"), // enable advertising
	}
	for _, args := range steps {
		if out, err := a.run(ctx, "hcitool", args...); err != nil {
			return fmt.Errorf("hcitool %v failed: %w (%s)", args[len(args)-1], err, out)
		}
	}

	time.Sleep(settleDelay)
	return nil
}
