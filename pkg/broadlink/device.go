// Package broadlink speaks the Broadlink RM protocol over UDP: device
// discovery, session authentication, IR/RF capture, and raw sends. It
// backs the ir/rf learning sessions and the send endpoints.
package broadlink

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/patlanio/whispeer/pkg/emitter"
)

const (
	devicePort     = 80
	requestRetries = 2
	replyTimeout   = 2 * time.Second
)

// Protocol commands.
const (
	cmdHello   = 0x06
	cmdAuth    = 0x65
	cmdControl = 0x6a
)

// Control sub-commands understood by RM-class devices.
const (
	rmSendData      = 0x02
	rmEnterLearning = 0x03
	rmCheckData     = 0x04
	rmSweepFreq     = 0x19
	rmCheckFreq     = 0x1a
	rmFindRFPacket  = 0x1b
)

// Firmware status codes carried at offset 0x22 of every reply.
const (
	codeOK          = 0x0000
	codeNoData      = 0xfff6 // nothing captured yet
	codeStorageFull = 0xfffa // capture buffer full; clears on its own
	codeAuthFailed  = 0xfff9
)

var protocolHeader = []byte{0x5a, 0xa5, 0xaa, 0x55, 0x5a, 0xa5, 0xaa, 0x55}

// Device is a connected, authenticated RM bridge. It implements
// emitter.Handle. A Device is owned by a single learning session or
// send call and must not be shared.
type Device struct {
	addr    *net.UDPAddr
	mac     []byte
	devtype uint16
	name    string

	mu    sync.Mutex
	conn  *net.UDPConn
	key   []byte
	id    []byte
	count uint16
}

// rm4 reports whether the devtype uses the length-prefixed RM4 payload
// framing. Everything the RM4 Pro/Mini family announces sits above the
// legacy RM range.
func (d *Device) rm4() bool {
	return d.devtype >= 0x5f36
}

// Backend exposes the Broadlink protocol through the emitter
// interfaces used by the learning registry and the send handlers.
type Backend struct{}

// NewBackend creates a Broadlink backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Connect probes the bridge at addr, authenticates, and returns a
// ready-to-use handle.
func (b *Backend) Connect(ctx context.Context, addr string) (emitter.Handle, error) {
	d, err := connect(ctx, addr)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Send connects to the bridge at target and emits one raw IR/RF
// payload through it.
func (b *Backend) Send(ctx context.Context, target string, payload []byte) error {
	d, err := connect(ctx, target)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.SendData(ctx, payload)
}

// Discover broadcasts a hello and collects every bridge that answers
// within the timeout.
func (b *Backend) Discover(ctx context.Context, timeout time.Duration) ([]emitter.BridgeInfo, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return nil, fmt.Errorf("discovery socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	bcast := &net.UDPAddr{IP: net.IPv4bcast, Port: devicePort}
	if _, err := conn.WriteToUDP(helloPacket(), bcast); err != nil {
		return nil, fmt.Errorf("discovery broadcast: %w", err)
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)

	var found []emitter.BridgeInfo
	buf := make([]byte, 1024)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			break // deadline reached
		}
		info, ok := parseHelloReply(buf[:n], from)
		if !ok {
			continue
		}
		found = append(found, info)
		log.Debug().Str("ip", info.IP).Str("model", info.Model).Msg("Broadlink bridge found")
	}
	return found, nil
}

// connect probes a single address and authenticates against it.
func connect(ctx context.Context, addr string) (*Device, error) {
	host := addr
	if !strings.Contains(host, ":") {
		host = fmt.Sprintf("%s:%d", host, devicePort)
	}
	udpAddr, err := net.ResolveUDPAddr("udp4", host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emitter.ErrConnectionFailed, err)
	}

	conn, err := net.DialUDP("udp4", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emitter.ErrConnectionFailed, err)
	}

	d := &Device{
		addr: udpAddr,
		conn: conn,
		key:  append([]byte(nil), initialKey...),
		id:   make([]byte, 4),
	}

	if err := d.probe(ctx); err != nil {
		d.Close()
		return nil, err
	}
	if err := d.auth(ctx); err != nil {
		d.Close()
		return nil, err
	}

	log.Info().Str("ip", udpAddr.IP.String()).Str("model", d.name).Uint16("devtype", d.devtype).
		Msg("Connected to Broadlink bridge")
	return d, nil
}

// probe sends a unicast hello to learn the bridge's devtype and MAC.
func (d *Device) probe(ctx context.Context) error {
	reply, err := d.exchange(ctx, helloPacket())
	if err != nil {
		return fmt.Errorf("%w: %v", emitter.ErrConnectionFailed, err)
	}
	info, ok := parseHelloReply(reply, d.addr)
	if !ok {
		return fmt.Errorf("%w: malformed hello reply", emitter.ErrConnectionFailed)
	}
	d.devtype = binary.LittleEndian.Uint16(reply[0x34:0x36])
	d.mac = append([]byte(nil), reply[0x3a:0x40]...)
	d.name = info.Model
	return nil
}

// auth negotiates the per-pairing key. Until it succeeds the device
// refuses every control command.
func (d *Device) auth(ctx context.Context) error {
	payload := make([]byte, 0x50)
	for i := 0x04; i < 0x13; i++ {
		payload[i] = 0x31
	}
	payload[0x1e] = 0x01
	payload[0x2d] = 0x01
	copy(payload[0x30:], "whispeer")

	resp, err := d.request(ctx, cmdAuth, payload)
	if err != nil {
		return fmt.Errorf("%w: %v", emitter.ErrConnectionFailed, err)
	}
	if len(resp) < 0x14 {
		return fmt.Errorf("%w: short auth reply", emitter.ErrConnectionFailed)
	}
	d.mu.Lock()
	d.id = append([]byte(nil), resp[0x00:0x04]...)
	d.key = append([]byte(nil), resp[0x04:0x14]...)
	d.mu.Unlock()
	return nil
}

// EnterLearning puts the bridge into IR listening mode.
func (d *Device) EnterLearning(ctx context.Context) error {
	_, err := d.control(ctx, rmEnterLearning, nil)
	return err
}

// FindRFPacket puts the bridge into RF listening mode at the given
// frequency. The frequency is carried in Hz as a 32-bit value.
func (d *Device) FindRFPacket(ctx context.Context, frequency float64) error {
	freq := make([]byte, 4)
	binary.LittleEndian.PutUint32(freq, uint32(frequency*1000))
	_, err := d.control(ctx, rmFindRFPacket, freq)
	return err
}

// CheckData performs one non-blocking capture check and classifies the
// firmware's answer.
func (d *Device) CheckData(ctx context.Context) emitter.CaptureOutcome {
	payload, err := d.control(ctx, rmCheckData, nil)
	if err != nil {
		var fwErr *firmwareError
		if errors.As(err, &fwErr) {
			switch fwErr.code {
			case codeNoData:
				return emitter.CaptureOutcome{Result: emitter.CaptureEmpty}
			case codeStorageFull:
				return emitter.CaptureOutcome{Result: emitter.CaptureTransient, Err: fwErr}
			}
		}
		return emitter.CaptureOutcome{Result: emitter.CaptureFatal, Err: err}
	}
	if len(payload) == 0 {
		return emitter.CaptureOutcome{Result: emitter.CaptureEmpty}
	}
	return emitter.CaptureOutcome{Result: emitter.CapturePayload, Payload: payload}
}

// SendData emits a raw IR/RF packet.
func (d *Device) SendData(ctx context.Context, data []byte) error {
	_, err := d.control(ctx, rmSendData, data)
	return err
}

// Close releases the socket.
func (d *Device) Close() {
	d.mu.Lock()
	conn := d.conn
	d.conn = nil
	d.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// firmwareError is a non-zero status code in a device reply.
type firmwareError struct {
	code uint16
}

func (e *firmwareError) Error() string {
	switch e.code {
	case codeStorageFull:
		return "the device storage is full"
	case codeAuthFailed:
		return "authentication failed"
	case codeNoData:
		return "no data available"
	}
	return fmt.Sprintf("device error %#04x", e.code)
}

// control wraps a sub-command in the RM framing and strips the framing
// from the reply.
func (d *Device) control(ctx context.Context, sub byte, data []byte) ([]byte, error) {
	var payload []byte
	if d.rm4() {
		// RM4 firmware prefixes the command block with its length.
		payload = make([]byte, 6+len(data))
		binary.LittleEndian.PutUint16(payload[0:2], uint16(len(data)+4))
		payload[2] = sub
		copy(payload[6:], data)
	} else {
		payload = make([]byte, 4+len(data))
		payload[0] = sub
		copy(payload[4:], data)
	}

	resp, err := d.request(ctx, cmdControl, payload)
	if err != nil {
		return nil, err
	}
	skip := 4
	if d.rm4() {
		skip = 6
	}
	if len(resp) <= skip {
		return nil, nil
	}
	return resp[skip:], nil
}

// request sends one command packet and returns the decrypted reply
// payload.
func (d *Device) request(ctx context.Context, command byte, payload []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil, emitter.ErrNotConnected
	}

	d.count++
	packet := make([]byte, 0x38)
	copy(packet[0x00:], protocolHeader)
	binary.LittleEndian.PutUint16(packet[0x24:], d.devtype)
	packet[0x26] = command
	binary.LittleEndian.PutUint16(packet[0x28:], d.count)
	copy(packet[0x2a:0x30], d.mac)
	copy(packet[0x30:0x34], d.id)
	binary.LittleEndian.PutUint16(packet[0x34:], checksum(payload))

	enc, err := encrypt(d.key, payload)
	if err != nil {
		return nil, err
	}
	packet = append(packet, enc...)
	binary.LittleEndian.PutUint16(packet[0x20:], checksum(packet))

	reply, err := d.exchangeLocked(ctx, packet)
	if err != nil {
		return nil, err
	}
	if len(reply) < 0x38 {
		return nil, fmt.Errorf("short reply (%d bytes)", len(reply))
	}
	if code := binary.LittleEndian.Uint16(reply[0x22:0x24]); code != codeOK {
		return nil, &firmwareError{code: code}
	}
	return decrypt(d.key, reply[0x38:])
}

// exchange sends a raw packet and waits for one reply, retrying on a
// silent device.
func (d *Device) exchange(ctx context.Context, packet []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exchangeLocked(ctx, packet)
}

func (d *Device) exchangeLocked(ctx context.Context, packet []byte) ([]byte, error) {
	if d.conn == nil {
		return nil, emitter.ErrNotConnected
	}

	buf := make([]byte, 2048)
	var lastErr error
	for attempt := 0; attempt <= requestRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := d.conn.Write(packet); err != nil {
			return nil, err
		}

		deadline := time.Now().Add(replyTimeout)
		if c, ok := ctx.Deadline(); ok && c.Before(deadline) {
			deadline = c
		}
		_ = d.conn.SetReadDeadline(deadline)

		n, err := d.conn.Read(buf)
		if err == nil {
			return append([]byte(nil), buf[:n]...), nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", emitter.ErrTimeout, lastErr)
}

// helloPacket builds the discovery/probe frame. The clock and address
// fields are informational; bridges answer regardless.
func helloPacket() []byte {
	packet := make([]byte, 0x30)

	now := time.Now()
	_, offset := now.Zone()
	tz := offset / 3600
	if tz < 0 {
		packet[0x08] = byte(0xff + tz - 1)
		packet[0x09] = 0xff
		packet[0x0a] = 0xff
		packet[0x0b] = 0xff
	} else {
		packet[0x08] = byte(tz)
	}
	binary.LittleEndian.PutUint16(packet[0x0c:], uint16(now.Year()))
	packet[0x0e] = byte(now.Minute())
	packet[0x0f] = byte(now.Hour())
	packet[0x10] = byte(now.Year() % 100)
	packet[0x11] = byte(now.Weekday())
	packet[0x12] = byte(now.Day())
	packet[0x13] = byte(now.Month())
	packet[0x26] = cmdHello

	binary.LittleEndian.PutUint16(packet[0x20:], checksum(packet))
	return packet
}

// parseHelloReply extracts bridge details from a discovery answer.
func parseHelloReply(reply []byte, from *net.UDPAddr) (emitter.BridgeInfo, bool) {
	if len(reply) < 0x40 {
		return emitter.BridgeInfo{}, false
	}
	devtype := binary.LittleEndian.Uint16(reply[0x34:0x36])
	mac := reply[0x3a:0x40]

	name := ""
	if len(reply) > 0x40 {
		raw := reply[0x40:]
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		name = string(raw)
	}
	if name == "" {
		name = fmt.Sprintf("Broadlink %#04x", devtype)
	}

	return emitter.BridgeInfo{
		IP:           from.IP.String(),
		Port:         from.Port,
		MAC:          fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", mac[5], mac[4], mac[3], mac[2], mac[1], mac[0]),
		DeviceType:   fmt.Sprintf("%#04x", devtype),
		Model:        name,
		Manufacturer: "Broadlink",
	}, true
}
