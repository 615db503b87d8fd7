package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patlanio/whispeer/pkg/emitter"
	"github.com/patlanio/whispeer/pkg/learning"
)

type stubHandle struct{}

func (stubHandle) EnterLearning(context.Context) error            { return nil }
func (stubHandle) FindRFPacket(context.Context, float64) error    { return nil }
func (stubHandle) CheckData(context.Context) emitter.CaptureOutcome {
	return emitter.CaptureOutcome{Result: emitter.CaptureEmpty}
}
func (stubHandle) Close() {}

type stubConnector struct {
	err error
}

func (c stubConnector) Connect(context.Context, string) (emitter.Handle, error) {
	if c.err != nil {
		return nil, c.err
	}
	return stubHandle{}, nil
}

func newLearnRouter(t *testing.T, connector emitter.Connector) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := learning.Config{
		SessionTTL:            time.Minute,
		LearnBudget:           time.Minute,
		SimulatedCaptureDelay: 10 * time.Millisecond,
		SweepInterval:         5 * time.Millisecond,
		TerminalRetention:     time.Minute,
	}
	registry := learning.NewRegistry(connector, cfg)
	t.Cleanup(registry.Close)

	h := NewLearnHandler(registry)
	r := gin.New()
	r.POST("/prepare_to_learn", h.PrepareToLearn)
	r.POST("/check_learned_command", h.CheckLearnedCommand)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("undecodable response %q: %v", rec.Body.String(), err)
	}
	return rec, decoded
}

func TestPrepareToLearnMissingDeviceType(t *testing.T) {
	r := newLearnRouter(t, stubConnector{})

	rec, body := postJSON(t, r, "/prepare_to_learn", map[string]any{
		"emitter": map[string]any{"ip": "192.168.1.50"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "Missing required field: device_type" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestPrepareToLearnIRSuccess(t *testing.T) {
	r := newLearnRouter(t, stubConnector{})

	rec, body := postJSON(t, r, "/prepare_to_learn", map[string]any{
		"device_type": "ir",
		"emitter":     map[string]any{"ip": "192.168.1.50"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "success" {
		t.Fatalf("status field = %v (%v)", body["status"], body["message"])
	}
	if body["session_id"] == "" || body["session_id"] == nil {
		t.Fatal("expected a session_id")
	}
	if body["device_type"] != "ir" {
		t.Fatalf("device_type = %v", body["device_type"])
	}
	if _, ok := body["frequency"]; ok {
		t.Fatal("ir response should not carry frequency")
	}
}

func TestPrepareToLearnRFDefaultsFrequency(t *testing.T) {
	r := newLearnRouter(t, stubConnector{})

	rec, body := postJSON(t, r, "/prepare_to_learn", map[string]any{
		"device_type": "rf",
		"emitter":     map[string]any{"ip": "192.168.1.50"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["frequency"] != 433.92 {
		t.Fatalf("frequency = %v", body["frequency"])
	}
}

func TestPrepareToLearnConnectorFailure(t *testing.T) {
	r := newLearnRouter(t, stubConnector{err: errors.New("no route to host")})

	rec, body := postJSON(t, r, "/prepare_to_learn", map[string]any{
		"device_type": "ir",
		"emitter":     map[string]any{"ip": "192.168.1.50"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "error" {
		t.Fatalf("status field = %v", body["status"])
	}
	if body["message"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestCheckLearnedCommandMissingFields(t *testing.T) {
	r := newLearnRouter(t, stubConnector{})

	rec, body := postJSON(t, r, "/check_learned_command", map[string]any{
		"session_id": "abc",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "Missing required field: device_type" {
		t.Fatalf("error = %q", body["error"])
	}

	rec, body = postJSON(t, r, "/check_learned_command", map[string]any{
		"device_type": "ir",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "Missing required field: session_id" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestCheckLearnedCommandUnknownSession(t *testing.T) {
	r := newLearnRouter(t, stubConnector{})

	rec, body := postJSON(t, r, "/check_learned_command", map[string]any{
		"device_type": "ir",
		"session_id":  "does-not-exist",
	})
	// Unknown sessions are not an HTTP error.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "error" {
		t.Fatalf("status field = %v", body["status"])
	}
	if _, ok := body["learning_status"]; ok {
		t.Fatal("unknown session response should omit learning_status")
	}
}

func TestBLELearningRoundTrip(t *testing.T) {
	r := newLearnRouter(t, stubConnector{})

	_, prep := postJSON(t, r, "/prepare_to_learn", map[string]any{
		"device_type": "ble",
		"emitter":     map[string]any{"name": "hci0"},
	})
	if prep["status"] != "success" {
		t.Fatalf("prepare failed: %v", prep["message"])
	}
	sessionID := prep["session_id"].(string)

	poll := func() map[string]any {
		_, body := postJSON(t, r, "/check_learned_command", map[string]any{
			"device_type": "ble",
			"session_id":  sessionID,
		})
		return body
	}

	// First poll moves the session into learning.
	first := poll()
	if first["learning_status"] != "learning" {
		t.Fatalf("learning_status = %v", first["learning_status"])
	}

	deadline := time.Now().Add(time.Second)
	for {
		body := poll()
		if body["learning_status"] == "completed" {
			data, _ := body["command_data"].(string)
			if len(data) != 48 {
				t.Fatalf("command_data length = %d, want 48 hex chars", len(data))
			}
			if body["command_type"] != "ble" {
				t.Fatalf("command_type = %v", body["command_type"])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("session never completed, last status %v", body["learning_status"])
		}
		time.Sleep(5 * time.Millisecond)
	}
}
