package db

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "whispeer.db")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	if err := database.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return database
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := openTestDB(t)
	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestBootstrapSeedsDefaults(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	needed, err := database.NeedsBootstrap(ctx)
	if err != nil {
		t.Fatalf("NeedsBootstrap: %v", err)
	}
	if needed {
		t.Fatal("expected bootstrap to have run")
	}

	settings, err := database.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings.Host != "0.0.0.0" || settings.Port != 8080 {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
	if got := settings.APIAddress(); got != "0.0.0.0:8080" {
		t.Fatalf("APIAddress = %q", got)
	}
}

func TestDeviceLifecycle(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	freq := 433.92
	created, err := database.CreateDevice(ctx, Device{
		Name:       "Living Room Fan",
		DeviceType: "rf",
		EmitterIP:  "192.168.1.50",
		Frequency:  &freq,
	}, []Command{
		{Name: "power", CommandData: "b24800", CommandType: "rf"},
		{Name: "speed_up", CommandData: "b24801", CommandType: "rf"},
	})
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	devices, err := database.ListDevices(ctx)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(devices))
	}

	commands, err := database.ListCommands(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListCommands: %v", err)
	}
	if len(commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(commands))
	}

	cmd, err := database.GetCommand(ctx, created.ID, "power")
	if err != nil {
		t.Fatalf("GetCommand: %v", err)
	}
	if cmd.CommandData != "b24800" {
		t.Fatalf("unexpected command data: %q", cmd.CommandData)
	}

	if err := database.DeleteDevice(ctx, created.ID); err != nil {
		t.Fatalf("DeleteDevice: %v", err)
	}

	// Cascade should have removed the commands as well.
	commands, err = database.ListCommands(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListCommands after delete: %v", err)
	}
	if len(commands) != 0 {
		t.Fatalf("expected cascade delete, got %d commands", len(commands))
	}
}

func TestDeleteMissingDevice(t *testing.T) {
	database := openTestDB(t)
	if err := database.DeleteDevice(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMissingCommand(t *testing.T) {
	database := openTestDB(t)
	if _, err := database.GetCommand(context.Background(), "nope", "power"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
