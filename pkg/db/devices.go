package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Device is a saved remote-controllable device and the emitter used to
// reach it.
type Device struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DeviceType string   `json:"device_type"`
	EmitterIP  string   `json:"emitter_ip,omitempty"`
	Frequency  *float64 `json:"frequency,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// ListDevices returns all saved devices ordered by name.
func (db *DB) ListDevices(ctx context.Context) ([]Device, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, device_type, emitter_ip, frequency, created_at, updated_at
		 FROM devices ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.ID, &d.Name, &d.DeviceType, &d.EmitterIP, &d.Frequency, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// GetDevice returns a device by id.
func (db *DB) GetDevice(ctx context.Context, id string) (Device, error) {
	var d Device
	err := db.QueryRowContext(ctx,
		`SELECT id, name, device_type, emitter_ip, frequency, created_at, updated_at
		 FROM devices WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.DeviceType, &d.EmitterIP, &d.Frequency, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Device{}, ErrNotFound
	}
	if err != nil {
		return Device{}, fmt.Errorf("failed to get device: %w", err)
	}
	return d, nil
}

// CreateDevice inserts a device together with its commands in one
// transaction. A fresh id is assigned when the device has none.
func (db *DB) CreateDevice(ctx context.Context, d Device, commands []Command) (Device, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	err := db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO devices (id, name, device_type, emitter_ip, frequency) VALUES (?, ?, ?, ?, ?)`,
			d.ID, d.Name, d.DeviceType, d.EmitterIP, d.Frequency,
		)
		if err != nil {
			return fmt.Errorf("failed to insert device: %w", err)
		}

		for _, c := range commands {
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO commands (id, device_id, name, command_data, command_type) VALUES (?, ?, ?, ?, ?)`,
				c.ID, d.ID, c.Name, c.CommandData, c.CommandType,
			)
			if err != nil {
				return fmt.Errorf("failed to insert command %q: %w", c.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return Device{}, err
	}

	return db.GetDevice(ctx, d.ID)
}

// DeleteDevice removes a device and, via the foreign key cascade, its
// commands.
func (db *DB) DeleteDevice(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
