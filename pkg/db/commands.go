package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Command is a learned remote code stored for a device.
type Command struct {
	ID          string `json:"id"`
	DeviceID    string `json:"device_id"`
	Name        string `json:"name"`
	CommandData string `json:"command_data"`
	CommandType string `json:"command_type"`
	CreatedAt   string `json:"created_at"`
}

// ListCommands returns all commands for a device ordered by name.
func (db *DB) ListCommands(ctx context.Context, deviceID string) ([]Command, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, device_id, name, command_data, command_type, created_at
		 FROM commands WHERE device_id = ? ORDER BY name`, deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list commands: %w", err)
	}
	defer rows.Close()

	var commands []Command
	for rows.Next() {
		var c Command
		if err := rows.Scan(&c.ID, &c.DeviceID, &c.Name, &c.CommandData, &c.CommandType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}

// GetCommand returns the named command for a device.
func (db *DB) GetCommand(ctx context.Context, deviceID, name string) (Command, error) {
	var c Command
	err := db.QueryRowContext(ctx,
		`SELECT id, device_id, name, command_data, command_type, created_at
		 FROM commands WHERE device_id = ? AND name = ?`, deviceID, name,
	).Scan(&c.ID, &c.DeviceID, &c.Name, &c.CommandData, &c.CommandType, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Command{}, ErrNotFound
	}
	if err != nil {
		return Command{}, fmt.Errorf("failed to get command: %w", err)
	}
	return c, nil
}
