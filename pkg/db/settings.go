package db

import (
	"context"
	"fmt"
)

// Settings holds the server configuration persisted in the database.
type Settings struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	BroadlinkIP string `json:"broadlink_ip,omitempty"`
}

// APIAddress returns the listen address in host:port form.
func (s Settings) APIAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GetSettings reads the settings row.
func (db *DB) GetSettings(ctx context.Context) (Settings, error) {
	var s Settings
	err := db.QueryRowContext(ctx,
		"SELECT host, port, broadlink_ip FROM settings WHERE id = 1",
	).Scan(&s.Host, &s.Port, &s.BroadlinkIP)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return s, nil
}

// UpdateSettings replaces the settings row.
func (db *DB) UpdateSettings(ctx context.Context, s Settings) error {
	_, err := db.ExecContext(ctx,
		`UPDATE settings SET host = ?, port = ?, broadlink_ip = ?, updated_at = datetime('now') WHERE id = 1`,
		s.Host, s.Port, s.BroadlinkIP,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
