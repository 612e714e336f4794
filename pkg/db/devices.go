// Package db pkg/db/devices.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/fleetmon/pkg/models"
)

const deviceColumns = `
	id, name, hostname, ip_address, device_type, vendor,
	is_active, is_reachable, last_seen, snmp_community, snmp_version, ssh_port`

// CreateDevice inserts a new device and sets its ID.
func (db *DB) CreateDevice(device *models.Device) error {
	if device.SNMPVersion == 0 {
		device.SNMPVersion = 2
	}

	if device.SSHPort == 0 {
		device.SSHPort = 22
	}

	result, err := db.Exec(`
		INSERT INTO devices
			(name, hostname, ip_address, device_type, vendor,
			 is_active, is_reachable, snmp_community, snmp_version, ssh_port)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		device.Name,
		device.Hostname,
		device.IPAddress,
		device.DeviceType,
		device.Vendor,
		device.IsActive,
		device.IsReachable,
		nullString(device.SNMPCommunity),
		device.SNMPVersion,
		device.SSHPort,
	)
	if err != nil {
		return fmt.Errorf("%w device: %w", errFailedToInsert, err)
	}

	device.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get device id: %w", err)
	}

	return nil
}

// GetDevice retrieves a device by ID.
func (db *DB) GetDevice(id int64) (*models.Device, error) {
	row := db.QueryRow(`SELECT`+deviceColumns+` FROM devices WHERE id = ?`, id)

	return scanDevice(row)
}

// GetDeviceByName retrieves a device by its unique name.
func (db *DB) GetDeviceByName(name string) (*models.Device, error) {
	row := db.QueryRow(`SELECT`+deviceColumns+` FROM devices WHERE name = ?`, name)

	return scanDevice(row)
}

// ListDevices returns all devices, optionally only active ones.
func (db *DB) ListDevices(activeOnly bool) ([]models.Device, error) {
	query := `SELECT` + deviceColumns + ` FROM devices`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}

	query += ` ORDER BY name`

	rows, err := db.Query(query) //nolint:rowserrcheck // rows.Close() is deferred
	if err != nil {
		return nil, fmt.Errorf("%w devices: %w", errFailedToQuery, err)
	}
	defer CloseRows(rows)

	var devices []models.Device

	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}

		devices = append(devices, *device)
	}

	return devices, nil
}

// UpdateDeviceReachability records the outcome of a poll cycle. A nil
// lastSeen leaves the existing timestamp untouched.
func (db *DB) UpdateDeviceReachability(id int64, reachable bool, lastSeen *time.Time) error {
	var err error

	if lastSeen != nil {
		_, err = db.Exec(`UPDATE devices SET is_reachable = ?, last_seen = ? WHERE id = ?`,
			reachable, *lastSeen, id)
	} else {
		_, err = db.Exec(`UPDATE devices SET is_reachable = ? WHERE id = ?`, reachable, id)
	}

	if err != nil {
		return fmt.Errorf("%w device reachability: %w", errFailedToUpdate, err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDevice(row scanner) (*models.Device, error) {
	var (
		device    models.Device
		lastSeen  sql.NullTime
		community sql.NullString
	)

	err := row.Scan(
		&device.ID,
		&device.Name,
		&device.Hostname,
		&device.IPAddress,
		&device.DeviceType,
		&device.Vendor,
		&device.IsActive,
		&device.IsReachable,
		&lastSeen,
		&community,
		&device.SNMPVersion,
		&device.SSHPort,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w device row: %w", errFailedToScan, err)
	}

	if lastSeen.Valid {
		device.LastSeen = &lastSeen.Time
	}

	device.SNMPCommunity = community.String

	return &device, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
