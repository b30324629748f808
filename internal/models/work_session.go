package models

import "time"

type SessionType string

const (
	SessionWorkStart   SessionType = "work_start"
	SessionWorkEnd     SessionType = "work_end"
	SessionInspection  SessionType = "inspection"
	SessionMaintenance SessionType = "maintenance"
	SessionRepair      SessionType = "repair"
)

// WorkSession is a single timestamped technician event at a unit.
// Rows are append-only; "open" sessions are computed, never stored.
type WorkSession struct {
	ID           int64       `json:"id"`
	UnitID       int64       `json:"unit_id"`
	TeknisiID    int64       `json:"teknisi_id"`
	SessionType  SessionType `json:"session_type"`
	GPSLatitude  *float64    `json:"gps_latitude,omitempty"`
	GPSLongitude *float64    `json:"gps_longitude,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	ScanTime     time.Time   `json:"scan_time"`
}
