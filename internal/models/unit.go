package models

import "time"

// Unit is an installed piece of customer equipment.
type Unit struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	Name         string    `json:"name"`
	SerialNumber string    `json:"serial_number"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
}

// The five independent per-unit event logs merged by the history
// aggregator. All are append-only from the core's point of view.

type WorkHistory struct {
	ID          int64     `json:"id"`
	UnitID      int64     `json:"unit_id"`
	TeknisiID   int64     `json:"teknisi_id"`
	WorkDate    time.Time `json:"work_date"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photo_url,omitempty"` // opaque upload URL
}

type AccessLog struct {
	ID         int64     `json:"id"`
	UnitID     int64     `json:"unit_id"`
	UserID     int64     `json:"user_id"`
	AccessType string    `json:"access_type"` // scan | view | history
	AccessedAt time.Time `json:"accessed_at"`
}

type MaintenanceSchedule struct {
	ID              int64     `json:"id"`
	UnitID          int64     `json:"unit_id"`
	MaintenanceType string    `json:"maintenance_type"`
	Description     string    `json:"description"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	Status          string    `json:"status"`
}

type PartsReplacement struct {
	ID              int64     `json:"id"`
	UnitID          int64     `json:"unit_id"`
	TeknisiID       int64     `json:"teknisi_id"`
	PartName        string    `json:"part_name"`
	ReplacementDate time.Time `json:"replacement_date"`
	Notes           string    `json:"notes,omitempty"`
}

// History source type tags, also accepted as the ?type filter.
const (
	HistoryWorkHistory      = "work_history"
	HistoryAccessLog        = "access_log"
	HistoryMaintenance      = "maintenance"
	HistoryPartsReplacement = "parts_replacement"
	HistoryWorkSession      = "work_session"
)

// UnitHistoryEntry is the common envelope the aggregator projects every
// source row into. It is synthesized at read time and never persisted.
type UnitHistoryEntry struct {
	Type        string    `json:"type"`
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`

	TeknisiID    *int64   `json:"teknisi_id,omitempty"`
	UserID       *int64   `json:"user_id,omitempty"`
	Status       string   `json:"status,omitempty"`
	PartName     string   `json:"part_name,omitempty"`
	PhotoURL     string   `json:"photo_url,omitempty"`
	SessionType  string   `json:"session_type,omitempty"`
	GPSLatitude  *float64 `json:"gps_latitude,omitempty"`
	GPSLongitude *float64 `json:"gps_longitude,omitempty"`
}
