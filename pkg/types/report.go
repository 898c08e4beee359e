package types

import (
	"errors"
	"time"
)

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown report status")
	ErrUnknownCategory   = errors.New("unknown report category")
	ErrUnknownDepartment = errors.New("unknown department")
	ErrStoreNotLoaded    = errors.New("report store has not been loaded")
)

type ReportStatus string

const (
	StatusSubmitted    ReportStatus = "submitted"
	StatusAcknowledged ReportStatus = "acknowledged"
	StatusInProgress   ReportStatus = "in-progress"
	StatusResolved     ReportStatus = "resolved"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusAcknowledged, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

type ReportPriority string

const (
	PriorityLow    ReportPriority = "low"
	PriorityMedium ReportPriority = "medium"
	PriorityHigh   ReportPriority = "high"
)

func (p ReportPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Note is a single entry in one of a report's two note threads. Threads are
// append-only; entries are never edited or removed once written.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
}

type Report struct {
	ID string `db:"id"`

	Title       string         `db:"title"`
	Description string         `db:"description"`
	Category    string         `db:"category"`
	Priority    ReportPriority `db:"priority"`
	Status      ReportStatus   `db:"status"`

	// Address is authoritative when non-empty; coordinates are the fallback.
	LocationAddress string   `db:"location_address"`
	LocationLat     *float64 `db:"location_lat"`
	LocationLng     *float64 `db:"location_lng"`

	// MediaURLs preserves upload order.
	MediaURLs []string `db:"photo_urls"`

	// Note threads live in serialized columns; the store converts them at the
	// storage boundary. See internal/store.
	PublicNotes []Note `db:"-"`
	StaffNotes  []Note `db:"-"`

	CitizenName  string `db:"citizen_name"`
	CitizenEmail string `db:"citizen_email"`
	CitizenPhone string `db:"citizen_phone"`

	AssignedDepartment *string `db:"assigned_department"`
	UserID             *string `db:"user_id"`

	CreatedAt      time.Time  `db:"created_at"`
	AcknowledgedAt *time.Time `db:"acknowledged_at"`
	InProgressAt   *time.Time `db:"in_progress_at"`
	ResolvedAt     *time.Time `db:"resolved_at"`
}

// ReportPatch is a sparse update: nil fields are left untouched server-side.
type ReportPatch struct {
	Title              *string
	Description        *string
	Category           *string
	Priority           *ReportPriority
	Status             *ReportStatus
	LocationAddress    *string
	LocationLat        *float64
	LocationLng        *float64
	MediaURLs          []string
	PublicNotes        []Note
	StaffNotes         []Note
	AssignedDepartment *string
	AcknowledgedAt     *time.Time
	InProgressAt       *time.Time
	ResolvedAt         *time.Time
}

var Categories = []string{
	"Road Maintenance",
	"Street Lighting",
	"Vandalism",
	"Trash Collection",
	"Water Issues",
	"Parks and Recreation",
	"Noise Complaints",
	"Traffic Signals",
	"Sidewalk Repair",
	"Other",
}

var Departments = []string{
	"Public Works",
	"Electrical Services",
	"Parks and Recreation",
	"Water Department",
	"Code Enforcement",
	"Traffic Management",
}

func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

func ValidDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}
