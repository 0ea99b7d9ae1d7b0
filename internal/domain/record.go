// Package domain contains the core data types for the transport daily report
// service. This package has zero external dependencies beyond uuid and is
// imported by every other internal package (legacy, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripRecord is one daily submission by one driver covering one route.
// Records are append-only: they are created exactly once at submission time
// and never updated or deleted. Distance and PalletsTotal are derived fields,
// always recomputed from their source columns before storage.
type TripRecord struct {
	ID              uuid.UUID `json:"id"`
	Driver          string    `json:"driver"`
	TripDate        time.Time `json:"trip_date"`
	StartTime       string    `json:"start_time,omitempty"` // "05:00" shift start, stored as entered
	EndTime         string    `json:"end_time,omitempty"`
	Route           string    `json:"route"`
	OdometerStart   int       `json:"odometer_start"`
	OdometerEnd     int       `json:"odometer_end"`
	Distance        int       `json:"distance"` // odometer_end - odometer_start
	PalletsSent     int       `json:"pallets_sent"`
	PalletsReceived int       `json:"pallets_received"`
	PalletsTotal    int       `json:"pallets_total"` // pallets_sent + pallets_received
	EmptyBaskets    int       `json:"empty_baskets"`
	EmptyPallets    int       `json:"empty_pallets"`
	CustomerCount   int       `json:"customer_count"`
	Remark          string    `json:"remark,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Drivers is the fixed set of people allowed to file a daily report.
// The form offers exactly these; anything else is rejected at submission.
var Drivers = []string{"司機A", "司機B", "司機C", "司機D"}

// RouteOther is the catch-all route for trips outside the named lines.
const RouteOther = "其他"

// Routes is the fixed set of delivery lines plus the RouteOther catch-all.
var Routes = []string{"中一線", "中二線", "中三線", "中四線", "中五線", "中六線", "中七線", RouteOther}

// KnownDriver reports whether name is one of the fixed drivers.
func KnownDriver(name string) bool {
	for _, d := range Drivers {
		if d == name {
			return true
		}
	}
	return false
}

// KnownRoute reports whether name is one of the fixed routes (including RouteOther).
func KnownRoute(name string) bool {
	for _, r := range Routes {
		if r == name {
			return true
		}
	}
	return false
}
