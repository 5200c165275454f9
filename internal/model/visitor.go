package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Visitor is the single persisted entity of the system: one row per recorded
// visit. VisitorNumber is a display identifier generated once at creation and
// never recomputed; it is not unique and never used as a lookup key.
//
// Fields:
//
//	ID            – primary key identifier.
//	VisitorNumber – 4-digit display number assigned at creation.
//	Username      – visitor's full name.
//	IDType        – identity document kind ("aadhar" or "pan").
//	IDNumber      – identity document number.
//	VehicleType   – free text.
//	VehicleNumber – free text.
//	InTime        – entry time as "HH:MM", not a timestamp.
//	Duration      – planned visit length in minutes.
//	DateOfVisit   – calendar date of the visit.
//	Status        – lifecycle state (Pending, Approved, Rejected, Complete).
//	Email         – optional address for pass delivery, supplied post-creation.
//	CreatedAt     – set by the store.
type Visitor struct {
	ID            uint64    `json:"id"`            // visitors.id
	VisitorNumber int       `json:"visitorNumber"` // visitors.visitor_number
	Username      string    `json:"username"`      // visitors.username
	IDType        string    `json:"idType"`        // visitors.id_type
	IDNumber      string    `json:"idNumber"`      // visitors.id_number
	VehicleType   string    `json:"vehicleType"`   // visitors.vehicle_type
	VehicleNumber string    `json:"vehicleNumber"` // visitors.vehicle_number
	InTime        string    `json:"inTime"`        // visitors.in_time
	Duration      int       `json:"duration"`      // visitors.duration
	DateOfVisit   Date      `json:"dateOfVisit"`   // visitors.date_of_visit
	Status        string    `json:"status"`        // visitors.status
	Email         string    `json:"email"`         // visitors.email (nullable)
	CreatedAt     time.Time `json:"createdAt"`     // visitors.created_at
}

// Identity document kinds accepted at registration.
const (
	IDTypeAadhar = "aadhar"
	IDTypePAN    = "pan"
)

// IDTypeLabel maps an id-type value to the human-readable label printed on
// the pass. Unknown values fall through to the PAN label, matching the
// two-way choice the registration form offers.
func IDTypeLabel(idType string) string {
	if idType == IDTypeAadhar {
		return "Aadhar Card"
	}
	return "PAN Card"
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals to and from
// "YYYY-MM-DD" on the wire and maps to a DATE column in MySQL.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %q", s)
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Scan accepts the forms the MySQL driver hands back for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case []byte:
		t, err := time.Parse(dateLayout, string(v))
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	case nil:
		d.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

// Value stores the date as a plain time.Time for the driver.
func (d Date) Value() (driver.Value, error) { return d.Time, nil }
