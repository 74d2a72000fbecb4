package models

import (
	"database/sql"
	"regexp"
	"time"

	"github.com/Yidian-He/hilton-online-service/internal/domain"
)

// Status is the reservation lifecycle state.
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ArrivalTime is the bookable time slot.
type ArrivalTime string

const (
	ArrivalLunch  ArrivalTime = "lunch"
	ArrivalDinner ArrivalTime = "dinner"
)

// MobilePhonePattern is the accepted guest phone format: 11 digits,
// leading 1, second digit 3-9.
var MobilePhonePattern = regexp.MustCompile(`^1[3-9][0-9]{9}$`)

// DisplayZone is the fixed zone used for the derived arrival-date field.
var DisplayZone = time.FixedZone("UTC+8", 8*60*60)

const (
	TableSizeMin = 1
	TableSizeMax = 20

	SpecialRequestsMaxLen = 512
	RemarksMaxLen         = 512
)

// Reservation is the single persisted entity.
type Reservation struct {
	ID                  int64          `db:"id" json:"id"`
	GuestName           string         `db:"guest_name" json:"guestName"`
	GuestPhone          string         `db:"guest_phone" json:"guestPhone"`
	GuestEmail          sql.NullString `db:"guest_email" json:"-"`
	ExpectedArrivalDate time.Time      `db:"expected_arrival_date" json:"expectedArrivalDate"`
	ExpectedArrivalTime ArrivalTime    `db:"expected_arrival_time" json:"expectedArrivalTime"`
	TableSize           int            `db:"table_size" json:"tableSize"`
	SpecialRequests     sql.NullString `db:"special_requests" json:"-"`
	Status              Status         `db:"status" json:"status"`
	ReservationCode     string         `db:"reservation_code" json:"reservationCode"`
	Remarks             sql.NullString `db:"remarks" json:"-"`
	ApprovedBy          sql.NullString `db:"approved_by" json:"-"`
	CancelledBy         sql.NullString `db:"cancelled_by" json:"-"`
	ApprovalTime        sql.NullTime   `db:"approval_time" json:"-"`
	CancellationTime    sql.NullTime   `db:"cancellation_time" json:"-"`
	CompletionTime      sql.NullTime   `db:"completion_time" json:"-"`
	CreatedAt           time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// IsActive reports whether the reservation still occupies its day slot.
func (s Status) IsActive() bool {
	return s == StatusRequested || s == StatusApproved
}

// ParseStatus validates a client-supplied status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusRequested, StatusApproved, StatusCancelled, StatusCompleted:
		return Status(raw), nil
	}
	return "", domain.ValidationError{Field: "status", Msg: "unknown status value"}
}

// ParseArrivalTime validates a client-supplied time slot.
func ParseArrivalTime(raw string) (ArrivalTime, error) {
	switch ArrivalTime(raw) {
	case ArrivalLunch, ArrivalDinner:
		return ArrivalTime(raw), nil
	}
	return "", domain.ValidationError{Field: "expectedArrivalTime", Msg: "unknown arrival time slot"}
}

// CanTransition checks the status table: requested -> approved|cancelled,
// approved -> completed|cancelled. Same-status is rejected, not a no-op.
func CanTransition(from, to Status) error {
	if from == to {
		return domain.ValidationError{Field: "status", Msg: "status not changed"}
	}
	if from.IsTerminal() {
		return domain.ValidationError{Field: "status", Msg: "reservation already " + string(from)}
	}
	switch from {
	case StatusRequested:
		if to == StatusApproved || to == StatusCancelled {
			return nil
		}
	case StatusApproved:
		if to == StatusCompleted || to == StatusCancelled {
			return nil
		}
	}
	return domain.ValidationError{Field: "status", Msg: "cannot move from " + string(from) + " to " + string(to)}
}

// ApplyTransition mutates the reservation in place after CanTransition
// passes. Side-effect timestamps are stamped once, only while still unset.
func (r *Reservation) ApplyTransition(to Status, operator string, now time.Time) error {
	if err := CanTransition(r.Status, to); err != nil {
		return err
	}

	r.Status = to

	switch to {
	case StatusApproved:
		if !r.ApprovalTime.Valid {
			r.ApprovalTime = sql.NullTime{Time: now, Valid: true}
		}
		if operator != "" {
			r.ApprovedBy = sql.NullString{String: operator, Valid: true}
		}
	case StatusCancelled:
		if !r.CancellationTime.Valid {
			r.CancellationTime = sql.NullTime{Time: now, Valid: true}
		}
		if operator != "" {
			r.CancelledBy = sql.NullString{String: operator, Valid: true}
		}
	case StatusCompleted:
		if !r.CompletionTime.Valid {
			r.CompletionTime = sql.NullTime{Time: now, Valid: true}
		}
	}

	return nil
}

// ReservationUpdate supports PATCH-style guest updates via key presence.
type ReservationUpdate struct {
	GuestName           *string
	GuestPhone          *string
	GuestEmail          *string
	ExpectedArrivalDate *time.Time
	ExpectedArrivalTime *ArrivalTime
	TableSize           *int
	SpecialRequests     *string
}
