package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "github.com/Yidian-He/hilton-online-service/internal/config"
	"github.com/Yidian-He/hilton-online-service/internal/domain"
	"github.com/Yidian-He/hilton-online-service/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const reservationColumns = `id, guest_name, guest_phone, guest_email,
	expected_arrival_date, expected_arrival_time, table_size, special_requests,
	status, reservation_code, remarks, approved_by, cancelled_by,
	approval_time, cancellation_time, completion_time, created_at, updated_at`

type ReservationRepository struct {
	DB *sqlx.DB
}

func (r ReservationRepository) db() *sqlx.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ReservationRepository) GetByID(id int64) (models.Reservation, error) {
	var res models.Reservation
	if id <= 0 {
		return res, domain.ValidationError{Field: "id", Msg: "id must be a positive integer"}
	}

	err := r.db().Get(&res, `SELECT `+reservationColumns+` FROM reservations WHERE id=? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return res, domain.NotFoundError{Resource: "reservation"}
	}
	if err != nil {
		return res, domain.InternalError{Err: err}
	}
	return res, nil
}

// FindActiveOnDay reports whether the phone already holds a requested or
// approved reservation inside the given day window.
func (r ReservationRepository) FindActiveOnDay(phone string, dayStart, dayEnd time.Time) (bool, error) {
	var count int
	err := r.db().Get(&count, `
		SELECT COUNT(*) FROM reservations
		WHERE guest_phone = ?
		  AND expected_arrival_date BETWEEN ? AND ?
		  AND status IN (?, ?)`,
		phone, dayStart, dayEnd, models.StatusRequested, models.StatusApproved)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return count > 0, nil
}

// FindByDayAndContact looks a reservation up by calendar day plus phone or
// code. Terminal-state filtering is the caller's concern.
func (r ReservationRepository) FindByDayAndContact(dayStart, dayEnd time.Time, phone, code string) (models.Reservation, error) {
	var res models.Reservation

	where := []string{"expected_arrival_date BETWEEN ? AND ?"}
	args := []any{dayStart, dayEnd}
	switch {
	case phone != "" && code != "":
		where = append(where, "(guest_phone = ? OR reservation_code = ?)")
		args = append(args, phone, code)
	case phone != "":
		where = append(where, "guest_phone = ?")
		args = append(args, phone)
	case code != "":
		where = append(where, "reservation_code = ?")
		args = append(args, code)
	default:
		return res, domain.ValidationError{Msg: "phone or reservation code is required"}
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC LIMIT 1`

	err := r.db().Get(&res, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return res, domain.NotFoundError{Resource: "reservation"}
	}
	if err != nil {
		return res, domain.InternalError{Err: err}
	}
	return res, nil
}

func (r ReservationRepository) CodeExists(code string) (bool, error) {
	var count int
	err := r.db().Get(&count, `SELECT COUNT(*) FROM reservations WHERE reservation_code = ?`, code)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return count > 0, nil
}

func (r ReservationRepository) Insert(res models.Reservation) (int64, error) {
	result, err := r.db().Exec(`
		INSERT INTO reservations
			(guest_name, guest_phone, guest_email, expected_arrival_date,
			 expected_arrival_time, table_size, special_requests, status,
			 reservation_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.GuestName, res.GuestPhone, res.GuestEmail, res.ExpectedArrivalDate,
		res.ExpectedArrivalTime, res.TableSize, res.SpecialRequests, res.Status,
		res.ReservationCode)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, err := result.LastInsertId()
	if err != nil || id <= 0 {
		return 0, domain.InternalError{Msg: "insert returned no id", Err: err}
	}
	return id, nil
}

// UpdateGuestFields persists a presence-driven partial update. Clauses are
// built in a fixed order so the statement stays deterministic.
func (r ReservationRepository) UpdateGuestFields(id int64, upd models.ReservationUpdate) error {
	set := []string{}
	args := []any{}

	if upd.GuestName != nil {
		set = append(set, "guest_name = ?")
		args = append(args, *upd.GuestName)
	}
	if upd.GuestPhone != nil {
		set = append(set, "guest_phone = ?")
		args = append(args, *upd.GuestPhone)
	}
	if upd.GuestEmail != nil {
		set = append(set, "guest_email = ?")
		args = append(args, nullIfEmpty(*upd.GuestEmail))
	}
	if upd.ExpectedArrivalDate != nil {
		set = append(set, "expected_arrival_date = ?")
		args = append(args, *upd.ExpectedArrivalDate)
	}
	if upd.ExpectedArrivalTime != nil {
		set = append(set, "expected_arrival_time = ?")
		args = append(args, *upd.ExpectedArrivalTime)
	}
	if upd.TableSize != nil {
		set = append(set, "table_size = ?")
		args = append(args, *upd.TableSize)
	}
	if upd.SpecialRequests != nil {
		set = append(set, "special_requests = ?")
		args = append(args, nullIfEmpty(*upd.SpecialRequests))
	}

	if len(set) == 0 {
		return domain.ValidationError{Msg: "no updatable fields in payload"}
	}

	query := fmt.Sprintf("UPDATE reservations SET %s WHERE id = ?", strings.Join(set, ", "))
	args = append(args, id)

	if _, err := r.db().Exec(query, args...); err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// UpdateStatus writes the full transition outcome in one statement.
func (r ReservationRepository) UpdateStatus(res models.Reservation) error {
	_, err := r.db().Exec(`
		UPDATE reservations
		SET status = ?, remarks = ?, approved_by = ?, cancelled_by = ?,
		    approval_time = ?, cancellation_time = ?, completion_time = ?
		WHERE id = ?`,
		res.Status, res.Remarks, res.ApprovedBy, res.CancelledBy,
		res.ApprovalTime, res.CancellationTime, res.CompletionTime, res.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
