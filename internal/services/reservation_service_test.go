package services

import (
	"testing"
	"time"

	"github.com/Yidian-He/hilton-online-service/internal/domain"
	"github.com/Yidian-He/hilton-online-service/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

var fixedNow = time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local)

func newMockService(t *testing.T) (ReservationService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := ReservationService{
		DB:  sqlx.NewDb(db, "sqlmock"),
		Now: func() time.Time { return fixedNow },
	}
	return svc, mock, func() { db.Close() }
}

func reservationColumns() []string {
	return []string{
		"id", "guest_name", "guest_phone", "guest_email",
		"expected_arrival_date", "expected_arrival_time", "table_size", "special_requests",
		"status", "reservation_code", "remarks", "approved_by", "cancelled_by",
		"approval_time", "cancellation_time", "completion_time", "created_at", "updated_at",
	}
}

func reservationRow(id int64, status models.Status, arrival time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(reservationColumns()).AddRow(
		id, "A", "13800000000", nil,
		arrival, "dinner", 4, nil,
		status, "X7K2P9", nil, nil, nil,
		nil, nil, nil, fixedNow, fixedNow,
	)
}

func validCreateInput() CreateReservationInput {
	return CreateReservationInput{
		GuestName:           "A",
		GuestPhone:          "13800000000",
		ExpectedArrivalDate: fixedNow.Add(24 * time.Hour),
		ExpectedArrivalTime: models.ArrivalDinner,
		TableSize:           4,
	}
}

func TestCreateReservation(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	arrival := fixedNow.Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE guest_phone`).
		WithArgs("13800000000", sqlmock.AnyArg(), sqlmock.AnyArg(), "requested", "approved").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE reservation_code`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(1)).
		WillReturnRows(reservationRow(1, models.StatusRequested, arrival))

	res, err := svc.Create(validCreateInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if res.Status != models.StatusRequested {
		t.Fatalf("new reservation should be requested, got %s", res.Status)
	}
	if len(res.ReservationCode) != 6 {
		t.Fatalf("reservation code should be 6 chars, got %q", res.ReservationCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationConflict(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE guest_phone`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.Create(validCreateInput())
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	svc, _, done := newMockService(t)
	defer done()

	cases := []struct {
		name   string
		mutate func(*CreateReservationInput)
	}{
		{"empty name", func(in *CreateReservationInput) { in.GuestName = "  " }},
		{"short phone", func(in *CreateReservationInput) { in.GuestPhone = "1380000000" }},
		{"wrong prefix", func(in *CreateReservationInput) { in.GuestPhone = "12800000000" }},
		{"past arrival", func(in *CreateReservationInput) { in.ExpectedArrivalDate = fixedNow.Add(-time.Hour) }},
		{"arrival equal to now", func(in *CreateReservationInput) { in.ExpectedArrivalDate = fixedNow }},
		{"table too small", func(in *CreateReservationInput) { in.TableSize = 0 }},
		{"table too big", func(in *CreateReservationInput) { in.TableSize = 21 }},
	}

	for _, tc := range cases {
		in := validCreateInput()
		tc.mutate(&in)
		if _, err := svc.Create(in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateReservationCodeExhaustion(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE guest_phone`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// every roll collides; generation gives up after five attempts
	for i := 0; i < 5; i++ {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE reservation_code`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	}

	_, err := svc.Create(validCreateInput())
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error after exhausted retries, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateOnlyWhileRequested(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(reservationRow(7, models.StatusApproved, fixedNow.Add(24*time.Hour)))

	name := "B"
	_, err := svc.Update(7, models.ReservationUpdate{GuestName: &name})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateSameDaySkipsConflictCheck(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	arrival := fixedNow.Add(24 * time.Hour)
	moved := arrival.Add(2 * time.Hour) // same calendar day

	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(3)).
		WillReturnRows(reservationRow(3, models.StatusRequested, arrival))
	mock.ExpectExec("UPDATE reservations SET").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(3)).
		WillReturnRows(reservationRow(3, models.StatusRequested, moved))

	if _, err := svc.Update(3, models.ReservationUpdate{ExpectedArrivalDate: &moved}); err != nil {
		t.Fatalf("same-day move failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateDayChangeRunsConflictCheck(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	arrival := fixedNow.Add(24 * time.Hour)
	moved := arrival.Add(48 * time.Hour)

	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(3)).
		WillReturnRows(reservationRow(3, models.StatusRequested, arrival))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE guest_phone`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.Update(3, models.ReservationUpdate{ExpectedArrivalDate: &moved})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on day change, got %v", err)
	}
}

func TestUpdateStatusNoop(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(9)).
		WillReturnRows(reservationRow(9, models.StatusRequested, fixedNow.Add(24*time.Hour)))

	_, err := svc.UpdateStatus(9, "requested", "", "manager")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error on same-status update, got %v", err)
	}
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	svc, _, done := newMockService(t)
	defer done()

	if _, err := svc.UpdateStatus(9, "eaten", "", "manager"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestUpdateStatusApprove(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	arrival := fixedNow.Add(24 * time.Hour)

	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(5)).
		WillReturnRows(reservationRow(5, models.StatusRequested, arrival))
	mock.ExpectExec("UPDATE reservations SET status").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(5)).
		WillReturnRows(reservationRow(5, models.StatusApproved, arrival))

	res, err := svc.UpdateStatus(5, "approved", "window seat", "manager")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if res.Status != models.StatusApproved {
		t.Fatalf("status not applied, got %s", res.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelTerminalRejected(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	mock.ExpectQuery("FROM reservations WHERE id=").
		WithArgs(int64(2)).
		WillReturnRows(reservationRow(2, models.StatusCompleted, fixedNow))

	_, err := svc.Cancel(2, "13800000000")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error cancelling a completed reservation, got %v", err)
	}
}

func TestFindActiveHidesTerminalStates(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	day := fixedNow.Add(24 * time.Hour)

	mock.ExpectQuery("ORDER BY created_at DESC LIMIT 1").
		WillReturnRows(reservationRow(4, models.StatusCancelled, day))

	_, err := svc.FindActive(day, "13800000000", "")
	if !domain.IsNotFound(err) {
		t.Fatalf("cancelled match should surface as not-found, got %v", err)
	}
}

func TestFindActiveReturnsMatch(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()

	day := fixedNow.Add(24 * time.Hour)

	mock.ExpectQuery("ORDER BY created_at DESC LIMIT 1").
		WillReturnRows(reservationRow(4, models.StatusApproved, day))

	res, err := svc.FindActive(day, "13800000000", "")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if res.ID != 4 {
		t.Fatalf("wrong record returned: %d", res.ID)
	}
}

func TestFindActiveRequiresContact(t *testing.T) {
	svc, _, done := newMockService(t)
	defer done()

	if _, err := svc.FindActive(fixedNow, "", ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error without phone or code, got %v", err)
	}
}
