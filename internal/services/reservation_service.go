package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "github.com/Yidian-He/hilton-online-service/internal/config"
	"github.com/Yidian-He/hilton-online-service/internal/domain"
	"github.com/Yidian-He/hilton-online-service/internal/domain/models"
	"github.com/Yidian-He/hilton-online-service/internal/repositories"
	"github.com/Yidian-He/hilton-online-service/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
)

const (
	reservationCodeLen = 6
	codeMaxAttempts    = 5
)

// ReservationService holds the booking rules: conflict checking, the status
// machine, and unique code generation.
type ReservationService struct {
	Repo      repositories.ReservationRepository
	DB        *sqlx.DB
	RequestID string
	Now       func() time.Time
}

func (s ReservationService) db() *sqlx.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ReservationService) repo() repositories.ReservationRepository {
	if s.Repo.DB != nil {
		return s.Repo
	}
	return repositories.ReservationRepository{DB: s.db()}
}

func (s ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateReservationInput carries validated-at-the-edge guest input.
type CreateReservationInput struct {
	GuestName           string
	GuestPhone          string
	GuestEmail          string
	ExpectedArrivalDate time.Time
	ExpectedArrivalTime models.ArrivalTime
	TableSize           int
	SpecialRequests     string
}

func (s ReservationService) Create(in CreateReservationInput) (models.Reservation, error) {
	var out models.Reservation

	name := strings.TrimSpace(in.GuestName)
	if name == "" {
		return out, domain.ValidationError{Field: "guestName", Msg: "guest name is required"}
	}
	if err := validatePhone(in.GuestPhone); err != nil {
		return out, err
	}
	if err := validateArrivalDate(in.ExpectedArrivalDate, s.now()); err != nil {
		return out, err
	}
	if err := validateTableSize(in.TableSize); err != nil {
		return out, err
	}
	if len(in.SpecialRequests) > models.SpecialRequestsMaxLen {
		return out, domain.ValidationError{Field: "specialRequests", Msg: "special requests too long"}
	}

	if err := s.checkConflict(in.GuestPhone, in.ExpectedArrivalDate); err != nil {
		return out, err
	}

	code, err := s.generateCode()
	if err != nil {
		return out, err
	}

	res := models.Reservation{
		GuestName:           name,
		GuestPhone:          in.GuestPhone,
		GuestEmail:          nullString(in.GuestEmail),
		ExpectedArrivalDate: in.ExpectedArrivalDate,
		ExpectedArrivalTime: in.ExpectedArrivalTime,
		TableSize:           in.TableSize,
		SpecialRequests:     nullString(in.SpecialRequests),
		Status:              models.StatusRequested,
		ReservationCode:     code,
	}

	id, err := s.repo().Insert(res)
	if err != nil {
		return out, err
	}

	utils.LogEvent(s.RequestID, "reservation", "create", fmt.Sprintf("id=%d code=%s", id, code))
	return s.repo().GetByID(id)
}

// Get is the staff direct lookup.
func (s ReservationService) Get(id int64) (models.Reservation, error) {
	return s.repo().GetByID(id)
}

// Update applies a guest's partial update. Only requested reservations may
// change; a moved arrival date re-runs the future check, and the conflict
// check when the calendar day actually changed.
func (s ReservationService) Update(id int64, upd models.ReservationUpdate) (models.Reservation, error) {
	var out models.Reservation

	existing, err := s.repo().GetByID(id)
	if err != nil {
		return out, err
	}
	if existing.Status != models.StatusRequested {
		return out, domain.ValidationError{Field: "status", Msg: "only requested reservations can be updated"}
	}

	if upd.GuestPhone != nil {
		if err := validatePhone(*upd.GuestPhone); err != nil {
			return out, err
		}
	}
	if upd.TableSize != nil {
		if err := validateTableSize(*upd.TableSize); err != nil {
			return out, err
		}
	}
	if upd.SpecialRequests != nil && len(*upd.SpecialRequests) > models.SpecialRequestsMaxLen {
		return out, domain.ValidationError{Field: "specialRequests", Msg: "special requests too long"}
	}

	if upd.ExpectedArrivalDate != nil {
		newDate := *upd.ExpectedArrivalDate
		if err := validateArrivalDate(newDate, s.now()); err != nil {
			return out, err
		}
		if !utils.SameCalendarDay(newDate, existing.ExpectedArrivalDate) {
			phone := existing.GuestPhone
			if upd.GuestPhone != nil {
				phone = *upd.GuestPhone
			}
			if err := s.checkConflict(phone, newDate); err != nil {
				return out, err
			}
		}
	}

	if err := s.repo().UpdateGuestFields(id, upd); err != nil {
		return out, err
	}

	utils.LogEvent(s.RequestID, "reservation", "update", fmt.Sprintf("id=%d", id))
	return s.repo().GetByID(id)
}

// Cancel moves the reservation to cancelled on behalf of the guest.
func (s ReservationService) Cancel(id int64, cancelledBy string) (models.Reservation, error) {
	return s.transition(id, models.StatusCancelled, "", cancelledBy)
}

// UpdateStatus applies a staff-driven transition with optional remarks.
func (s ReservationService) UpdateStatus(id int64, rawStatus, remarks, operatedBy string) (models.Reservation, error) {
	target, err := models.ParseStatus(rawStatus)
	if err != nil {
		return models.Reservation{}, err
	}
	if len(remarks) > models.RemarksMaxLen {
		return models.Reservation{}, domain.ValidationError{Field: "remarks", Msg: "remarks too long"}
	}
	return s.transition(id, target, remarks, operatedBy)
}

func (s ReservationService) transition(id int64, to models.Status, remarks, operator string) (models.Reservation, error) {
	var out models.Reservation

	res, err := s.repo().GetByID(id)
	if err != nil {
		return out, err
	}

	if err := res.ApplyTransition(to, strings.TrimSpace(operator), s.now()); err != nil {
		return out, err
	}
	if strings.TrimSpace(remarks) != "" {
		res.Remarks = nullString(remarks)
	}

	if err := s.repo().UpdateStatus(res); err != nil {
		return out, err
	}

	utils.LogEvent(s.RequestID, "reservation", "transition",
		fmt.Sprintf("id=%d status=%s", id, to))
	return s.repo().GetByID(id)
}

// FindActive resolves a guest lookup by day plus phone or code. A match in
// a terminal state surfaces as not-found, same as no match at all.
func (s ReservationService) FindActive(day time.Time, phone, code string) (models.Reservation, error) {
	dayStart, dayEnd := utils.DayWindow(day)

	res, err := s.repo().FindByDayAndContact(dayStart, dayEnd, strings.TrimSpace(phone), strings.TrimSpace(code))
	if err != nil {
		return models.Reservation{}, err
	}
	if res.Status.IsTerminal() {
		utils.LogEvent(s.RequestID, "reservation", "find_inactive",
			fmt.Sprintf("id=%d status=%s", res.ID, res.Status))
		return models.Reservation{}, domain.NotFoundError{Resource: "reservation"}
	}
	return res, nil
}

func (s ReservationService) checkConflict(phone string, arrival time.Time) error {
	dayStart, dayEnd := utils.DayWindow(arrival)
	exists, err := s.repo().FindActiveOnDay(phone, dayStart, dayEnd)
	if err != nil {
		return err
	}
	if exists {
		return domain.ConflictError{
			Resource: "reservation",
			Msg:      "an active reservation already exists for this guest on that day",
		}
	}
	return nil
}

// generateCode re-rolls on collision, bounded to codeMaxAttempts tries.
func (s ReservationService) generateCode() (string, error) {
	var code string

	backoff := retry.WithMaxRetries(codeMaxAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		c, err := utils.RandomCode(reservationCodeLen)
		if err != nil {
			return err
		}
		taken, err := s.repo().CodeExists(c)
		if err != nil {
			return err
		}
		if taken {
			return retry.RetryableError(fmt.Errorf("code %s already taken", c))
		}
		code = c
		return nil
	})
	if err != nil {
		return "", domain.InternalError{Msg: "could not allocate a unique reservation code", Err: err}
	}
	return code, nil
}

func validatePhone(phone string) error {
	if !models.MobilePhonePattern.MatchString(phone) {
		return domain.ValidationError{Field: "guestPhone", Msg: "phone must be a valid 11-digit mobile number"}
	}
	return nil
}

func validateArrivalDate(arrival, now time.Time) error {
	if !arrival.After(now) {
		return domain.ValidationError{Field: "expectedArrivalDate", Msg: "expected arrival date must be in the future"}
	}
	return nil
}

func validateTableSize(size int) error {
	if size < models.TableSizeMin || size > models.TableSizeMax {
		return domain.ValidationError{Field: "tableSize", Msg: "table size must be between 1 and 20"}
	}
	return nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
