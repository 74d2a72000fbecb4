package repositories

import (
	"strings"
	"time"

	"github.com/Yidian-He/hilton-online-service/internal/domain"
	"github.com/Yidian-He/hilton-online-service/internal/domain/models"
)

// ReservationQuery is the typed browse request: filters, sort, pagination.
type ReservationQuery struct {
	DayStart *time.Time
	DayEnd   *time.Time
	Statuses []models.Status
	Search   string
	Page     int
	Limit    int
	SortBy   string // "status" or "expectedArrivalDate"
	Desc     bool
}

// Search returns the matching page plus the unpaginated total.
func (r ReservationRepository) Search(q ReservationQuery) ([]models.Reservation, int64, error) {
	where := []string{"1=1"}
	args := []any{}

	if q.DayStart != nil && q.DayEnd != nil {
		where = append(where, "expected_arrival_date BETWEEN ? AND ?")
		args = append(args, *q.DayStart, *q.DayEnd)
	}
	if len(q.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(q.Statuses)), ",")
		where = append(where, "status IN ("+placeholders+")")
		for _, s := range q.Statuses {
			args = append(args, s)
		}
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		where = append(where, "(LOWER(guest_phone) LIKE ? OR LOWER(reservation_code) LIKE ?)")
		pattern := "%" + strings.ToLower(s) + "%"
		args = append(args, pattern, pattern)
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db().Get(&total, "SELECT COUNT(*) FROM reservations WHERE "+cond, args...); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	var order string
	switch q.SortBy {
	case "expectedArrivalDate":
		order = "expected_arrival_date " + dir
	default:
		// status is also the default sort; secondary sort keeps days in order
		order = "status " + dir + ", expected_arrival_date ASC"
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + cond +
		` ORDER BY ` + order

	if q.Limit > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, (page-1)*q.Limit)
	}

	out := []models.Reservation{}
	if err := r.db().Select(&out, query, args...); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	return out, total, nil
}
