package handlers

import (
	"database/sql"
	"time"

	"github.com/Yidian-He/hilton-online-service/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// reservationView renders the full external representation. NULL columns
// come out as JSON null, and the arrival instant is additionally rendered
// in the fixed UTC+8 display zone.
func reservationView(r models.Reservation) gin.H {
	return gin.H{
		"id":                       r.ID,
		"guestName":                r.GuestName,
		"guestPhone":               r.GuestPhone,
		"guestEmail":               nullStr(r.GuestEmail),
		"expectedArrivalDate":      r.ExpectedArrivalDate,
		"expectedArrivalDateLocal": r.ExpectedArrivalDate.In(models.DisplayZone).Format(time.RFC3339),
		"expectedArrivalTime":      r.ExpectedArrivalTime,
		"tableSize":                r.TableSize,
		"specialRequests":          nullStr(r.SpecialRequests),
		"status":                   r.Status,
		"reservationCode":          r.ReservationCode,
		"remarks":                  nullStr(r.Remarks),
		"approvedBy":               nullStr(r.ApprovedBy),
		"cancelledBy":              nullStr(r.CancelledBy),
		"approvalTime":             nullTime(r.ApprovalTime),
		"cancellationTime":         nullTime(r.CancellationTime),
		"completionTime":           nullTime(r.CompletionTime),
		"createdAt":                r.CreatedAt,
		"updatedAt":                r.UpdatedAt,
	}
}

func nullStr(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func nullTime(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return v.Time
}
