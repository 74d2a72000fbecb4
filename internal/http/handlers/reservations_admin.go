package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Yidian-He/hilton-online-service/internal/http/middleware"
	"github.com/Yidian-He/hilton-online-service/internal/services"
	"github.com/Yidian-He/hilton-online-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetReservationByID handles GET /reservations/admin/:id.
func GetReservationByID(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservationView(res))
}

type updateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	Remarks    string `json:"remarks" binding:"omitempty,max=512"`
	OperatedBy string `json:"operatedBy" binding:"required"`
}

// UpdateReservationStatus handles PATCH /reservations/admin/:id/status.
func UpdateReservationStatus(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.UpdateStatus(id, strings.TrimSpace(req.Status), req.Remarks, req.OperatedBy)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservationView(res))
}

// GetDailySheet handles GET /reservations/admin/sheet?date=YYYY-MM-DD and
// streams the day's reservation list as PDF.
func GetDailySheet(c *gin.Context) {
	dateStr := strings.TrimSpace(c.Query("date"))
	if dateStr == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "date is required")
		return
	}
	day, err := utils.ParseDate(dateStr)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "date must be formatted YYYY-MM-DD")
		return
	}

	svc := services.SheetService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateDailySheet(day)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
