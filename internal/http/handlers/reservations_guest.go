package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Yidian-He/hilton-online-service/internal/domain/models"
	"github.com/Yidian-He/hilton-online-service/internal/http/middleware"
	"github.com/Yidian-He/hilton-online-service/internal/services"
	"github.com/Yidian-He/hilton-online-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type createReservationRequest struct {
	GuestName           string    `json:"guestName" binding:"required"`
	GuestPhone          string    `json:"guestPhone" binding:"required,cnmobile"`
	GuestEmail          string    `json:"guestEmail" binding:"omitempty,email"`
	ExpectedArrivalDate time.Time `json:"expectedArrivalDate" binding:"required"`
	ExpectedArrivalTime string    `json:"expectedArrivalTime" binding:"required,oneof=lunch dinner"`
	TableSize           int       `json:"tableSize" binding:"required,min=1,max=20"`
	SpecialRequests     string    `json:"specialRequests" binding:"omitempty,max=512"`
}

// CreateReservation handles POST /reservations.
func CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	slot, err := models.ParseArrivalTime(req.ExpectedArrivalTime)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.Create(services.CreateReservationInput{
		GuestName:           req.GuestName,
		GuestPhone:          req.GuestPhone,
		GuestEmail:          req.GuestEmail,
		ExpectedArrivalDate: req.ExpectedArrivalDate,
		ExpectedArrivalTime: slot,
		TableSize:           req.TableSize,
		SpecialRequests:     req.SpecialRequests,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservationView(res))
}

// FindGuestReservation handles GET /reservations/guest.
// Requires date plus at least one of phone / reservationCode.
func FindGuestReservation(c *gin.Context) {
	dateStr := strings.TrimSpace(c.Query("date"))
	phone := strings.TrimSpace(c.Query("phone"))
	code := strings.TrimSpace(c.Query("reservationCode"))

	if dateStr == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "date is required")
		return
	}
	if phone == "" && code == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "phone or reservationCode is required")
		return
	}

	day, err := utils.ParseDate(dateStr)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "date must be formatted YYYY-MM-DD")
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.FindActive(day, phone, code)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservationView(res))
}

type updateReservationRequest struct {
	GuestName           *string    `json:"guestName"`
	GuestPhone          *string    `json:"guestPhone" binding:"omitempty,cnmobile"`
	GuestEmail          *string    `json:"guestEmail" binding:"omitempty,email"`
	ExpectedArrivalDate *time.Time `json:"expectedArrivalDate"`
	ExpectedArrivalTime *string    `json:"expectedArrivalTime" binding:"omitempty,oneof=lunch dinner"`
	TableSize           *int       `json:"tableSize" binding:"omitempty,min=1,max=20"`
	SpecialRequests     *string    `json:"specialRequests" binding:"omitempty,max=512"`
}

// UpdateGuestReservation handles PATCH /reservations/guest/:id.
func UpdateGuestReservation(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var req updateReservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	upd := models.ReservationUpdate{
		GuestName:           req.GuestName,
		GuestPhone:          req.GuestPhone,
		GuestEmail:          req.GuestEmail,
		ExpectedArrivalDate: req.ExpectedArrivalDate,
		TableSize:           req.TableSize,
		SpecialRequests:     req.SpecialRequests,
	}
	if req.ExpectedArrivalTime != nil {
		slot, err := models.ParseArrivalTime(*req.ExpectedArrivalTime)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		upd.ExpectedArrivalTime = &slot
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.Update(id, upd)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservationView(res))
}

type cancelReservationRequest struct {
	CancelledBy string `json:"cancelledBy" binding:"required"`
}

// CancelGuestReservation handles PATCH /reservations/guest/:id/cancel.
func CancelGuestReservation(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var req cancelReservationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	res, err := svc.Cancel(id, req.CancelledBy)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservationView(res))
}
