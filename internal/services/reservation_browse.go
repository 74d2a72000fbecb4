package services

import (
	"fmt"

	"github.com/Yidian-He/hilton-online-service/internal/domain/models"
	"github.com/Yidian-He/hilton-online-service/internal/repositories"
	"github.com/Yidian-He/hilton-online-service/internal/utils"
)

// BrowseResult pairs one result page with its counters.
type BrowseResult struct {
	Items     []models.Reservation
	Total     int64
	PageCount int64
}

// Browse runs the staff query against the store and computes the page count.
func (s ReservationService) Browse(q repositories.ReservationQuery) (BrowseResult, error) {
	items, total, err := s.repo().Search(q)
	if err != nil {
		return BrowseResult{}, err
	}

	var pageCount int64
	if q.Limit > 0 {
		pageCount = (total + int64(q.Limit) - 1) / int64(q.Limit)
	} else if total > 0 {
		pageCount = 1
	}

	utils.LogEvent(s.RequestID, "reservation", "browse",
		fmt.Sprintf("total=%d page_count=%d", total, pageCount))
	return BrowseResult{Items: items, Total: total, PageCount: pageCount}, nil
}
