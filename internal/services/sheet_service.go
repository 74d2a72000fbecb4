package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/Yidian-He/hilton-online-service/internal/domain/models"
	"github.com/Yidian-He/hilton-online-service/internal/repositories"
	"github.com/Yidian-He/hilton-online-service/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/phpdave11/gofpdf"
)

// SheetService renders the staff-facing daily reservations sheet as PDF.
type SheetService struct {
	Repo      repositories.ReservationRepository
	DB        *sqlx.DB
	RequestID string
	Loader    func(day time.Time) ([]models.Reservation, error)
}

func (s SheetService) GenerateDailySheet(day time.Time) ([]byte, string, error) {
	items, err := s.loadDay(day)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "sheet", "generate_daily",
		fmt.Sprintf("date=%s count=%d", utils.FormatDate(day), len(items)))
	return buildDailySheetPDF(day, items)
}

func (s SheetService) loadDay(day time.Time) ([]models.Reservation, error) {
	if s.Loader != nil {
		return s.Loader(day)
	}
	repo := s.Repo
	if repo.DB == nil {
		repo = repositories.ReservationRepository{DB: s.DB}
	}
	dayStart, dayEnd := utils.DayWindow(day)
	items, _, err := repo.Search(repositories.ReservationQuery{
		DayStart: &dayStart,
		DayEnd:   &dayEnd,
	})
	return items, err
}

func buildDailySheetPDF(day time.Time, items []models.Reservation) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Daily Reservations", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "RESERVATIONS — "+utils.FormatDate(day))
	pdf.Ln(12)

	widths := []float64{26, 46, 32, 22, 16, 24, 60}
	headers := []string{"Code", "Guest", "Phone", "Slot", "Size", "Status", "Requests"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range items {
		cols := []string{
			r.ReservationCode,
			sheetSafe(r.GuestName),
			r.GuestPhone,
			string(r.ExpectedArrivalTime),
			fmt.Sprintf("%d", r.TableSize),
			string(r.Status),
			sheetSafe(r.SpecialRequests.String),
		}
		for i, col := range cols {
			pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(items) == 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 7, "No reservations for this day.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RESERVATIONS_%s.pdf", utils.FormatDate(day))
	return buf.Bytes(), filename, nil
}

// sheetSafe trims cell text so one long value cannot wreck the row layout.
func sheetSafe(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 48 {
		return s[:45] + "..."
	}
	return s
}
