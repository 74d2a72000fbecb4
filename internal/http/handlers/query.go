package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/Yidian-He/hilton-online-service/internal/domain/models"
	"github.com/Yidian-He/hilton-online-service/internal/http/middleware"
	"github.com/Yidian-He/hilton-online-service/internal/repositories"
	"github.com/Yidian-He/hilton-online-service/internal/services"
	"github.com/Yidian-He/hilton-online-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// The browse endpoint accepts a graphql-shaped body, but the query string
// is held to one fixed grammar: { reservations { field field ... } }.
// Unknown field names are rejected instead of silently dropped.
var facadePattern = regexp.MustCompile(`^\s*\{\s*reservations\s*\{([^{}]*)\}\s*\}\s*$`)

// selectableFields is the projection whitelist; "id" is always included.
var selectableFields = map[string]bool{
	"id":                  true,
	"guestName":           true,
	"guestPhone":          true,
	"guestEmail":          true,
	"expectedArrivalDate": true,
	"expectedArrivalTime": true,
	"tableSize":           true,
	"specialRequests":     true,
	"status":              true,
	"reservationCode":     true,
	"remarks":             true,
	"approvedBy":          true,
	"cancelledBy":         true,
	"approvalTime":        true,
	"cancellationTime":    true,
	"completionTime":      true,
	"createdAt":           true,
	"updatedAt":           true,
}

type queryRequest struct {
	Query     string         `json:"query"`
	Variables queryVariables `json:"variables"`
}

type queryVariables struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Search string `json:"search"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	SortBy string `json:"sortBy"`
	Order  string `json:"order"`
}

// QueryReservations handles POST /reservations/admin/graphql. Success is
// always HTTP 200 with {data, metadata}; any malformed query or variables
// combination is one generic 400.
func QueryReservations(c *gin.Context) {
	var req queryRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	fields, ok := parseFieldSelection(req.Query)
	if !ok {
		respondBadQuery(c)
		return
	}

	q, ok := buildQuery(req.Variables)
	if !ok {
		respondBadQuery(c)
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	result, err := svc.Browse(q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	data := make([]gin.H, 0, len(result.Items))
	for _, r := range result.Items {
		data = append(data, projectView(reservationView(r), fields))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"metadata": gin.H{
			"total":     result.Total,
			"pageCount": result.PageCount,
		},
	})
}

func respondBadQuery(c *gin.Context) {
	respondError(c, http.StatusBadRequest, "validation_error", "malformed query or variables")
}

// parseFieldSelection extracts selected field names. An empty query string
// or an empty selection set selects every field.
func parseFieldSelection(query string) ([]string, bool) {
	if strings.TrimSpace(query) == "" {
		return nil, true
	}
	m := facadePattern.FindStringSubmatch(query)
	if m == nil {
		return nil, false
	}
	fields := strings.Fields(m[1])
	for _, f := range fields {
		if !selectableFields[f] {
			return nil, false
		}
	}
	return fields, true
}

// projectView keeps only the selected keys; id always survives. A nil or
// empty selection means the full view.
func projectView(view gin.H, fields []string) gin.H {
	if len(fields) == 0 {
		return view
	}
	out := gin.H{"id": view["id"]}
	for _, f := range fields {
		out[f] = view[f]
	}
	return out
}

func buildQuery(v queryVariables) (repositories.ReservationQuery, bool) {
	q := repositories.ReservationQuery{
		Search: strings.TrimSpace(v.Search),
		Page:   v.Page,
		Limit:  v.Limit,
	}

	if v.Page < 0 || v.Limit < 0 {
		return q, false
	}

	if s := strings.TrimSpace(v.Date); s != "" {
		day, err := utils.ParseDate(s)
		if err != nil {
			return q, false
		}
		dayStart, dayEnd := utils.DayWindow(day)
		q.DayStart, q.DayEnd = &dayStart, &dayEnd
	}

	for _, raw := range utils.SplitList(v.Status) {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return q, false
		}
		q.Statuses = append(q.Statuses, status)
	}

	switch strings.TrimSpace(v.SortBy) {
	case "", "status":
		q.SortBy = "status"
	case "expectedArrivalDate":
		q.SortBy = "expectedArrivalDate"
	default:
		return q, false
	}

	switch strings.ToLower(strings.TrimSpace(v.Order)) {
	case "", "asc", "ascending":
		q.Desc = false
	case "desc", "descending":
		q.Desc = true
	default:
		return q, false
	}

	return q, true
}
