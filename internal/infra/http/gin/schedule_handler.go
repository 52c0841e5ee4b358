package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"villadesk/internal/app/commands"
	"villadesk/internal/app/dto"
	scheduleapp "villadesk/internal/app/handlers/schedule"
	"villadesk/internal/app/queries"
	"villadesk/internal/domain/calendar"
	domainschedule "villadesk/internal/domain/schedule"
	"villadesk/internal/domain/shared/dateonly"
	domainvillas "villadesk/internal/domain/villas"
)

type ScheduleHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	// Now supplies the wall clock for "today"; overridable in tests.
	Now func() time.Time
}

func (h ScheduleHandler) Calendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required"})
		return
	}
	query := scheduleapp.GetCalendarQuery{
		VillaID: c.Param("id"),
		Year:    year,
		Month:   time.Month(month),
		Today:   dateonly.FromTime(h.now()),
	}
	result, err := queries.Ask[scheduleapp.GetCalendarQuery, dto.CalendarMonth](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ScheduleHandler) List(c *gin.Context) {
	query := scheduleapp.ListBlockedDatesQuery{
		VillaID:    c.Query("villaId"),
		LocationID: c.Query("locationId"),
	}
	if raw := c.Query("from"); raw != "" {
		from, err := dateonly.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := dateonly.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query.To = to
	}
	result, err := queries.Ask[scheduleapp.ListBlockedDatesQuery, dto.BlockedDateList](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type blockDatesRequest struct {
	Scope      int    `json:"scope"`
	LocationID string `json:"locationId"`
	VillaID    string `json:"villaId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
	Color      string `json:"color"`
	IsBlocked  bool   `json:"isBlocked"`
}

func (h ScheduleHandler) Block(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req blockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := dateonly.Parse(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := dateonly.Parse(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := scheduleapp.BlockDatesCommand{
		CommandID:       uuid.NewString(),
		Scope:           req.Scope,
		LocationID:      req.LocationID,
		VillaID:         req.VillaID,
		StartDate:       start,
		EndDate:         end,
		Reason:          req.Reason,
		Color:           req.Color,
		IsBlocked:       req.IsBlocked,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[scheduleapp.BlockDatesCommand, *scheduleapp.BlockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateBlockRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
	Color     string `json:"color"`
	IsBlocked bool   `json:"isBlocked"`
}

func (h ScheduleHandler) Update(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req updateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := dateonly.Parse(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := dateonly.Parse(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := scheduleapp.UpdateBlockedDateCommand{
		RecordID:  c.Param("id"),
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Color:     req.Color,
		IsBlocked: req.IsBlocked,
	}
	result, err := commands.Dispatch[scheduleapp.UpdateBlockedDateCommand, *scheduleapp.UpdateBlockedDateResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ScheduleHandler) Release(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := scheduleapp.ReleaseBlockedDateCommand{RecordID: c.Param("id")}
	result, err := commands.Dispatch[scheduleapp.ReleaseBlockedDateCommand, *scheduleapp.ReleaseBlockedDateResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ScheduleHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainschedule.ErrRecordNotFound),
		errors.Is(err, domainvillas.ErrVillaNotFound),
		errors.Is(err, domainvillas.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, dateonly.ErrInvalidRange),
		errors.Is(err, dateonly.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidMonth),
		errors.Is(err, domainschedule.ErrReasonRequired),
		errors.Is(err, domainschedule.ErrVillaRequired),
		errors.Is(err, domainschedule.ErrLocationRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var _ ScheduleHTTP = ScheduleHandler{}
