package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/files"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/http/middleware"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/service"
)

type Handler struct {
	appealService       *service.AppealService
	notificationService *service.NotificationService
	evidenceStore       *files.EvidenceStore
	log                 zerolog.Logger
}

func NewHandler(
	appealService *service.AppealService,
	notificationService *service.NotificationService,
	evidenceStore *files.EvidenceStore,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		appealService:       appealService,
		notificationService: notificationService,
		evidenceStore:       evidenceStore,
		log:                 log,
	}
}

func (h *Handler) createAppeal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	input := service.CreateAppealInput{
		ViolationID:  c.PostForm("violation_id"),
		AppealReason: c.PostForm("appeal_reason"),
		Description:  c.PostForm("description"),
		EvidenceType: c.PostForm("evidence_type"),
	}

	if raw := strings.TrimSpace(c.PostForm("violation_date")); raw != "" {
		ts, err := parseDate(raw)
		if err != nil {
			h.handleError(c, &service.ValidationError{Fields: map[string]string{
				"violation_date": "Violation date must be an RFC 3339 timestamp or a YYYY-MM-DD date",
			}})
			return
		}
		input.ViolationDate = &ts
	}

	header, err := c.FormFile("evidence")
	if err == nil && header != nil {
		ref, saveErr := h.evidenceStore.Save(header)
		if saveErr != nil {
			h.handleError(c, saveErr)
			return
		}
		input.EvidenceRef = ref
		input.EvidenceName = header.Filename
	}

	appeal, err := h.appealService.Create(c.Request.Context(), principal, input, requestContext(c))
	if err != nil {
		if input.EvidenceRef != "" {
			if rmErr := h.evidenceStore.Remove(input.EvidenceRef); rmErr != nil {
				h.log.Warn().Err(rmErr).Str("ref", input.EvidenceRef).Msg("orphaned evidence file")
			}
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{"appeal": appeal.Public()}))
}

func (h *Handler) listMyAppeals(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts := parseListQuery(c)
	page, err := h.appealService.ListOwn(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(page))
}

func (h *Handler) getAppeal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid appeal id"))
		return
	}

	detail, err := h.appealService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"appeal": detail}))
}

func (h *Handler) listAllAppeals(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts := parseListQuery(c)
	page, err := h.appealService.ListAll(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(page))
}

func (h *Handler) updateAppealStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid appeal id"))
		return
	}

	var req struct {
		Status     string `json:"status" binding:"required"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status := model.AppealStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	result, err := h.appealService.UpdateStatus(c.Request.Context(), principal, id, status, req.AdminNotes, requestContext(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"appeal": result}))
}

func (h *Handler) appealStatistics(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var from, to *time.Time
	if raw := strings.TrimSpace(c.Query("start_date")); raw != "" {
		if ts, err := parseDate(raw); err == nil {
			from = &ts
		} else {
			c.JSON(http.StatusBadRequest, errorResponse("invalid start_date"))
			return
		}
	}
	if raw := strings.TrimSpace(c.Query("end_date")); raw != "" {
		if ts, err := parseDate(raw); err == nil {
			to = &ts
		} else {
			c.JSON(http.StatusBadRequest, errorResponse("invalid end_date"))
			return
		}
	}

	stats, err := h.appealService.Statistics(c.Request.Context(), principal, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) listNotifications(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	onlyUnread := strings.EqualFold(c.Query("unread"), "true")
	limit := parseIntQuery(c, "limit", 50)
	offset := parseIntQuery(c, "offset", 0)

	page, err := h.notificationService.ListOwn(c.Request.Context(), principal, onlyUnread, limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(page))
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid notification id"))
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "read"}))
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"updated": updated}))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var duplicateErr *service.DuplicateAppealError
	var transitionErr *service.TransitionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  validationErr.Error(),
			"errors": validationErr.Fields,
		})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": duplicateErr.Error(),
			"existing_appeal": gin.H{
				"id":           duplicateErr.ExistingID,
				"status":       duplicateErr.Status,
				"submitted_at": duplicateErr.SubmittedAt,
			},
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":               transitionErr.Error(),
			"current_status":      transitionErr.Current,
			"allowed_transitions": transitionErr.Allowed,
		})
	case errors.Is(err, service.ErrSelfReview):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, files.ErrFileTooLarge), errors.Is(err, files.ErrFileType):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseListQuery(c *gin.Context) service.ListOptions {
	var opts service.ListOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			status := model.AppealStatus(strings.ToLower(val))
			if status.Valid() {
				opts.Statuses = append(opts.Statuses, status)
			}
		}
	}
	if reasonParam := c.Query("appeal_reason"); reasonParam != "" {
		for _, val := range splitCSV(reasonParam) {
			reason := model.AppealReason(strings.ToLower(val))
			if reason.Valid() {
				opts.Reasons = append(opts.Reasons, reason)
			}
		}
	}
	if dateFrom := strings.TrimSpace(c.Query("date_from")); dateFrom != "" {
		if ts, err := parseDate(dateFrom); err == nil {
			opts.DateFrom = &ts
		}
	}
	if dateTo := strings.TrimSpace(c.Query("date_to")); dateTo != "" {
		if ts, err := parseDate(dateTo); err == nil {
			opts.DateTo = &ts
		}
	}

	opts.SortBy = strings.TrimSpace(c.Query("sort_by"))
	opts.SortAsc = strings.EqualFold(c.Query("sort_order"), "asc")
	opts.Page = parseIntQuery(c, "page", 1)
	opts.Limit = parseIntQuery(c, "limit", 10)

	return opts
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// parseDate accepts RFC3339 timestamps and bare dates.
func parseDate(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}

func requestContext(c *gin.Context) service.RequestContext {
	return service.RequestContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
