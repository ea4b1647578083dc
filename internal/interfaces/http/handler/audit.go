package handler

import (
	auditapp "github.com/erp/backoffice/internal/application/audit"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the read-only audit trail
type AuditHandler struct {
	BaseHandler
	audit *auditapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.AuditService) *AuditHandler {
	return &AuditHandler{audit: auditService}
}

// ListAuditLogsQuery filters the audit trail. from and to are inclusive dates.
type ListAuditLogsQuery struct {
	dto.ListRequest
	SubjectType string `form:"subject_type" binding:"omitempty,max=50"`
	SubjectID   string `form:"subject_id" binding:"omitempty,uuid"`
	ActorID     string `form:"actor_id" binding:"omitempty,uuid"`
	Action      string `form:"action" binding:"omitempty,max=50"`
	From        string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// List godoc
// @ID           listAuditLogs
// @Summary      List audit log entries
// @Description  Newest first
// @Tags         audit
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        subject_type query string false "Subject type" example(journal_entry)
// @Param        subject_id query string false "Subject ID" format(uuid)
// @Param        actor_id query string false "Actor ID" format(uuid)
// @Param        action query string false "Action" example(posted)
// @Param        from query string false "From date" format(date)
// @Param        to query string false "To date" format(date)
// @Success      200 {object} APIResponse[[]audit.AuditLog]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var q ListAuditLogsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.audit.List(c.Request.Context(), audit.ListFilter{
		Filter:      q.ToFilter(),
		SubjectType: audit.SubjectType(q.SubjectType),
		SubjectID:   optionalUUID(q.SubjectID),
		ActorID:     optionalUUID(q.ActorID),
		Action:      audit.Action(q.Action),
		From:        optionalDate(q.From),
		To:          endOfDay(optionalDate(q.To)),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getAuditLog
// @Summary      Get an audit log entry
// @Tags         audit
// @Produce      json
// @Param        id path string true "Audit log ID" format(uuid)
// @Success      200 {object} APIResponse[audit.AuditLog]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /audit-logs/{id} [get]
func (h *AuditHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	entry, err := h.audit.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
