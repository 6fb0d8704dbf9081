package handler

import (
	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/gin-gonic/gin"
)

type ChangeLogHandler struct {
	svc *service.ChangeLogger
}

func NewChangeLogHandler(svc *service.ChangeLogger) *ChangeLogHandler {
	return &ChangeLogHandler{svc: svc}
}

// List GET /api/v1/changelogs
func (h *ChangeLogHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "target_code", "actor", "action")

	logs, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "변경 이력 조회 실패: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: logs, Pagination: NewPagination(page, pageSize, total)})
}

// changeLogRequest is the client-emitted entry shape. Clients stamp logged_at
// themselves; the server keeps whatever they sent.
type changeLogRequest struct {
	LoggedAt    string `json:"logged_at"`
	ActorTeam   string `json:"actor_team"`
	ActorName   string `json:"actor_name"`
	Action      string `json:"action" binding:"required"`
	TargetCode  string `json:"target_code" binding:"required"`
	Description string `json:"description"`
	BeforeValue string `json:"before_value"`
	AfterValue  string `json:"after_value"`
	FieldLabel  string `json:"field_label"`
	EntityTitle string `json:"entity_title"`
}

// Create POST /api/v1/changelogs
func (h *ChangeLogHandler) Create(c *gin.Context) {
	var req changeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	h.svc.Log(c.Request.Context(), entity.ChangeLog{
		LoggedAt:    req.LoggedAt,
		ActorTeam:   req.ActorTeam,
		ActorName:   req.ActorName,
		Action:      req.Action,
		TargetCode:  req.TargetCode,
		Description: req.Description,
		BeforeValue: req.BeforeValue,
		AfterValue:  req.AfterValue,
		FieldLabel:  req.FieldLabel,
		EntityTitle: req.EntityTitle,
	})
	// Appends are best-effort by contract, so this always reports success.
	Created(c, nil)
}
