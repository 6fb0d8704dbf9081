package handler

import (
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/gin-gonic/gin"
)

type ChecklistHandler struct {
	svc *service.ChecklistService
}

func NewChecklistHandler(svc *service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{svc: svc}
}

// List GET /api/v1/checklists
func (h *ChecklistHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "status", "cycle_type", "category", "assignee_name", "team_name", "search")

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "체크리스트 목록 조회 실패: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: items, Pagination: NewPagination(page, pageSize, total)})
}

// Get GET /api/v1/checklists/:id
func (h *ChecklistHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, item)
}

// Create POST /api/v1/checklists
func (h *ChecklistHandler) Create(c *gin.Context) {
	var req service.CreateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	item, err := h.svc.Create(c.Request.Context(), GetUserID(c), GetActor(c), &req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, item)
}

// Update PUT /api/v1/checklists/:id
func (h *ChecklistHandler) Update(c *gin.Context) {
	var req service.UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetActor(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, item)
}

// Delete DELETE /api/v1/checklists/:id
func (h *ChecklistHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetActor(c)); err != nil {
		serviceError(c, err)
		return
	}
	Success(c, nil)
}

// BatchDelete POST /api/v1/checklists/batch-delete
func (h *ChecklistHandler) BatchDelete(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	Success(c, h.svc.BatchDelete(c.Request.Context(), req.IDs, GetActor(c)))
}

// CodeExists GET /api/v1/checklists/code-exists?code=CHK-25-001
func (h *ChecklistHandler) CodeExists(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		BadRequest(c, "code 파라미터가 필요합니다")
		return
	}
	exists, err := h.svc.CodeExists(c.Request.Context(), code)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"exists": exists})
}
