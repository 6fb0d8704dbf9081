package handler

import (
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/gin-gonic/gin"
)

type KPIHandler struct {
	svc *service.KPIService
}

func NewKPIHandler(svc *service.KPIService) *KPIHandler {
	return &KPIHandler{svc: svc}
}

// List GET /api/v1/kpis
func (h *KPIHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "status", "period", "owner_name", "team_name", "search")

	records, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "KPI 목록 조회 실패: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: records, Pagination: NewPagination(page, pageSize, total)})
}

// Get GET /api/v1/kpis/:id
func (h *KPIHandler) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, rec)
}

// Create POST /api/v1/kpis
func (h *KPIHandler) Create(c *gin.Context) {
	var req service.CreateKPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), GetUserID(c), GetActor(c), &req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, rec)
}

// Update PUT /api/v1/kpis/:id
func (h *KPIHandler) Update(c *gin.Context) {
	var req service.UpdateKPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetActor(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, rec)
}

// Delete DELETE /api/v1/kpis/:id
func (h *KPIHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetActor(c)); err != nil {
		serviceError(c, err)
		return
	}
	Success(c, nil)
}

// BatchDelete POST /api/v1/kpis/batch-delete
func (h *KPIHandler) BatchDelete(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	Success(c, h.svc.BatchDelete(c.Request.Context(), req.IDs, GetActor(c)))
}

// CodeExists GET /api/v1/kpis/code-exists?code=KPI-25-001
func (h *KPIHandler) CodeExists(c *gin.Context) {
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
