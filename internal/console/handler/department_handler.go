package handler

import (
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	svc *service.DepartmentService
}

func NewDepartmentHandler(svc *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// List GET /api/v1/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "status", "parent_name", "manager_name", "search")

	depts, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "부서 목록 조회 실패: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: depts, Pagination: NewPagination(page, pageSize, total)})
}

// Get GET /api/v1/departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	dept, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, dept)
}

// Create POST /api/v1/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	dept, err := h.svc.Create(c.Request.Context(), GetUserID(c), GetActor(c), &req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, dept)
}

// Update PUT /api/v1/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req service.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	dept, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetActor(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, dept)
}

// Delete DELETE /api/v1/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetActor(c)); err != nil {
		serviceError(c, err)
		return
	}
	Success(c, nil)
}

// BatchDelete POST /api/v1/departments/batch-delete
func (h *DepartmentHandler) BatchDelete(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	Success(c, h.svc.BatchDelete(c.Request.Context(), req.IDs, GetActor(c)))
}

// CodeExists GET /api/v1/departments/code-exists?code=DEPT-25-001
func (h *DepartmentHandler) CodeExists(c *gin.Context) {
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
