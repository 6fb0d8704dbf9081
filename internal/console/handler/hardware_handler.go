package handler

import (
	"errors"

	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/aimhigh31/work-ten-sub005/internal/console/storage"
	"github.com/gin-gonic/gin"
)

type HardwareHandler struct {
	svc *service.HardwareService
}

func NewHardwareHandler(svc *service.HardwareService) *HardwareHandler {
	return &HardwareHandler{svc: svc}
}

// List GET /api/v1/hardware
func (h *HardwareHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "status", "vendor", "location", "assignee_name", "team_name", "search")

	assets, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "하드웨어 목록 조회 실패: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: assets, Pagination: NewPagination(page, pageSize, total)})
}

// Get GET /api/v1/hardware/:id
func (h *HardwareHandler) Get(c *gin.Context) {
	hw, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, hw)
}

// Create POST /api/v1/hardware
func (h *HardwareHandler) Create(c *gin.Context) {
	var req service.CreateHardwareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	hw, err := h.svc.Create(c.Request.Context(), GetUserID(c), GetActor(c), &req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, hw)
}

// Update PUT /api/v1/hardware/:id
func (h *HardwareHandler) Update(c *gin.Context) {
	var req service.UpdateHardwareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	hw, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetActor(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, hw)
}

// Delete DELETE /api/v1/hardware/:id
func (h *HardwareHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetActor(c)); err != nil {
		serviceError(c, err)
		return
	}
	Success(c, nil)
}

// BatchDelete POST /api/v1/hardware/batch-delete
func (h *HardwareHandler) BatchDelete(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	Success(c, h.svc.BatchDelete(c.Request.Context(), req.IDs, GetActor(c)))
}

// CodeExists GET /api/v1/hardware/code-exists?code=HW-25-001
func (h *HardwareHandler) CodeExists(c *gin.Context) {
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

// UploadAttachment POST /api/v1/hardware/:id/attachments
func (h *HardwareHandler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "업로드 파일이 없습니다: "+err.Error())
		return
	}
	if fileHeader.Size > storage.MaxUploadSize {
		BadRequest(c, "파일 크기는 5MB를 초과할 수 없습니다")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "업로드 파일 읽기 실패: "+err.Error())
		return
	}
	defer src.Close()

	att, err := h.svc.AddAttachment(c.Request.Context(), c.Param("id"), GetUserID(c),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, src)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			BadRequest(c, err.Error())
			return
		}
		serviceError(c, err)
		return
	}
	Created(c, att)
}

// DeleteAttachment DELETE /api/v1/hardware/:id/attachments/:attachmentId
func (h *HardwareHandler) DeleteAttachment(c *gin.Context) {
	if err := h.svc.DeleteAttachment(c.Request.Context(), c.Param("id"), c.Param("attachmentId")); err != nil {
		serviceError(c, err)
		return
	}
	Success(c, nil)
}
