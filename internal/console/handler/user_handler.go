package handler

import (
	"errors"

	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/aimhigh31/work-ten-sub005/internal/console/storage"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "status", "role", "position", "team_name", "search")

	users, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "사용자 목록 조회 실패: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: users, Pagination: NewPagination(page, pageSize, total)})
}

// Get GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, u)
}

// Create POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	u, err := h.svc.Create(c.Request.Context(), GetUserID(c), GetActor(c), &req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, u)
}

// Update PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	u, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetActor(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, u)
}

// Delete DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetActor(c)); err != nil {
		serviceError(c, err)
		return
	}
	Success(c, nil)
}

// BatchDelete POST /api/v1/users/batch-delete
func (h *UserHandler) BatchDelete(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	Success(c, h.svc.BatchDelete(c.Request.Context(), req.IDs, GetActor(c)))
}

// CodeExists GET /api/v1/users/code-exists?code=USR-25-001
func (h *UserHandler) CodeExists(c *gin.Context) {
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

// UploadProfileImage POST /api/v1/users/:id/profile-image
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
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

	u, err := h.svc.SetProfileImage(c.Request.Context(), c.Param("id"),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, src)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedProfile) || errors.Is(err, storage.ErrTooLarge) {
			BadRequest(c, err.Error())
			return
		}
		serviceError(c, err)
		return
	}
	Success(c, u)
}
