package handler

import (
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	svc *service.PermissionService
}

func NewPermissionHandler(svc *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{svc: svc}
}

// Check GET /api/v1/permissions/:routeKey
//
// Answers for the calling session's roles. Unknown routes come back
// all-false, never 404, so clients can probe menus safely.
func (h *PermissionHandler) Check(c *gin.Context) {
	grant, err := h.svc.Resolve(c.Request.Context(), c.Param("routeKey"), GetRoles(c))
	if err != nil {
		InternalError(c, "권한 조회 실패: "+err.Error())
		return
	}
	Success(c, grant)
}

// Menus GET /api/v1/menus
func (h *PermissionHandler) Menus(c *gin.Context) {
	menus, err := h.svc.Menus(c.Request.Context())
	if err != nil {
		InternalError(c, "메뉴 조회 실패: "+err.Error())
		return
	}
	Success(c, gin.H{"items": menus})
}

type createMenuRequest struct {
	RouteKey  string `json:"route_key" binding:"required"`
	Label     string `json:"label" binding:"required"`
	ParentID  string `json:"parent_id"`
	SortOrder int    `json:"sort_order"`
}

// CreateMenu POST /api/v1/menus
func (h *PermissionHandler) CreateMenu(c *gin.Context) {
	var req createMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	menu, err := h.svc.CreateMenu(c.Request.Context(), req.RouteKey, req.Label, req.ParentID, req.SortOrder)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, menu)
}

type grantRequest struct {
	Role     string `json:"role" binding:"required"`
	CanRead  bool   `json:"can_read"`
	CanWrite bool   `json:"can_write"`
	CanFull  bool   `json:"can_full"`
}

// Grant PUT /api/v1/menus/:routeKey/permissions
func (h *PermissionHandler) Grant(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	if err := h.svc.Grant(c.Request.Context(), c.Param("routeKey"), req.Role, req.CanRead, req.CanWrite, req.CanFull); err != nil {
		serviceError(c, err)
		return
	}
	Success(c, nil)
}
