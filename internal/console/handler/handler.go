package handler

import (
	"errors"
	"strconv"

	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/gin-gonic/gin"
)

// Handlers groups every console handler behind one constructor.
type Handlers struct {
	Task       *TaskHandler
	Checklist  *ChecklistHandler
	KPI        *KPIHandler
	Hardware   *HardwareHandler
	User       *UserHandler
	Department *DepartmentHandler
	ChangeLog  *ChangeLogHandler
	Permission *PermissionHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Task:       NewTaskHandler(svc.Task),
		Checklist:  NewChecklistHandler(svc.Checklist),
		KPI:        NewKPIHandler(svc.KPI),
		Hardware:   NewHardwareHandler(svc.Hardware),
		User:       NewUserHandler(svc.User),
		Department: NewDepartmentHandler(svc.Department),
		ChangeLog:  NewChangeLogHandler(svc.ChangeLog),
		Permission: NewPermissionHandler(svc.Permission),
	}
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse wraps one page of rows.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(page, pageSize int, total int64) *Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: int(total), TotalPages: totalPages}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{Code: 0, Message: "success", Data: data})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{Code: code, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// serviceError maps a service failure onto the right envelope code.
func serviceError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, err.Error())
		return
	}
	InternalError(c, err.Error())
}

// GetUserID reads the authenticated user id set by the JWT middleware.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetActor reads the display identity the JWT middleware extracted from the
// token claims; change logs carry it verbatim.
func GetActor(c *gin.Context) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Get("user_name"); ok {
		actor.Name, _ = v.(string)
	}
	if v, ok := c.Get("team_name"); ok {
		actor.Team, _ = v.(string)
	}
	return actor
}

// GetRoles reads the role list the JWT middleware stored.
func GetRoles(c *gin.Context) []string {
	if v, ok := c.Get("roles"); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}

// GetPagination reads page/page_size query params. page_size is capped at 100
// so bulk readers can page the whole table without hammering it.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// collectFilters copies the whitelisted query params into a filter map.
func collectFilters(c *gin.Context, keys ...string) map[string]string {
	filters := make(map[string]string)
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			filters[key] = v
		}
	}
	return filters
}

// BatchDeleteRequest carries the ids of a multi-row delete.
type BatchDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}
