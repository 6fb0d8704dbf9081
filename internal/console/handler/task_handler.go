package handler

import (
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "status", "assignee_name", "team_name", "search", "date_from", "date_to")

	tasks, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "업무 목록 조회 실패: "+err.Error())
		return
	}
	Success(c, ListResponse{Items: tasks, Pagination: NewPagination(page, pageSize, total)})
}

// Get GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, task)
}

// Create POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	task, err := h.svc.Create(c.Request.Context(), GetUserID(c), GetActor(c), &req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, task)
}

// Update PUT /api/v1/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	task, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetActor(c), &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	Success(c, task)
}

// Delete DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetActor(c)); err != nil {
		serviceError(c, err)
		return
	}
	Success(c, nil)
}

// BatchDelete POST /api/v1/tasks/batch-delete
func (h *TaskHandler) BatchDelete(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "잘못된 요청: "+err.Error())
		return
	}
	outcome := h.svc.BatchDelete(c.Request.Context(), req.IDs, GetActor(c))
	Success(c, outcome)
}

// CodeExists GET /api/v1/tasks/code-exists?code=TASK-25-001
func (h *TaskHandler) CodeExists(c *gin.Context) {
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
