package service

import (
	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/aimhigh31/work-ten-sub005/internal/console/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services wires every console service behind one constructor.
type Services struct {
	Task       *TaskService
	Checklist  *ChecklistService
	KPI        *KPIService
	Hardware   *HardwareService
	User       *UserService
	Department *DepartmentService
	ChangeLog  *ChangeLogger
	Permission *PermissionService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, store storage.Store, logger *zap.Logger) *Services {
	changeLog := NewChangeLogger(repos.ChangeLog, logger)
	return &Services{
		Task:       NewTaskService(repos.Task, changeLog, rdb),
		Checklist:  NewChecklistService(repos.Checklist, changeLog, rdb),
		KPI:        NewKPIService(repos.KPI, changeLog, rdb),
		Hardware:   NewHardwareService(repos.Hardware, changeLog, rdb, store),
		User:       NewUserService(repos.User, changeLog, rdb, store),
		Department: NewDepartmentService(repos.Department, changeLog, rdb),
		ChangeLog:  changeLog,
		Permission: NewPermissionService(repos.Menu, rdb),
	}
}
