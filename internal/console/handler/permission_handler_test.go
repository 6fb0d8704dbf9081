package handler

import (
	"net/http"
	"testing"

	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/aimhigh31/work-ten-sub005/internal/console/storage"
	"github.com/aimhigh31/work-ten-sub005/internal/console/testutil"
	"github.com/aimhigh31/work-ten-sub005/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupPermissionTest(t *testing.T) (*gin.Engine, *service.Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	store := storage.NewLocalStore(t.TempDir(), "/uploads")
	services := service.NewServices(repos, nil, store, zap.NewNop())
	handlers := NewHandlers(services)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/permissions/:routeKey", handlers.Permission.Check)
	api.POST("/menus", handlers.Permission.CreateMenu)
	api.PUT("/menus/:routeKey/permissions", handlers.Permission.Grant)

	// a write-gated probe route
	api.POST("/tasks",
		middleware.RequireWrite(services.Permission, "tasks"),
		handlers.Task.Create)

	return router, services
}

func TestPermissionMergesRoleGrants(t *testing.T) {
	router, _ := setupPermissionTest(t)
	admin := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/menus",
		map[string]interface{}{"route_key": "tasks", "label": "업무관리"}, admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("menu create failed: %s", w.Body.String())
	}

	// viewer reads, editor writes; a member holding both gets the union
	for _, grant := range []map[string]interface{}{
		{"role": "viewer", "can_read": true},
		{"role": "editor", "can_write": true},
	} {
		w := testutil.DoRequest(router, "PUT", "/api/v1/menus/tasks/permissions", grant, admin)
		if w.Code != http.StatusOK {
			t.Fatalf("grant failed: %s", w.Body.String())
		}
	}

	token := testutil.GenerateTestToken("user-2", "이영희", "운영팀", []string{"viewer", "editor"})
	w2 := testutil.DoRequest(router, "GET", "/api/v1/permissions/tasks", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if data["can_read"] != true || data["can_write"] != true {
		t.Errorf("Expected merged read+write, got %v", data)
	}
	if data["can_full"] != false {
		t.Errorf("Expected can_full false, got %v", data["can_full"])
	}
}

func TestPermissionUnknownRouteAllFalse(t *testing.T) {
	router, _ := setupPermissionTest(t)
	token := testutil.GenerateTestToken("user-3", "박지훈", "운영팀", []string{"viewer"})

	w := testutil.DoRequest(router, "GET", "/api/v1/permissions/no-such-route", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for unknown route, got %d", w.Code)
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["can_read"] != false || data["can_write"] != false || data["can_full"] != false {
		t.Errorf("Expected all-false for unknown route, got %v", data)
	}
}

func TestWriteGateBlocksReadOnlyRole(t *testing.T) {
	router, _ := setupPermissionTest(t)
	admin := testutil.DefaultTestToken()

	testutil.DoRequest(router, "POST", "/api/v1/menus",
		map[string]interface{}{"route_key": "tasks", "label": "업무관리"}, admin)
	testutil.DoRequest(router, "PUT", "/api/v1/menus/tasks/permissions",
		map[string]interface{}{"role": "viewer", "can_read": true}, admin)

	viewer := testutil.GenerateTestToken("user-4", "최민수", "운영팀", []string{"viewer"})
	w := testutil.DoRequest(router, "POST", "/api/v1/tasks",
		map[string]interface{}{"title": "차단 확인"}, viewer)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for read-only role, got %d: %s", w.Code, w.Body.String())
	}

	editor := testutil.GenerateTestToken("user-5", "한가람", "운영팀", []string{"editor"})
	testutil.DoRequest(router, "PUT", "/api/v1/menus/tasks/permissions",
		map[string]interface{}{"role": "editor", "can_write": true}, admin)
	w2 := testutil.DoRequest(router, "POST", "/api/v1/tasks",
		map[string]interface{}{"title": "허용 확인"}, editor)
	if w2.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for write role, got %d: %s", w2.Code, w2.Body.String())
	}
}
