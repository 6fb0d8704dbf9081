package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/aimhigh31/work-ten-sub005/internal/console/storage"
	"github.com/aimhigh31/work-ten-sub005/internal/console/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupConsoleTest(t *testing.T) (*gorm.DB, *gin.Engine, *service.Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	store := storage.NewLocalStore(t.TempDir(), "/uploads")
	services := service.NewServices(repos, nil, store, zap.NewNop())
	handlers := NewHandlers(services)

	api := testutil.AuthGroup(router, "/api/v1")

	tasks := api.Group("/tasks")
	tasks.GET("", handlers.Task.List)
	tasks.GET("/code-exists", handlers.Task.CodeExists)
	tasks.GET("/:id", handlers.Task.Get)
	tasks.POST("", handlers.Task.Create)
	tasks.PUT("/:id", handlers.Task.Update)
	tasks.DELETE("/:id", handlers.Task.Delete)
	tasks.POST("/batch-delete", handlers.Task.BatchDelete)

	changelogs := api.Group("/changelogs")
	changelogs.GET("", handlers.ChangeLog.List)
	changelogs.POST("", handlers.ChangeLog.Create)

	return db, router, services
}

func TestTaskCreateGeneratesSequentialCodes(t *testing.T) {
	_, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()
	yy := time.Now().Format("06")

	for i, want := range []string{
		fmt.Sprintf("TASK-%s-001", yy),
		fmt.Sprintf("TASK-%s-002", yy),
	} {
		w := testutil.DoRequest(router, "POST", "/api/v1/tasks",
			map[string]interface{}{"title": fmt.Sprintf("배포 점검 %d", i+1)}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		resp := testutil.ParseResponse(w)
		data := resp["data"].(map[string]interface{})
		if data["code"] != want {
			t.Errorf("Expected code %s, got %v", want, data["code"])
		}
		if data["status"] != "pending" {
			t.Errorf("Expected default status pending, got %v", data["status"])
		}
	}
}

func TestTaskListNewestFirst(t *testing.T) {
	_, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()

	for _, title := range []string{"첫번째", "두번째", "세번째"} {
		w := testutil.DoRequest(router, "POST", "/api/v1/tasks",
			map[string]interface{}{"title": title}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("create failed: %s", w.Body.String())
		}
	}

	w := testutil.DoRequest(router, "GET", "/api/v1/tasks?page=1&page_size=10", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["title"] != "세번째" {
		t.Errorf("Expected newest first, got %v", first["title"])
	}
	pagination := data["pagination"].(map[string]interface{})
	if pagination["total"] != float64(3) {
		t.Errorf("Expected total 3, got %v", pagination["total"])
	}
}

func TestTaskListFilters(t *testing.T) {
	_, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()

	seed := []map[string]interface{}{
		{"title": "릴리즈 준비", "status": "in_progress", "assignee_name": "박지훈", "team_name": "개발1팀"},
		{"title": "보안 점검", "status": "pending", "assignee_name": "이영희", "team_name": "개발1팀"},
		{"title": "장비 반납", "status": "in_progress", "assignee_name": "이영희", "team_name": "운영팀"},
	}
	for _, body := range seed {
		w := testutil.DoRequest(router, "POST", "/api/v1/tasks", body, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("create failed: %s", w.Body.String())
		}
	}

	cases := []struct {
		query string
		want  int
	}{
		{"status=in_progress", 2},
		{"assignee_name=이영희", 2},
		{"team_name=운영팀", 1},
		{"status=in_progress&team_name=개발1팀", 1},
		{"team_name=없는팀", 0},
	}
	for _, tc := range cases {
		w := testutil.DoRequest(router, "GET", "/api/v1/tasks?"+tc.query, nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("list %s failed: %s", tc.query, w.Body.String())
		}
		data := testutil.ParseResponse(w)["data"].(map[string]interface{})
		if items := data["items"].([]interface{}); len(items) != tc.want {
			t.Errorf("Filter %s: expected %d items, got %d", tc.query, tc.want, len(items))
		}
	}
}

func TestTaskCodeNotReusedAfterDelete(t *testing.T) {
	_, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()
	yy := time.Now().Format("06")

	var lastID string
	for i := 1; i <= 3; i++ {
		w := testutil.DoRequest(router, "POST", "/api/v1/tasks",
			map[string]interface{}{"title": fmt.Sprintf("순번 확인 %d", i)}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("create failed: %s", w.Body.String())
		}
		lastID = testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
	}

	w := testutil.DoRequest(router, "DELETE", "/api/v1/tasks/"+lastID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %s", w.Body.String())
	}

	// The deleted row keeps TASK-YY-003; the next create must move past it.
	w2 := testutil.DoRequest(router, "POST", "/api/v1/tasks",
		map[string]interface{}{"title": "순번 확인 4"}, token)
	if w2.Code != http.StatusCreated {
		t.Fatalf("create after delete failed: %s", w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if want := fmt.Sprintf("TASK-%s-004", yy); data["code"] != want {
		t.Errorf("Expected code %s after delete, got %v", want, data["code"])
	}
}

func TestTaskUpdateLogsEachChangedField(t *testing.T) {
	db, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/tasks",
		map[string]interface{}{"title": "서버 이전", "assignee_name": "박지훈"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %s", w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := data["id"].(string)
	code := data["code"].(string)

	status := "in_progress"
	assignee := "이영희"
	w2 := testutil.DoRequest(router, "PUT", "/api/v1/tasks/"+id,
		map[string]interface{}{"status": status, "assignee_name": assignee}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("update failed: %s", w2.Body.String())
	}

	var count int64
	db.Table("console_change_logs").
		Where("target_code = ? AND action = ?", code, "수정").
		Count(&count)
	if count != 2 {
		t.Fatalf("Expected 2 field change entries, got %d", count)
	}

	var labels []string
	db.Table("console_change_logs").
		Where("target_code = ? AND action = ?", code, "수정").
		Pluck("field_label", &labels)
	seen := map[string]bool{}
	for _, l := range labels {
		seen[l] = true
	}
	if !seen["상태"] || !seen["담당자"] {
		t.Errorf("Expected 상태 and 담당자 entries, got %v", labels)
	}
}

func TestTaskBatchDeletePartialSuccess(t *testing.T) {
	_, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()

	var ids []string
	for _, title := range []string{"정리 1", "정리 2"} {
		w := testutil.DoRequest(router, "POST", "/api/v1/tasks",
			map[string]interface{}{"title": title}, token)
		data := testutil.ParseResponse(w)["data"].(map[string]interface{})
		ids = append(ids, data["id"].(string))
	}

	w := testutil.DoRequest(router, "POST", "/api/v1/tasks/batch-delete",
		map[string]interface{}{"ids": []string{ids[0], "no-such-id", ids[1]}}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	deleted := data["deleted"].([]interface{})
	failed := data["failed"].([]interface{})
	if len(deleted) != 2 {
		t.Errorf("Expected 2 deleted, got %d", len(deleted))
	}
	if len(failed) != 1 || failed[0] != "no-such-id" {
		t.Errorf("Expected no-such-id to fail, got %v", failed)
	}

	// Survivor check: everything listed was really removed
	w2 := testutil.DoRequest(router, "GET", "/api/v1/tasks", nil, token)
	listData := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if items := listData["items"].([]interface{}); len(items) != 0 {
		t.Errorf("Expected empty list after batch delete, got %d items", len(items))
	}
}

func TestTaskCodeExists(t *testing.T) {
	_, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/tasks",
		map[string]interface{}{"title": "점검"}, token)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	code := data["code"].(string)

	w2 := testutil.DoRequest(router, "GET", "/api/v1/tasks/code-exists?code="+code, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w2.Code)
	}
	if exists := testutil.ParseResponse(w2)["data"].(map[string]interface{})["exists"]; exists != true {
		t.Errorf("Expected exists=true for %s", code)
	}

	w3 := testutil.DoRequest(router, "GET", "/api/v1/tasks/code-exists?code=TASK-99-999", nil, token)
	if exists := testutil.ParseResponse(w3)["data"].(map[string]interface{})["exists"]; exists != false {
		t.Errorf("Expected exists=false for unused code")
	}
}

func TestTaskRequiresAuth(t *testing.T) {
	_, router, _ := setupConsoleTest(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/tasks", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}
