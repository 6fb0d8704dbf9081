package handler

import (
	"net/http"
	"testing"

	"github.com/aimhigh31/work-ten-sub005/internal/console/testutil"
)

func TestChangeLogAppendAndList(t *testing.T) {
	_, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/changelogs",
		map[string]interface{}{
			"logged_at":    "2025-08-29 14:02",
			"actor_team":   "개발1팀",
			"actor_name":   "김철수",
			"action":       "수정",
			"target_code":  "TASK-25-003",
			"description":  "상태: pending → done",
			"before_value": "pending",
			"after_value":  "done",
			"field_label":  "상태",
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(router, "GET", "/api/v1/changelogs?target_code=TASK-25-003", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(items))
	}
	entry := items[0].(map[string]interface{})
	if entry["logged_at"] != "2025-08-29 14:02" {
		t.Errorf("Expected client-stamped logged_at kept, got %v", entry["logged_at"])
	}
	if entry["field_label"] != "상태" {
		t.Errorf("Expected field_label 상태, got %v", entry["field_label"])
	}
}

func TestChangeLogStampsMissingLoggedAt(t *testing.T) {
	db, router, _ := setupConsoleTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/changelogs",
		map[string]interface{}{
			"action":      "등록",
			"target_code": "HW-25-001",
			"description": "개발용 노트북",
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var stamps []string
	db.Table("console_change_logs").
		Where("target_code = ?", "HW-25-001").
		Pluck("logged_at", &stamps)
	if len(stamps) != 1 || len(stamps[0]) != 16 {
		t.Errorf("Expected one server-stamped YYYY-MM-DD HH:MM entry, got %v", stamps)
	}
}
