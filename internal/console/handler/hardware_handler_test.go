package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/aimhigh31/work-ten-sub005/internal/console/testutil"
	"github.com/gin-gonic/gin"
)

func setupHardwareTest(t *testing.T) *gin.Engine {
	t.Helper()
	_, router, services := setupConsoleTest(t)
	handlers := NewHandlers(services)

	api := testutil.AuthGroup(router, "/api/v1")
	hardware := api.Group("/hardware")
	hardware.GET("", handlers.Hardware.List)
	hardware.POST("", handlers.Hardware.Create)
	hardware.GET("/:id", handlers.Hardware.Get)
	hardware.POST("/:id/attachments", handlers.Hardware.UploadAttachment)
	hardware.DELETE("/:id/attachments/:attachmentId", handlers.Hardware.DeleteAttachment)

	users := api.Group("/users")
	users.POST("", handlers.User.Create)
	users.POST("/:id/profile-image", handlers.User.UploadProfileImage)

	return router
}

// doUpload posts one file as multipart form data.
func doUpload(router *gin.Engine, path, fileName, contentType string, content []byte, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, _ := mw.CreatePart(header)
	part.Write(content)
	mw.Close()

	req, _ := http.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHardwareAttachmentUpload(t *testing.T) {
	router := setupHardwareTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/hardware",
		map[string]interface{}{"asset_name": "개발용 노트북", "model": "그램 17"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("hardware create failed: %s", w.Body.String())
	}
	hwID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := doUpload(router, "/api/v1/hardware/"+hwID+"/attachments",
		"warranty.pdf", "application/pdf", []byte("%PDF-1.4 dummy"), token)
	if w2.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w2.Code, w2.Body.String())
	}
	att := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if att["file_name"] != "warranty.pdf" {
		t.Errorf("Expected file_name warranty.pdf, got %v", att["file_name"])
	}
	attID := att["id"].(string)

	// attachment shows up on the asset
	w3 := testutil.DoRequest(router, "GET", "/api/v1/hardware/"+hwID, nil, token)
	hw := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	attachments := hw["attachments"].([]interface{})
	if len(attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(attachments))
	}

	// delete detaches it
	w4 := testutil.DoRequest(router, "DELETE", "/api/v1/hardware/"+hwID+"/attachments/"+attID, nil, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w4.Code, w4.Body.String())
	}
	w5 := testutil.DoRequest(router, "GET", "/api/v1/hardware/"+hwID, nil, token)
	hw = testutil.ParseResponse(w5)["data"].(map[string]interface{})
	if attachments, ok := hw["attachments"].([]interface{}); ok && len(attachments) != 0 {
		t.Errorf("Expected no attachments after delete, got %d", len(attachments))
	}
}

func TestHardwareListFilters(t *testing.T) {
	router := setupHardwareTest(t)
	token := testutil.DefaultTestToken()

	seed := []map[string]interface{}{
		{"asset_name": "노트북 A", "vendor": "LG전자", "location": "본사3층", "assignee_name": "박지훈"},
		{"asset_name": "노트북 B", "vendor": "삼성전자", "location": "본사3층", "assignee_name": "이영희"},
		{"asset_name": "모니터 A", "vendor": "LG전자", "location": "지사1층", "assignee_name": "이영희"},
	}
	for _, body := range seed {
		w := testutil.DoRequest(router, "POST", "/api/v1/hardware", body, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("create failed: %s", w.Body.String())
		}
	}

	cases := []struct {
		query string
		want  int
	}{
		{"vendor=LG전자", 2},
		{"location=본사3층", 2},
		{"assignee_name=이영희", 2},
		{"vendor=LG전자&location=지사1층", 1},
	}
	for _, tc := range cases {
		w := testutil.DoRequest(router, "GET", "/api/v1/hardware?"+tc.query, nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("list %s failed: %s", tc.query, w.Body.String())
		}
		data := testutil.ParseResponse(w)["data"].(map[string]interface{})
		if items := data["items"].([]interface{}); len(items) != tc.want {
			t.Errorf("Filter %s: expected %d items, got %d", tc.query, tc.want, len(items))
		}
	}
}

func TestProfileImageRejectsUnsupportedType(t *testing.T) {
	router := setupHardwareTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/users",
		map[string]interface{}{"name": "이영희", "team_name": "운영팀"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("user create failed: %s", w.Body.String())
	}
	userID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := doUpload(router, "/api/v1/users/"+userID+"/profile-image",
		"avatar.bmp", "image/bmp", []byte{0x42, 0x4D}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for bmp profile image, got %d: %s", w2.Code, w2.Body.String())
	}

	w3 := doUpload(router, "/api/v1/users/"+userID+"/profile-image",
		"avatar.png", "image/png", []byte{0x89, 0x50, 0x4E, 0x47}, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200 for png profile image, got %d: %s", w3.Code, w3.Body.String())
	}
	u := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	if u["profile_image_url"] == "" {
		t.Errorf("Expected profile_image_url to be set")
	}
}
