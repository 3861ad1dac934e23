package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sleepless/internal/db"
	"sleepless/internal/models"
	"sleepless/internal/router"
	"sleepless/internal/services"
	"sleepless/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// 和 handlers 包里的列表缓存键保持一致
const postListCacheKey = "posts:list"

// setupTestServer 内存 SQLite + 完整路由
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// 每个测试一个独立的内存库；cache=shared 让连接池里的连接看到同一份数据
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := gdb.AutoMigrate(&models.Post{}, &models.DailyCount{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.DB = gdb

	// 清掉上一个测试留下的列表缓存
	utils.GetPostCache().Delete(postListCacheKey)

	quota := services.NewQuotaService(services.NewGormQuotaStore(gdb), services.DailyPostLimit)

	r := gin.New()
	store := cookie.NewStore([]byte("test_secret"))
	r.Use(sessions.Sessions("sleepless_session", store))
	router.RegisterRoutes(r, quota)
	return r
}

func seedPost(t *testing.T, pid, content string) {
	t.Helper()
	post := models.Post{Pid: pid, Content: content, Language: "en"}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("Failed to seed post %s: %v", pid, err)
	}
	utils.GetPostCache().Delete(postListCacheKey)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("Bad JSON response for %s %s: %v", method, path, err)
		}
	}
	return w, parsed
}

func TestHealth(t *testing.T) {
	r := setupTestServer(t)
	w, body := doJSON(t, r, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestCreatePostUpToDailyLimit(t *testing.T) {
	r := setupTestServer(t)

	// 前 5 帖成功
	for i := 1; i <= 5; i++ {
		payload := fmt.Sprintf(`{"content":"thought %d","userFingerprint":"fp-1"}`, i)
		w, body := doJSON(t, r, "POST", "/api/posts", payload)
		if w.Code != http.StatusCreated {
			t.Fatalf("Post %d: expected 201, got %d (%s)", i, w.Code, w.Body.String())
		}
		if body["id"] == nil || body["id"] == "" {
			t.Errorf("Post %d: missing id in response", i)
		}
		if body["isBookmarked"] != false {
			t.Errorf("Post %d: expected isBookmarked=false, got %v", i, body["isBookmarked"])
		}
	}

	// 第 6 帖被拒
	w, body := doJSON(t, r, "POST", "/api/posts", `{"content":"one too many","userFingerprint":"fp-1"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("6th post: expected 429, got %d", w.Code)
	}
	if body["remaining"] != float64(0) {
		t.Errorf("6th post: expected remaining 0, got %v", body["remaining"])
	}
	if body["count"] != float64(5) {
		t.Errorf("6th post: expected count 5, got %v", body["count"])
	}

	// 配额查询应该和发帖侧一致
	w, body = doJSON(t, r, "GET", "/api/daily-count/fp-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("daily-count: expected 200, got %d", w.Code)
	}
	if body["count"] != float64(5) || body["remaining"] != float64(0) {
		t.Errorf("daily-count: expected count=5 remaining=0, got %v", body)
	}

	// 别的指纹不受影响
	_, body = doJSON(t, r, "GET", "/api/daily-count/fp-2", "")
	if body["count"] != float64(0) || body["remaining"] != float64(5) {
		t.Errorf("fp-2 should have a fresh quota, got %v", body)
	}
}

func TestCreatePostValidation(t *testing.T) {
	r := setupTestServer(t)

	// 空内容
	w, _ := doJSON(t, r, "POST", "/api/posts", `{"content":"   ","userFingerprint":"fp-1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Blank content: expected 400, got %d", w.Code)
	}

	// 超长内容
	long := strings.Repeat("a", models.MaxContentLength+1)
	w, _ = doJSON(t, r, "POST", "/api/posts", fmt.Sprintf(`{"content":"%s","userFingerprint":"fp-1"}`, long))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Oversized content: expected 400, got %d", w.Code)
	}

	// HTML 会被剥掉，只留纯文本
	w, body := doJSON(t, r, "POST", "/api/posts", `{"content":"<b>hello</b> world","userFingerprint":"fp-1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	if body["content"] != "hello world" {
		t.Errorf("Expected sanitized content 'hello world', got %v", body["content"])
	}
}

func TestCreatePostSupportMessage(t *testing.T) {
	r := setupTestServer(t)

	w, body := doJSON(t, r, "POST", "/api/posts", `{"content":"i feel suicidal","userFingerprint":"fp-1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Post should still be created, got %d", w.Code)
	}
	if msg, ok := body["supportMessage"].(string); !ok || msg == "" {
		t.Error("Expected a supportMessage in the response")
	}

	// 普通内容没有话术字段
	_, body = doJSON(t, r, "POST", "/api/posts", `{"content":"big mood","userFingerprint":"fp-1"}`)
	if _, ok := body["supportMessage"]; ok {
		t.Error("Unexpected supportMessage on harmless content")
	}
}

func TestListPosts(t *testing.T) {
	r := setupTestServer(t)
	seedPost(t, "p1", "first")
	seedPost(t, "p2", "second")

	req := httptest.NewRequest("GET", "/api/posts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var posts []models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil {
		t.Fatalf("Bad response: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("Expected 2 posts, got %d", len(posts))
	}
}

func TestBookmarkToggle(t *testing.T) {
	r := setupTestServer(t)
	seedPost(t, "p1", "bookmark me")

	w, body := doJSON(t, r, "PATCH", "/api/posts/p1/bookmark", `{"isBookmarked":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if body["success"] != true {
		t.Errorf("Expected success=true, got %v", body["success"])
	}

	// 收藏列表里应该能看到
	req := httptest.NewRequest("GET", "/api/bookmarks", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var bookmarked []models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &bookmarked); err != nil {
		t.Fatalf("Bad response: %v", err)
	}
	if len(bookmarked) != 1 || bookmarked[0].Pid != "p1" {
		t.Errorf("Expected p1 in bookmarks, got %v", bookmarked)
	}

	// 取消收藏
	doJSON(t, r, "PATCH", "/api/posts/p1/bookmark", `{"isBookmarked":false}`)
	var post models.Post
	db.DB.Where("pid = ?", "p1").First(&post)
	if post.IsBookmarked {
		t.Error("Expected bookmark cleared")
	}

	// 不存在的帖子
	w, _ = doJSON(t, r, "PATCH", "/api/posts/nope/bookmark", `{"isBookmarked":true}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestAdminDelete(t *testing.T) {
	r := setupTestServer(t)
	seedPost(t, "p1", "delete me")

	// 未配置 ADMIN_KEY 时管理接口关闭
	t.Setenv("ADMIN_KEY", "")
	w, _ := doJSON(t, r, "DELETE", "/api/posts/p1", "")
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 with admin disabled, got %d", w.Code)
	}

	t.Setenv("ADMIN_KEY", "sesame")

	// 错误的 key
	req := httptest.NewRequest("DELETE", "/api/posts/p1", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", rec.Code)
	}

	// 正确的 key
	req = httptest.NewRequest("DELETE", "/api/posts/p1", nil)
	req.Header.Set("X-Admin-Key", "sesame")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var count int64
	db.DB.Model(&models.Post{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected post deleted, %d remain", count)
	}
}
