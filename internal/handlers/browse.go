package handlers

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"sleepless/internal/models"
	"sleepless/internal/rotation"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// 浏览状态在会话里的存储键，两个独立的 JSON 数组
const (
	recentlyShownKey = "recently_shown"
	postHistoryKey   = "post_history"
)

// BrowseHandler 服务端实例化的轮换引擎：
// 每个浏览者的最近展示窗口和浏览历史存在 cookie 会话里
type BrowseHandler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewBrowseHandler() *BrowseHandler {
	return &BrowseHandler{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// sessionString 从会话里取字符串值，类型不对当空串
func sessionString(session sessions.Session, key string) string {
	raw, _ := session.Get(key).(string)
	return raw
}

func findPost(posts []models.Post, pid string) (models.Post, bool) {
	for _, p := range posts {
		if p.Pid == pid {
			return p, true
		}
	}
	return models.Post{}, false
}

func poolIDs(posts []models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.Pid
	}
	return ids
}

// selectNext 加锁做一次随机选取，rand.Rand 不是并发安全的
func (h *BrowseHandler) selectNext(pool []string, w *rotation.Window) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return rotation.SelectNext(pool, w, h.rng)
}

// Next 向前浏览：排除最近展示过的帖子随机选一个，并记入历史
func (h *BrowseHandler) Next(c *gin.Context) {
	posts := loadPosts()
	if len(posts) == 0 {
		// 池子为空是空态不是错误
		c.JSON(http.StatusOK, gin.H{"post": nil})
		return
	}

	session := sessions.Default(c)
	window := rotation.RestoreWindow(sessionString(session, recentlyShownKey), rotation.DefaultWindowBound)
	history := rotation.RestoreHistory(sessionString(session, postHistoryKey), rotation.DefaultHistoryBound)

	pid, ok := h.selectNext(poolIDs(posts), window)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"post": nil})
		return
	}
	history.Advance(pid)

	session.Set(recentlyShownKey, window.Encode())
	session.Set(postHistoryKey, history.Encode())
	if err := session.Save(); err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to save browse state")
		return
	}

	post, _ := findPost(posts, pid)
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Previous 向后浏览：严格按历史回退到真正看过的帖子
// 历史不足（或帖子已被删除）时显式降级为随机选取，retraced=false
func (h *BrowseHandler) Previous(c *gin.Context) {
	posts := loadPosts()
	if len(posts) == 0 {
		c.JSON(http.StatusOK, gin.H{"post": nil, "retraced": false})
		return
	}

	session := sessions.Default(c)
	window := rotation.RestoreWindow(sessionString(session, recentlyShownKey), rotation.DefaultWindowBound)
	history := rotation.RestoreHistory(sessionString(session, postHistoryKey), rotation.DefaultHistoryBound)

	retraced := false
	var post models.Post
	if pid, ok := history.Previous(); ok {
		if found, exists := findPost(posts, pid); exists {
			post = found
			retraced = true
		}
	}
	if !retraced {
		// 降级路径：和向前浏览一样选一个，并记入历史
		pid, ok := h.selectNext(poolIDs(posts), window)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"post": nil, "retraced": false})
			return
		}
		history.Advance(pid)
		post, _ = findPost(posts, pid)
	}

	session.Set(recentlyShownKey, window.Encode())
	session.Set(postHistoryKey, history.Encode())
	if err := session.Save(); err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to save browse state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "retraced": retraced})
}
