package handlers

import (
	"errors"
	"html"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"sleepless/internal/db"
	"sleepless/internal/models"
	"sleepless/internal/services"
	"sleepless/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const postListCacheKey = "posts:list"

// 列表最多返回最近 500 条
const postListLimit = 500

type PostHandler struct {
	quota    *services.QuotaService
	sanitize *bluemonday.Policy
}

func NewPostHandler(quota *services.QuotaService) *PostHandler {
	return &PostHandler{
		quota: quota,
		// 板子只收纯文本，HTML 全部剥掉
		sanitize: bluemonday.StrictPolicy(),
	}
}

// loadPosts 取最近的帖子列表，带缓存
func loadPosts() []models.Post {
	if posts, ok := utils.GetPostCache().Get(postListCacheKey); ok {
		return posts
	}

	var posts []models.Post
	db.DB.Order("created_at DESC").Limit(postListLimit).Find(&posts)

	utils.GetPostCache().Set(postListCacheKey, posts)
	return posts
}

// List 全部帖子，最新在前
func (h *PostHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, loadPosts())
}

type createPostRequest struct {
	Content         string `json:"content"`
	Language        string `json:"language"`
	UserFingerprint string `json:"userFingerprint"`
}

// Create 发布新帖子
// 配额加一和帖子落库在同一个事务里：要么都成，要么都不成
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 剥掉 HTML 后再去首尾空白
	content := strings.TrimSpace(html.UnescapeString(h.sanitize.Sanitize(req.Content)))
	if content == "" {
		JSONError(c, http.StatusBadRequest, "Content is required")
		return
	}
	if utf8.RuneCountInString(content) > models.MaxContentLength {
		JSONError(c, http.StatusBadRequest, "Content is too long")
		return
	}

	language := req.Language
	if language == "" {
		language = utils.DetectLanguage(content)
	}

	fingerprint := utils.NormalizeFingerprint(req.UserFingerprint)
	now := time.Now()

	post := models.Post{
		Pid:      utils.RandomPid(8),
		Content:  content,
		Language: language,
	}

	var status services.QuotaStatus
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		count, err := h.quota.InTx(tx).RecordPost(fingerprint, now)
		if err != nil {
			status = services.QuotaStatus{Count: count, Limit: h.quota.Limit()}
			return err
		}
		return tx.Create(&post).Error
	})
	if errors.Is(err, services.ErrQuotaExceeded) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Daily posting limit reached",
			"count":     status.Count,
			"limit":     status.Limit,
			"remaining": 0,
		})
		return
	}
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	utils.GetPostCache().Delete(postListCacheKey)

	resp := gin.H{
		"id":           post.Pid,
		"content":      post.Content,
		"language":     post.Language,
		"timestamp":    post.CreatedAt,
		"isBookmarked": post.IsBookmarked,
	}
	// 命中关怀短语时附一句话术，帖子本身照常发布
	if services.NeedsSupport(content) {
		resp["supportMessage"] = services.SupportMessage()
	}
	c.JSON(http.StatusCreated, resp)
}

type bookmarkRequest struct {
	IsBookmarked bool `json:"isBookmarked"`
}

// ToggleBookmark 设置帖子的收藏状态
func (h *PostHandler) ToggleBookmark(c *gin.Context) {
	pid := c.Param("pid")

	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := db.DB.Model(&models.Post{}).
		Where("pid = ?", pid).
		Update("is_bookmarked", req.IsBookmarked)
	if result.Error != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to update bookmark")
		return
	}
	if result.RowsAffected == 0 {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	utils.GetPostCache().Delete(postListCacheKey)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListBookmarks 已收藏的帖子，最新在前
func (h *PostHandler) ListBookmarks(c *gin.Context) {
	var posts []models.Post
	db.DB.Where("is_bookmarked = ?", true).
		Order("created_at DESC").
		Limit(postListLimit).
		Find(&posts)
	c.JSON(http.StatusOK, posts)
}

// DailyCount 查询某个指纹当日的配额情况
func (h *PostHandler) DailyCount(c *gin.Context) {
	fingerprint := utils.NormalizeFingerprint(c.Param("fingerprint"))
	c.JSON(http.StatusOK, h.quota.CheckQuota(fingerprint, time.Now()))
}

// Delete 管理员删除帖子
func (h *PostHandler) Delete(c *gin.Context) {
	pid := c.Param("pid")

	result := db.DB.Where("pid = ?", pid).Delete(&models.Post{})
	if result.Error != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	if result.RowsAffected == 0 {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}

	utils.GetPostCache().Delete(postListCacheKey)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
