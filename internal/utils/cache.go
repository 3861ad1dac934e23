package utils

import (
	"time"

	"sleepless/internal/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// 帖子列表变动不频繁，缓存 1 分钟，写操作主动失效
const postCacheTTL = 1 * time.Minute

// PostCache 帖子列表的进程内缓存
// expirable LRU 自带 TTL，不用自己记过期时间
type PostCache struct {
	lists *expirable.LRU[string, []models.Post]
}

var postCacheInstance *PostCache

// GetPostCache 获取单例缓存实例
func GetPostCache() *PostCache {
	if postCacheInstance == nil {
		// 缓存键只有全量列表和收藏列表两类，容量给 16 绰绰有余
		postCacheInstance = &PostCache{
			lists: expirable.NewLRU[string, []models.Post](16, nil, postCacheTTL),
		}
	}
	return postCacheInstance
}

// Get 取缓存的帖子列表，过期或不存在时 ok=false
func (c *PostCache) Get(key string) ([]models.Post, bool) {
	return c.lists.Get(key)
}

// Set 缓存一份帖子列表
func (c *PostCache) Set(key string, posts []models.Post) {
	c.lists.Add(key, posts)
}

// Delete 主动失效指定列表
func (c *PostCache) Delete(key string) {
	c.lists.Remove(key)
}
