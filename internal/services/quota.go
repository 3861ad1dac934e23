package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"
)

// DailyPostLimit 每个匿名身份每个自然日的发帖上限
const DailyPostLimit = 5

// DateLayout 配额按自然日计（服务器本地时区），不是滚动 24 小时窗口
const DateLayout = "2006-01-02"

// ErrQuotaExceeded 当日配额已用完
var ErrQuotaExceeded = errors.New("daily posting limit reached")

// QuotaStatus 某个身份当日的配额情况
type QuotaStatus struct {
	Count     int `json:"count"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// QuotaStore 配额计数的持久化接口
// IncrementIfBelow 必须是原子的"检查并加一"：两个并发请求不能都挤过
// 最后一个名额。返回新计数和是否成功。
type QuotaStore interface {
	GetCount(fingerprint, date string) (int, error)
	IncrementIfBelow(fingerprint, date string, limit int) (int, bool, error)
}

// GormQuotaStore 服务端权威实现，daily_counts 表一行对应 (fingerprint, date)
type GormQuotaStore struct {
	db *gorm.DB
}

func NewGormQuotaStore(db *gorm.DB) *GormQuotaStore {
	return &GormQuotaStore{db: db}
}

func (s *GormQuotaStore) GetCount(fingerprint, date string) (int, error) {
	var count int
	err := s.db.Raw(
		"SELECT count FROM daily_counts WHERE fingerprint = ? AND date = ?",
		fingerprint, date,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	// 没有行就是 0，昨天的行留着不管
	return count, nil
}

// IncrementIfBelow 用条件 upsert 一条 SQL 完成检查加一
// 冲突时只有 count < limit 才会更新，没有行返回即视为配额已满
func (s *GormQuotaStore) IncrementIfBelow(fingerprint, date string, limit int) (int, bool, error) {
	var count int
	tx := s.db.Raw(`
		INSERT INTO daily_counts (fingerprint, date, count) VALUES (?, ?, 1)
		ON CONFLICT (fingerprint, date) DO UPDATE SET count = count + 1
		WHERE daily_counts.count < ?
		RETURNING count`,
		fingerprint, date, limit,
	).Scan(&count)
	if tx.Error != nil {
		return 0, false, tx.Error
	}
	if tx.RowsAffected == 0 {
		// 没抢到名额，把当前计数查回来给调用方
		current, err := s.GetCount(fingerprint, date)
		if err != nil {
			current = limit
		}
		return current, false, nil
	}
	return count, true, nil
}

// MemoryQuotaStore 内存实现，客户端本地镜像和存储故障时的降级后备
type MemoryQuotaStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryQuotaStore() *MemoryQuotaStore {
	return &MemoryQuotaStore{counts: make(map[string]int)}
}

func (s *MemoryQuotaStore) key(fingerprint, date string) string {
	return fingerprint + "|" + date
}

func (s *MemoryQuotaStore) GetCount(fingerprint, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[s.key(fingerprint, date)], nil
}

func (s *MemoryQuotaStore) IncrementIfBelow(fingerprint, date string, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(fingerprint, date)
	if s.counts[k] >= limit {
		return s.counts[k], false, nil
	}
	s.counts[k]++
	return s.counts[k], true, nil
}

// QuotaService 按 (身份, 自然日) 限制发帖的速率限制器
// 同一套逻辑配不同的 QuotaStore 即可做服务端权威版或客户端本地版
type QuotaService struct {
	store    QuotaStore
	fallback *MemoryQuotaStore
	limit    int
}

// NewQuotaService 创建配额服务，limit <= 0 时用默认上限
func NewQuotaService(store QuotaStore, limit int) *QuotaService {
	if limit <= 0 {
		limit = DailyPostLimit
	}
	return &QuotaService{
		store:    store,
		fallback: NewMemoryQuotaStore(),
		limit:    limit,
	}
}

// CheckQuota 查询某身份在 now 所在自然日的配额情况，无副作用
// 存储不可用时按"本会话 0 次"降级：既不崩溃，也不会放开无限发帖
// （后续 RecordPost 仍会经过内存后备计数）
func (s *QuotaService) CheckQuota(fingerprint string, now time.Time) QuotaStatus {
	date := now.Format(DateLayout)
	count, err := s.store.GetCount(fingerprint, date)
	if err != nil {
		log.Printf("Quota store unavailable, falling back to session counts: %v", err)
		count, _ = s.fallback.GetCount(fingerprint, date)
	}
	return s.status(count)
}

// RecordPost 为某身份记一次发帖，返回新计数
// 配额已满时返回 ErrQuotaExceeded 且不改动计数；
// 日期变化后旧行自然失效，从 1 重新计起
func (s *QuotaService) RecordPost(fingerprint string, now time.Time) (int, error) {
	date := now.Format(DateLayout)
	count, ok, err := s.store.IncrementIfBelow(fingerprint, date, s.limit)
	if err != nil {
		log.Printf("Quota store unavailable, falling back to session counts: %v", err)
		count, ok, _ = s.fallback.IncrementIfBelow(fingerprint, date, s.limit)
	}
	if !ok {
		return count, ErrQuotaExceeded
	}
	return count, nil
}

// InTx 返回一个绑定到事务的副本，发帖和配额加一可以同一个事务里提交
// 后备计数是共享的，不随事务回滚
func (s *QuotaService) InTx(tx *gorm.DB) *QuotaService {
	if _, ok := s.store.(*GormQuotaStore); !ok {
		return s
	}
	return &QuotaService{
		store:    NewGormQuotaStore(tx),
		fallback: s.fallback,
		limit:    s.limit,
	}
}

// Limit 配置的每日上限
func (s *QuotaService) Limit() int {
	return s.limit
}

func (s *QuotaService) status(count int) QuotaStatus {
	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStatus{Count: count, Limit: s.limit, Remaining: remaining}
}
