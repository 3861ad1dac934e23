// Package rotation 实现浏览端的帖子轮换逻辑：
// 最近展示窗口（避免短期内重复）和浏览历史（支持精确后退）。
// 两者都是有界的、最新在前的帖子 ID 列表，由调用方负责持久化。
package rotation

import (
	"math/rand"
)

// DefaultWindowBound 最近展示窗口容量
const DefaultWindowBound = 10

// Window 记录最近展示过的帖子 ID，向前浏览时排除这些帖子
type Window struct {
	ids   []string
	bound int
}

// NewWindow 创建容量为 bound 的窗口，bound <= 0 时用默认值
func NewWindow(bound int) *Window {
	if bound <= 0 {
		bound = DefaultWindowBound
	}
	return &Window{bound: bound}
}

// Push 把 id 放到窗口最前面，超出容量的从尾部截断
func (w *Window) Push(id string) {
	w.ids = append([]string{id}, w.ids...)
	if len(w.ids) > w.bound {
		w.ids = w.ids[:w.bound]
	}
}

// Contains 判断 id 是否在窗口内
func (w *Window) Contains(id string) bool {
	for _, v := range w.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Reset 清空窗口
func (w *Window) Reset() {
	w.ids = nil
}

// Len 窗口内 ID 数量
func (w *Window) Len() int {
	return len(w.ids)
}

// IDs 返回窗口内容的拷贝，最新在前
func (w *Window) IDs() []string {
	out := make([]string, len(w.ids))
	copy(out, w.ids)
	return out
}

// SelectNext 从 pool 中随机选出下一个要展示的帖子 ID
// 候选集 = pool 减去窗口内的 ID；若候选集为空（窗口盖住了整个池子），
// 先清空窗口再从整个池子里选，保证池子只有 1 个帖子时也不会卡死。
// 选中后把 ID 推进窗口。pool 为空时返回 ok=false（空态，不是错误）。
func SelectNext(pool []string, w *Window, rng *rand.Rand) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}

	candidates := make([]string, 0, len(pool))
	for _, id := range pool {
		if !w.Contains(id) {
			candidates = append(candidates, id)
		}
	}

	if len(candidates) == 0 {
		w.Reset()
		candidates = pool
	}

	id := candidates[rng.Intn(len(candidates))]
	w.Push(id)
	return id, true
}
