package rotation

// DefaultHistoryBound 浏览历史容量
const DefaultHistoryBound = 20

// History 记录浏览者实际看过的帖子路径，最新在前，不含重复 ID
// 下标 0 始终是当前展示的帖子（到达时通过 Advance 压入）
// 与 Window 的区别：History 用来精确回退，Window 只是向前浏览时的去重偏置
type History struct {
	ids   []string
	bound int
}

// NewHistory 创建容量为 bound 的历史，bound <= 0 时用默认值
func NewHistory(bound int) *History {
	if bound <= 0 {
		bound = DefaultHistoryBound
	}
	return &History{bound: bound}
}

// Advance 到达一个帖子时调用：去掉已存在的同名条目，压到最前，截断到容量
func (h *History) Advance(id string) {
	filtered := make([]string, 0, len(h.ids)+1)
	filtered = append(filtered, id)
	for _, v := range h.ids {
		if v != id {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) > h.bound {
		filtered = filtered[:h.bound]
	}
	h.ids = filtered
}

// Previous 回退到上一个真正看过的帖子
// 历史不足 2 条时没有可回退的帖子，返回 ok=false（调用方可降级为随机选取）；
// 否则返回下标 1 的 ID 并去掉下标 0（回退之后它成为新的当前帖子）。
// Previous 只回放历史，绝不引入没看过的帖子。
func (h *History) Previous() (string, bool) {
	if len(h.ids) < 2 {
		return "", false
	}
	id := h.ids[1]
	h.ids = h.ids[1:]
	return id, true
}

// Len 历史内 ID 数量
func (h *History) Len() int {
	return len(h.ids)
}

// Current 当前展示的帖子 ID（历史为空时返回空串）
func (h *History) Current() string {
	if len(h.ids) == 0 {
		return ""
	}
	return h.ids[0]
}

// IDs 返回历史内容的拷贝，最新在前
func (h *History) IDs() []string {
	out := make([]string, len(h.ids))
	copy(out, h.ids)
	return out
}
