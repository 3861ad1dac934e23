package rotation

import (
	"encoding/json"
	"log"
)

// 持久化格式：帖子 ID 字符串的 JSON 数组，最新在前
// 解析失败或形状不对时当作空列表处理，记日志但不报错

// decodeIDs 把持久化的 JSON 数组还原成 ID 列表，超出 bound 的截断
func decodeIDs(raw string, bound int) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("Discarding malformed rotation state: %v", err)
		return nil
	}
	if len(ids) > bound {
		ids = ids[:bound]
	}
	return ids
}

func encodeIDs(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, err := json.Marshal(ids)
	if err != nil {
		// []string 序列化不会失败，保险起见仍走空列表
		return "[]"
	}
	return string(data)
}

// RestoreWindow 从持久化串还原最近展示窗口
func RestoreWindow(raw string, bound int) *Window {
	w := NewWindow(bound)
	w.ids = decodeIDs(raw, w.bound)
	return w
}

// Encode 窗口的持久化形式
func (w *Window) Encode() string {
	return encodeIDs(w.ids)
}

// RestoreHistory 从持久化串还原浏览历史
func RestoreHistory(raw string, bound int) *History {
	h := NewHistory(bound)
	h.ids = decodeIDs(raw, h.bound)
	return h
}

// Encode 历史的持久化形式
func (h *History) Encode() string {
	return encodeIDs(h.ids)
}
