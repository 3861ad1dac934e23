package models

import (
	"time"
)

// 内容长度上限（字符数，非字节数）
const MaxContentLength = 500

type Post struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Pid          string    `gorm:"uniqueIndex;size:16;not null" json:"id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Language     string    `gorm:"size:8;default:'en'" json:"language"`
	IsBookmarked bool      `gorm:"default:false" json:"isBookmarked"`
	CreatedAt    time.Time `json:"timestamp"`
}
