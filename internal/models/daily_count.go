package models

// DailyCount 单个匿名身份在某个自然日内的发帖计数
// (fingerprint, date) 唯一，date 形如 2006-01-02
type DailyCount struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	Fingerprint string `gorm:"size:64;not null;uniqueIndex:idx_fingerprint_date" json:"fingerprint"`
	Date        string `gorm:"size:10;not null;uniqueIndex:idx_fingerprint_date" json:"date"`
	Count       int    `gorm:"not null;default:0" json:"count"`
}
