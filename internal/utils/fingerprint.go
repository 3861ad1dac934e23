package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// AnonymousFingerprint 客户端未提供指纹时的共享身份
// 所有拿不到指纹的客户端共用同一份每日配额，宁可收紧也不放开
const AnonymousFingerprint = "anonymous"

// NormalizeFingerprint 把客户端上报的任意指纹串归一化成定长 key
// 指纹本身只是配额分组用的自报字符串，哈希一下避免原始串进库
func NormalizeFingerprint(raw string) string {
	if raw == "" {
		raw = AnonymousFingerprint
	}
	sum := blake2b.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:16])
}
