package utils

import (
	"math/rand"
)

const pidLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomPid 生成帖子对外暴露的短 ID
func RandomPid(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = pidLetters[rand.Intn(len(pidLetters))]
	}
	return string(b)
}
