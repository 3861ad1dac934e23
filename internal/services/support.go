package services

import (
	"math/rand"
	"strings"
)

// 命中这些短语说明作者可能需要支持
// 帖子照常发布，只是在响应里附一句关怀话术，绝不拦截内容
var supportPhrases = []string{
	"suicide", "suicidal",
	"kill myself", "end my life", "want to die", "self harm",
	"cut myself", "hurt myself", "not worth living", "better off dead",
	"end it all", "take my own life", "can't go on", "done with life",
	"tired of living", "wanna die",
}

var supportMessages = []string{
	"If you're struggling, please consider reaching out for support. You don't have to be alone.",
	"These feelings deserve attention. Consider talking to someone who can help.",
	"You deserve support. Please reach out to someone who can help you through this.",
	"You don't have to face this alone. Help is available and people care.",
}

// NeedsSupport 判断内容是否命中需要关怀的短语
func NeedsSupport(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range supportPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// SupportMessage 随机返回一条关怀话术
func SupportMessage() string {
	return supportMessages[rand.Intn(len(supportMessages))]
}
