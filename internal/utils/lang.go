package utils

import (
	"unicode"
)

// DetectLanguage 根据字符范围猜内容语言，客户端没传 language 时兜底
// 只做很粗的判断：假名 -> ja，汉字 -> zh，谚文 -> ko，其余 -> en
func DetectLanguage(content string) string {
	for _, r := range content {
		switch {
		case unicode.In(r, unicode.Hiragana, unicode.Katakana):
			return "ja"
		case unicode.In(r, unicode.Hangul):
			return "ko"
		}
	}
	for _, r := range content {
		if unicode.In(r, unicode.Han) {
			return "zh"
		}
	}
	return "en"
}
