package util

import (
	"strings"
	"unicode/utf8"
)

var userIDReplacer = strings.NewReplacer(" ", "_", "-", "_")

// DeriveUserID 由展示名推导用户 ID：小写，空格与连字符替换为下划线
func DeriveUserID(displayName string) string {
	return userIDReplacer.Replace(strings.ToLower(strings.TrimSpace(displayName)))
}

// RuneLen 按字符计算长度
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
