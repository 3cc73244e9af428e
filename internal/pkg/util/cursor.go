package util

import (
	"encoding/base64"
	"errors"

	"github.com/goccy/go-json"
)

var ErrInvalidCursor = errors.New("invalid cursor")

type cursor struct {
	Key string `json:"k"`
}

// EncodeCursor 将存储层的分页 key 编码为对外的不透明 token
func EncodeCursor(key string) string {
	if key == "" {
		return ""
	}
	b, _ := json.Marshal(cursor{Key: key})
	return base64.URLEncoding.EncodeToString(b)
}

// DecodeCursor 还原分页 key，空 token 表示从头开始
func DecodeCursor(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidCursor
	}
	var c cursor
	if err = json.Unmarshal(b, &c); err != nil || c.Key == "" {
		return "", ErrInvalidCursor
	}
	return c.Key, nil
}
