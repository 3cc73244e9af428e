package model

import (
	"strings"
	"time"
)

const (
	AdStatusActive  = "active"
	AdStatusDeleted = "deleted"
)

// TimeLayout ISO-8601 UTC，固定微秒宽度，字典序与时间序一致
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// legacyTimeLayouts 兼容旧数据中不带时区的时间戳
var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Ad 广告记录
type Ad struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"imageUrls"`
	VideoURLs   []string `json:"videoUrls"`
	ImageCount  int      `json:"imageCount"`
	VideoCount  int      `json:"videoCount"`

	// 发布者
	UserID           string `json:"userId"`
	UserName         string `json:"userName"`
	UserProfileImage string `json:"userProfileImage,omitempty"`
	BusinessName     string `json:"businessName,omitempty"`
	ContactInfo      string `json:"contactInfo,omitempty"`
	Location         string `json:"location,omitempty"`
	Category         string `json:"category,omitempty"`

	Status       string `json:"status"`
	Featured     bool   `json:"featured"`
	QualityScore int    `json:"qualityScore"`
	ScoreSchema  string `json:"scoreSchema,omitempty"`

	Likes     int64     `json:"likes"`
	ViewCount int64     `json:"viewCount"`
	Comments  []Comment `json:"comments"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	ExpiresAt string `json:"expiresAt"`
	TTL       int64  `json:"ttl"`
}

// MediaURLs 图片在前，视频在后
func (a *Ad) MediaURLs() []string {
	urls := make([]string, 0, len(a.ImageURLs)+len(a.VideoURLs))
	urls = append(urls, a.ImageURLs...)
	return append(urls, a.VideoURLs...)
}

// CreatedTime 解析创建时间，缺失或无法解析时返回 false
func (a *Ad) CreatedTime() (time.Time, bool) {
	return ParseTime(a.CreatedAt)
}

func (a *Ad) IsDeleted() bool {
	return a.Status == AdStatusDeleted
}

// FormatTime 统一时间格式
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime 解析存储中的时间戳
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, true
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
