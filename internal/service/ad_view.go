package service

import (
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/cdn"
)

// presentAd 读取时重新规范化媒体地址并补齐缺省字段
func presentAd(n *cdn.Normalizer, ad *model.Ad) {
	ad.ImageURLs = n.NormalizeAll(ad.ImageURLs)
	ad.VideoURLs = n.NormalizeAll(ad.VideoURLs)
	if ad.Comments == nil {
		ad.Comments = []model.Comment{}
	}
	if ad.Status == "" {
		ad.Status = model.AdStatusActive
	}
	if ad.Likes < 0 {
		ad.Likes = 0
	}
	if ad.ViewCount < 0 {
		ad.ViewCount = 0
	}
}
