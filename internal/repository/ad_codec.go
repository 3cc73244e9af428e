package repository

import (
	"AdBoard/internal/model"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// encodeAd 将记录展开为 hash 字段，列表字段以 JSON 存储
func encodeAd(ad *model.Ad) (map[string]any, error) {
	images, err := json.Marshal(nonNil(ad.ImageURLs))
	if err != nil {
		return nil, err
	}
	videos, err := json.Marshal(nonNil(ad.VideoURLs))
	if err != nil {
		return nil, err
	}
	comments := ad.Comments
	if comments == nil {
		comments = []model.Comment{}
	}
	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"id":           ad.ID,
		"title":        ad.Title,
		"description":  ad.Description,
		"imageUrls":    string(images),
		"videoUrls":    string(videos),
		"imageCount":   ad.ImageCount,
		"videoCount":   ad.VideoCount,
		AttrUserID:     ad.UserID,
		AttrUserName:   ad.UserName,
		AttrStatus:     ad.Status,
		AttrFeatured:   strconv.FormatBool(ad.Featured),
		"qualityScore": ad.QualityScore,
		AttrLikes:      ad.Likes,
		AttrViewCount:  ad.ViewCount,
		AttrComments:   string(commentsJSON),
		AttrCreatedAt:  ad.CreatedAt,
		AttrUpdatedAt:  ad.UpdatedAt,
		"expiresAt":    ad.ExpiresAt,
		"ttl":          ad.TTL,
	}
	optional := map[string]string{
		"userProfileImage": ad.UserProfileImage,
		"businessName":     ad.BusinessName,
		"contactInfo":      ad.ContactInfo,
		"location":         ad.Location,
		"category":         ad.Category,
		"scoreSchema":      ad.ScoreSchema,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}
	return fields, nil
}

// encodeValue 单个属性的存储形式
func encodeValue(v any) (any, error) {
	switch x := v.(type) {
	case string, int, int64:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case []string:
		b, err := json.Marshal(nonNil(x))
		return string(b), err
	case []model.Comment:
		if x == nil {
			x = []model.Comment{}
		}
		b, err := json.Marshal(x)
		return string(b), err
	default:
		return nil, fmt.Errorf("unsupported attribute type %T", v)
	}
}

// decodeAd 空 map 表示记录不存在
func decodeAd(fields map[string]string) (*model.Ad, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	ad := &model.Ad{
		ID:               fields["id"],
		Title:            fields["title"],
		Description:      fields["description"],
		UserID:           fields[AttrUserID],
		UserName:         fields[AttrUserName],
		UserProfileImage: fields["userProfileImage"],
		BusinessName:     fields["businessName"],
		ContactInfo:      fields["contactInfo"],
		Location:         fields["location"],
		Category:         fields["category"],
		Status:           fields[AttrStatus],
		ScoreSchema:      fields["scoreSchema"],
		CreatedAt:        fields[AttrCreatedAt],
		UpdatedAt:        fields[AttrUpdatedAt],
		ExpiresAt:        fields["expiresAt"],
	}
	ad.Featured, _ = strconv.ParseBool(fields[AttrFeatured])
	ad.ImageCount = int(parseInt(fields["imageCount"]))
	ad.VideoCount = int(parseInt(fields["videoCount"]))
	ad.QualityScore = int(parseInt(fields["qualityScore"]))
	ad.Likes = parseInt(fields[AttrLikes])
	ad.ViewCount = parseInt(fields[AttrViewCount])
	ad.TTL = parseInt(fields["ttl"])

	if err := unmarshalField(fields, "imageUrls", &ad.ImageURLs); err != nil {
		return nil, err
	}
	if err := unmarshalField(fields, "videoUrls", &ad.VideoURLs); err != nil {
		return nil, err
	}
	if err := unmarshalField(fields, AttrComments, &ad.Comments); err != nil {
		return nil, err
	}
	return ad, nil
}

func unmarshalField(fields map[string]string, name string, dst any) error {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.Wrapf(err, "decode field %s", name)
	}
	return nil
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
