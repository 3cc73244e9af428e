package dto

// CreateAdDTO 发布广告请求，必填项由服务层校验并给出字段名
type CreateAdDTO struct {
	Title            string   `json:"title" validate:"max=200"`
	Description      string   `json:"description" validate:"max=5000"`
	UserName         string   `json:"userName" validate:"max=100"`
	ImageURLs        []string `json:"imageUrls" validate:"max=20"`
	VideoURLs        []string `json:"videoUrls" validate:"max=5"`
	UserID           string   `json:"userId" validate:"max=100"`
	BusinessName     string   `json:"businessName" validate:"max=200"`
	ContactInfo      string   `json:"contactInfo" validate:"max=200"`
	Location         string   `json:"location" validate:"max=200"`
	Category         string   `json:"category" validate:"max=100"`
	UserProfileImage string   `json:"userProfileImage" validate:"max=2048"`
}

type AdCreatedDTO struct {
	Base
	AdID         string `json:"adId"`
	Featured     bool   `json:"featured"`
	QualityScore int    `json:"qualityScore"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	ImageCount   int    `json:"imageCount"`
	VideoCount   int    `json:"videoCount"`
	CreatedAt    string `json:"createdAt"`
	ExpiresAt    string `json:"expiresAt"`
}

// ListAdsQuery 列表查询参数
type ListAdsQuery struct {
	Status   string `form:"status"`
	UserID   string `form:"userId"`
	UserName string `form:"userName"`
	Featured string `form:"featured"`
	Limit    int    `form:"limit" validate:"gte=0"`
	LastKey  string `form:"lastKey"`
}

type AdDTO struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	ImageURLs        []string     `json:"imageUrls"`
	VideoURLs        []string     `json:"videoUrls"`
	ImageCount       int          `json:"imageCount"`
	VideoCount       int          `json:"videoCount"`
	UserID           string       `json:"userId"`
	UserName         string       `json:"userName"`
	UserProfileImage string       `json:"userProfileImage,omitempty"`
	BusinessName     string       `json:"businessName,omitempty"`
	ContactInfo      string       `json:"contactInfo,omitempty"`
	Location         string       `json:"location,omitempty"`
	Category         string       `json:"category,omitempty"`
	Status           string       `json:"status"`
	Featured         bool         `json:"featured"`
	QualityScore     int          `json:"qualityScore"`
	Likes            int64        `json:"likes"`
	ViewCount        int64        `json:"viewCount"`
	Comments         []CommentDTO `json:"comments"`
	CreatedAt        string       `json:"createdAt"`
	UpdatedAt        string       `json:"updatedAt"`
	ExpiresAt        string       `json:"expiresAt"`
}

type AdListDTO struct {
	Base
	Ads       []AdDTO `json:"ads"`
	Count     int     `json:"count"`
	HasMore   bool    `json:"hasMore"`
	LastKey   string  `json:"lastKey,omitempty"`
	Timestamp string  `json:"timestamp"`
}

type AdDetailDTO struct {
	Base
	Ad AdDTO `json:"ad"`
}

// DeleteAdDTO hard 为 false 时软删除
type DeleteAdDTO struct {
	ID     string `json:"id" validate:"required,max=100"`
	Hard   bool   `json:"hard"`
	UserID string `json:"userId" validate:"max=100"`
}

type AdDeletedDTO struct {
	Base
	AdID          string   `json:"adId"`
	DeleteType    string   `json:"deleteType"`
	ImagesRemoved int      `json:"imagesRemoved"`
	Errors        []string `json:"errors,omitempty"`
	Timestamp     string   `json:"timestamp"`
}

type AdLikedDTO struct {
	Base
	AdID  string `json:"adId"`
	Likes int64  `json:"likes"`
}

// AddCommentDTO 评论请求
type AddCommentDTO struct {
	UserID   string `json:"userId" validate:"max=100"`
	UserName string `json:"userName" validate:"max=100"`
	Text     string `json:"text" validate:"max=1000"`
}

type CommentDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"userId,omitempty"`
	UserName  string `json:"userName,omitempty"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type CommentAddedDTO struct {
	Base
	AdID    string     `json:"adId"`
	Comment CommentDTO `json:"comment"`
}
