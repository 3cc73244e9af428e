package dto

// UploadURLDTO GET 时取 query，POST 时取 body
type UploadURLDTO struct {
	FileName    string `json:"filename" form:"filename" validate:"max=255"`
	ContentType string `json:"contentType" form:"contentType" validate:"max=100"`
}

type UploadURLResultDTO struct {
	Base
	UploadURL     string `json:"uploadUrl"`
	CloudFrontURL string `json:"cloudFrontUrl"`
	S3Key         string `json:"s3Key"`
	ContentType   string `json:"contentType"`
	ExpiresIn     int    `json:"expiresIn"`
}

// DirectUploadDTO ImageData 为 base64，可带 data URL 前缀
type DirectUploadDTO struct {
	FileName    string `json:"filename" validate:"max=255"`
	ImageData   string `json:"imageData"`
	ContentType string `json:"contentType" validate:"max=100"`
}

type DirectUploadResultDTO struct {
	Base
	CloudFrontURL string `json:"cloudFrontUrl"`
	S3Key         string `json:"s3Key"`
	Size          int    `json:"size"`
	ContentType   string `json:"contentType"`
}
