package consts

const (
	MimePrefixImage = "image"
	MimePrefixVideo = "video"
)

const (
	DefaultContentType = "image/jpeg"
	UploadKeyTimeFmt   = "20060102_150405"
)

// Redis key 后缀，前缀由 store.key_prefix 决定
const (
	AdKeySuffix      = ":ad:"
	AdIndexKeySuffix = ":ad:index"
	SweepLockSuffix  = ":lock:sweep"
)
