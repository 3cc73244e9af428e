package dto

// SweepReport 过期清理报告，errors 为空表示本轮无异常
type SweepReport struct {
	Success       bool     `json:"success"`
	AdsDeleted    int      `json:"ads_deleted"`
	ImagesRemoved int      `json:"images_removed"`
	CutoffDate    string   `json:"cutoff_date"`
	TTLDays       int      `json:"ttl_days"`
	Candidates    int      `json:"candidates"`
	Errors        []string `json:"errors"`
	Message       string   `json:"message"`
	Warning       string   `json:"warning,omitempty"`
	Timestamp     string   `json:"timestamp"`
}
