package service

import (
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/cdn"
	"AdBoard/internal/pkg/metrics"
	"AdBoard/internal/pkg/scoring"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testDomain = "d11c102y3uxwr7.cloudfront.net"

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newTestNormalizer() *cdn.Normalizer {
	return cdn.NewNormalizer(testDomain, []string{"business-ad-images-1.s3.amazonaws.com"})
}

func newTestScorer(t *testing.T, schema scoring.Schema) *scoring.Scorer {
	t.Helper()
	s, err := scoring.NewScorer(schema)
	require.NoError(t, err)
	return s
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New()
}

func cdnURL(key string) string {
	return "https://" + testDomain + "/" + key
}

func storedAd(id, owner string, featured bool, createdAt string, media ...string) *model.Ad {
	return &model.Ad{
		ID:         id,
		Title:      "title " + id,
		UserID:     owner,
		Status:     model.AdStatusActive,
		Featured:   featured,
		CreatedAt:  createdAt,
		ImageURLs:  media,
		ImageCount: len(media),
	}
}
