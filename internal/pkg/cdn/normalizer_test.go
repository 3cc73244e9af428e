package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDomain = "d11c102y3uxwr7.cloudfront.net"

func newTestNormalizer() *Normalizer {
	return NewNormalizer(testDomain, []string{
		"business-ad-images-1.s3.amazonaws.com",
		"s3.amazonaws.com/business-ad-images-1",
	})
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{
			name: "canonical url unchanged",
			ref:  "https://" + testDomain + "/ads/20240101_120000_abcd1234.jpg",
			want: "https://" + testDomain + "/ads/20240101_120000_abcd1234.jpg",
		},
		{
			name: "foreign https url unchanged",
			ref:  "https://picsum.photos/300/300?random=999",
			want: "https://picsum.photos/300/300?random=999",
		},
		{
			name: "http upgraded",
			ref:  "http://example.com/a/b.png",
			want: "https://example.com/a/b.png",
		},
		{
			name: "http canonical upgraded",
			ref:  "http://" + testDomain + "/ads/x.png",
			want: "https://" + testDomain + "/ads/x.png",
		},
		{
			name: "bare key",
			ref:  "img1.jpg",
			want: "https://" + testDomain + "/img1.jpg",
		},
		{
			name: "bare key with one leading slash stripped",
			ref:  "/ads/img1.jpg",
			want: "https://" + testDomain + "/ads/img1.jpg",
		},
		{
			name: "virtual hosted legacy bucket url",
			ref:  "https://business-ad-images-1.s3.amazonaws.com/ads/photo.jpg",
			want: "https://" + testDomain + "/ads/photo.jpg",
		},
		{
			name: "path style legacy bucket url over http",
			ref:  "http://s3.amazonaws.com/business-ad-images-1/ads/photo.jpg?x-id=1",
			want: "https://" + testDomain + "/ads/photo.jpg",
		},
		{
			name:    "embedded data rejected",
			ref:     "data:image/png;base64,iVBORw0KGgo=",
			wantErr: ErrEmbeddedData,
		},
		{
			name:    "embedded data rejected regardless of case",
			ref:     "DATA:image/png;base64,AAAA",
			wantErr: ErrEmbeddedData,
		},
		{
			name:    "empty rejected",
			ref:     "   ",
			wantErr: ErrEmptyReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.ref)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_NormalizeIsIdempotent(t *testing.T) {
	n := newTestNormalizer()
	refs := []string{"img1.jpg", "http://example.com/x.jpg", "https://business-ad-images-1.s3.amazonaws.com/ads/p.jpg"}

	for _, ref := range refs {
		once, err := n.Normalize(ref)
		require.NoError(t, err)
		twice, err := n.Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, ref)
	}
}

func TestNormalizer_NormalizeAllDropsFailures(t *testing.T) {
	n := newTestNormalizer()

	got := n.NormalizeAll([]string{"data:image/png;base64,AAAA", "a.jpg", "", "http://x.org/b.jpg"})

	assert.Equal(t, []string{
		"https://" + testDomain + "/a.jpg",
		"https://x.org/b.jpg",
	}, got)

	assert.Empty(t, n.NormalizeAll([]string{"data:,hello"}))
	assert.NotNil(t, n.NormalizeAll(nil))
}

func TestNormalizer_StorageKey(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"canonical", "https://" + testDomain + "/ads/a%20b.jpg", "ads/a b.jpg", true},
		{"canonical with query", "https://" + testDomain + "/ads/a.jpg?v=2", "ads/a.jpg", true},
		{"legacy", "https://business-ad-images-1.s3.amazonaws.com/ads/c.jpg", "ads/c.jpg", true},
		{"bare key", "/ads/d.jpg", "ads/d.jpg", true},
		{"foreign host", "https://picsum.photos/300", "", false},
		{"lookalike host", "https://" + testDomain + ".evil.com/ads/a.jpg", "", false},
		{"domain root", "https://" + testDomain + "/", "", false},
		{"embedded data", "data:image/png;base64,AAAA", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.StorageKey(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizer_URLForKeyRoundTrip(t *testing.T) {
	n := newTestNormalizer()
	key := "ads/20240101_120000_abcd1234.png"

	got, ok := n.StorageKey(n.URLForKey(key))

	require.True(t, ok)
	assert.Equal(t, key, got)
}
