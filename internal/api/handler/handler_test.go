package handler

import (
	"AdBoard/internal/api/dto"
	"AdBoard/internal/model"
	"AdBoard/internal/service"
	"AdBoard/internal/service/mocks"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	ads     *mocks.AdService
	listing *mocks.ListingService
	media   *mocks.MediaService
	sweep   *mocks.SweepService
	router  *gin.Engine
}

func newFixture() *fixture {
	f := &fixture{
		ads:     new(mocks.AdService),
		listing: new(mocks.ListingService),
		media:   new(mocks.MediaService),
		sweep:   new(mocks.SweepService),
	}
	ah := NewAdHandler(f.ads, f.listing)
	mh := NewMediaHandler(f.media, 1024)
	sh := NewSweepHandler(f.sweep)

	r := gin.New()
	r.POST("/api/ads", ah.CreateAd)
	r.GET("/api/ads", ah.ListAds)
	r.GET("/api/ads/featured", ah.ListFeaturedAds)
	r.GET("/api/ads/:id", ah.GetAd)
	r.DELETE("/api/ads", ah.DeleteAd)
	r.POST("/api/ads/:id/like", ah.LikeAd)
	r.POST("/api/ads/:id/comments", ah.AddComment)
	r.GET("/api/media/presigned-url", mh.UploadURL)
	r.POST("/api/media/presigned-url", mh.UploadURL)
	r.POST("/api/media/upload", mh.Upload)
	r.POST("/api/admin/sweep", sh.Trigger)
	f.router = r
	return f
}

func (f *fixture) do(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestAdHandler_CreateAd(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(*fixture)
		wantStatus int
		check      func(t *testing.T, out map[string]any)
	}{
		{
			name: "created",
			body: `{"title":"A shop","description":"Great deals","userName":"Jane Doe","imageUrls":["img1.jpg"]}`,
			setupMocks: func(f *fixture) {
				f.ads.On("CreateAd", mock.Anything, mock.MatchedBy(func(r *dto.CreateAdDTO) bool {
					return r.Title == "A shop" && len(r.ImageURLs) == 1
				})).Return(&model.Ad{
					ID: "ad-1", UserID: "jane_doe", UserName: "Jane Doe",
					QualityScore: 2, ImageCount: 1, CreatedAt: "2026-03-10T12:00:00.000000Z",
					ExpiresAt: "2026-04-09T12:00:00.000000Z",
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, true, out["success"])
				assert.Equal(t, "ad-1", out["adId"])
				assert.Equal(t, "jane_doe", out["userId"])
				assert.Equal(t, false, out["featured"])
				assert.EqualValues(t, 1, out["imageCount"])
			},
		},
		{
			name:       "malformed json",
			body:       `{"title":`,
			setupMocks: func(f *fixture) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, "MalformedInput", out["kind"])
			},
		},
		{
			name:       "rule violation",
			body:       fmt.Sprintf(`{"title":%q}`, strings.Repeat("x", 201)),
			setupMocks: func(f *fixture) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, "ValidationError", out["kind"])
				assert.Contains(t, out["error"], "Title")
			},
		},
		{
			name: "service validation",
			body: `{"title":"A shop"}`,
			setupMocks: func(f *fixture) {
				f.ads.On("CreateAd", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: description is required", service.ErrValidation))
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, out map[string]any) {
				assert.Equal(t, false, out["success"])
				assert.Contains(t, out["error"], "description is required")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			rec, out := f.do(http.MethodPost, "/api/ads", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			tt.check(t, out)
			f.ads.AssertExpectations(t)
		})
	}
}

func TestAdHandler_List(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantQuery service.ListQuery
	}{
		{"plain", "/api/ads?limit=10", service.ListQuery{Limit: 10}},
		{"featured flag", "/api/ads?featured=1&userId=u1", service.ListQuery{FeaturedOnly: true, UserID: "u1"}},
		{"featured route", "/api/ads/featured?lastKey=tok", service.ListQuery{FeaturedOnly: true, Token: "tok"}},
		{"status", "/api/ads?status=all&userName=Jane", service.ListQuery{Status: "all", UserName: "Jane"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.listing.On("List", mock.Anything, tt.wantQuery).Return(&service.ListResult{
				Ads:     []*model.Ad{{ID: "a1", Title: "t", Comments: []model.Comment{{ID: "c1", Text: "hi"}}}},
				HasMore: true,
				Token:   "next",
			}, nil)

			rec, out := f.do(http.MethodGet, tt.path, "")

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.EqualValues(t, 1, out["count"])
			assert.Equal(t, true, out["hasMore"])
			assert.Equal(t, "next", out["lastKey"])
			ads := out["ads"].([]any)
			ad := ads[0].(map[string]any)
			assert.Equal(t, "a1", ad["id"])
			assert.Equal(t, []any{}, ad["imageUrls"])
			assert.Len(t, ad["comments"], 1)
			f.listing.AssertExpectations(t)
		})
	}
}

func TestAdHandler_List_BadToken(t *testing.T) {
	f := newFixture()
	f.listing.On("List", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: lastKey is not a valid continuation token", service.ErrMalformedInput))

	rec, out := f.do(http.MethodGet, "/api/ads?lastKey=@@@", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MalformedInput", out["kind"])
}

func TestAdHandler_GetAd(t *testing.T) {
	f := newFixture()
	f.ads.On("GetAd", mock.Anything, "a1").Return(&model.Ad{ID: "a1", Likes: 3}, nil)
	f.ads.On("GetAd", mock.Anything, "missing").Return(nil, fmt.Errorf("%w: ad missing", service.ErrNotFound))

	rec, out := f.do(http.MethodGet, "/api/ads/a1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, out["ad"].(map[string]any)["likes"])

	rec, out = f.do(http.MethodGet, "/api/ads/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", out["kind"])
}

func TestAdHandler_DeleteAd(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(*fixture)
		wantStatus int
		wantType   string
		wantImages float64
	}{
		{
			name: "soft",
			body: `{"id":"a1"}`,
			setupMocks: func(f *fixture) {
				f.ads.On("SoftDelete", mock.Anything, "a1", "").Return(&model.Ad{ID: "a1"}, nil)
			},
			wantStatus: http.StatusOK,
			wantType:   "soft",
		},
		{
			name: "hard",
			body: `{"id":"a1","hard":true,"userId":"u1"}`,
			setupMocks: func(f *fixture) {
				f.ads.On("HardDelete", mock.Anything, "a1", "u1").
					Return(&service.MediaRemoval{Removed: 2, Errors: []string{"failed to delete media x"}}, nil)
			},
			wantStatus: http.StatusOK,
			wantType:   "hard",
			wantImages: 2,
		},
		{
			name: "not owner",
			body: `{"id":"a1","hard":true,"userId":"u2"}`,
			setupMocks: func(f *fixture) {
				f.ads.On("HardDelete", mock.Anything, "a1", "u2").Return(nil, service.ErrPermissionDenied)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing id",
			body:       `{"hard":true}`,
			setupMocks: func(f *fixture) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			rec, out := f.do(http.MethodDelete, "/api/ads", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantType, out["deleteType"])
				assert.Equal(t, tt.wantImages, out["imagesRemoved"])
				assert.Equal(t, "a1", out["adId"])
			}
			f.ads.AssertExpectations(t)
		})
	}
}

func TestAdHandler_LikeAndComment(t *testing.T) {
	f := newFixture()
	f.ads.On("Like", mock.Anything, "a1").Return(int64(4), nil)
	f.ads.On("AddComment", mock.Anything, "a1", &dto.AddCommentDTO{UserName: "Bob", Text: "nice"}).
		Return(&model.Comment{ID: "c1", UserName: "Bob", Text: "nice", CreatedAt: "2026-03-10T12:00:00.000000Z"}, nil)

	rec, out := f.do(http.MethodPost, "/api/ads/a1/like", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, out["likes"])

	rec, out = f.do(http.MethodPost, "/api/ads/a1/comments", `{"userName":"Bob","text":"nice"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	comment := out["comment"].(map[string]any)
	assert.Equal(t, "c1", comment["id"])
	assert.Equal(t, "nice", comment["text"])
	f.ads.AssertExpectations(t)
}

func TestMediaHandler_UploadURL(t *testing.T) {
	result := &dto.UploadURLResultDTO{Base: dto.OK("ok"), S3Key: "ads/k.png", ExpiresIn: 3600}

	t.Run("query", func(t *testing.T) {
		f := newFixture()
		f.media.On("IssueUploadURL", mock.Anything, &dto.UploadURLDTO{FileName: "a.png"}).Return(result, nil)

		rec, out := f.do(http.MethodGet, "/api/media/presigned-url?filename=a.png", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ads/k.png", out["s3Key"])
	})

	t.Run("body", func(t *testing.T) {
		f := newFixture()
		f.media.On("IssueUploadURL", mock.Anything, &dto.UploadURLDTO{FileName: "a.png", ContentType: "image/png"}).Return(result, nil)

		rec, _ := f.do(http.MethodPost, "/api/media/presigned-url", `{"filename":"a.png","contentType":"image/png"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		f.media.AssertExpectations(t)
	})

	t.Run("missing filename", func(t *testing.T) {
		f := newFixture()
		f.media.On("IssueUploadURL", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: filename is required", service.ErrValidation))

		rec, out := f.do(http.MethodGet, "/api/media/presigned-url", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, out["error"], "filename")
	})
}

func TestMediaHandler_Upload_BodyLimit(t *testing.T) {
	f := newFixture()
	body := fmt.Sprintf(`{"filename":"a.png","imageData":%q}`, strings.Repeat("A", 200<<10))

	rec, out := f.do(http.MethodPost, "/api/media/upload", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ValidationError", out["kind"])
	f.media.AssertNotCalled(t, "DirectUpload", mock.Anything, mock.Anything)
}

func TestSweepHandler_Trigger(t *testing.T) {
	tests := []struct {
		name       string
		report     *dto.SweepReport
		err        error
		wantStatus int
	}{
		{"ok", &dto.SweepReport{Success: true, AdsDeleted: 2, Errors: []string{}}, nil, http.StatusOK},
		{"busy", nil, service.ErrSweepInProgress, http.StatusConflict},
		{"scan failed", nil, fmt.Errorf("%w: scan expired ads: boom", service.ErrStorage), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.sweep.On("Run", mock.Anything).Return(tt.report, tt.err)

			rec, out := f.do(http.MethodPost, "/api/admin/sweep", "")

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.report != nil {
				assert.EqualValues(t, 2, out["ads_deleted"])
			} else {
				assert.Equal(t, false, out["success"])
			}
		})
	}
}
