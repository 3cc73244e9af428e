package service

import (
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/util"
	"AdBoard/internal/repository"
	repoMocks "AdBoard/internal/repository/mocks"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestListing(repo repository.AdRepo, countAnonymous bool) ListingService {
	return NewListingService(repo, newTestNormalizer(), newTestMetrics(), ListingOptions{
		DefaultLimit:        50,
		MaxLimit:            100,
		CountAnonymousViews: countAnonymous,
	})
}

func TestListingService_FilterAndLimit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		query      ListQuery
		wantFilter repository.Filter
		wantLimit  int
	}{
		{
			name:       "defaults",
			query:      ListQuery{},
			wantFilter: repository.Filter{repository.Eq(repository.AttrStatus, model.AdStatusActive)},
			wantLimit:  50,
		},
		{
			name:  "all criteria",
			query: ListQuery{Status: "deleted", UserID: "bob", UserName: "Bob", FeaturedOnly: true, Limit: 10},
			wantFilter: repository.Filter{
				repository.Eq(repository.AttrStatus, model.AdStatusDeleted),
				repository.Eq(repository.AttrUserID, "bob"),
				repository.Eq(repository.AttrUserName, "Bob"),
				repository.Eq(repository.AttrFeatured, "true"),
			},
			wantLimit: 10,
		},
		{
			name:       "status all and capped limit",
			query:      ListQuery{Status: "ALL", Limit: 500},
			wantFilter: nil,
			wantLimit:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &repoMocks.AdRepo{}
			repo.On("Scan", ctx, tt.wantFilter, tt.wantLimit, "").
				Return(&repository.ScanResult{Items: []*model.Ad{}}, nil)

			res, err := newTestListing(repo, true).List(ctx, tt.query)
			require.NoError(t, err)
			assert.Empty(t, res.Ads)
			assert.False(t, res.HasMore)
			assert.Empty(t, res.Token)
			repo.AssertExpectations(t)
		})
	}
}

func TestListingService_SortNormalizeAndViews(t *testing.T) {
	ctx := context.Background()
	items := []*model.Ad{
		storedAd("old", "alice", false, "2026-01-01T00:00:00.000000Z", "ads/old.jpg"),
		storedAd("feat-old", "bob", true, "2026-01-02T00:00:00.000000Z", "http://"+testDomain+"/ads/f1.jpg"),
		storedAd("no-time", "carol", true, "", cdnURL("ads/n.jpg")),
		storedAd("new", "viewer", false, "2026-02-01T00:00:00.000000Z", cdnURL("ads/new.jpg")),
		storedAd("feat-new", "dave", true, "2026-02-02T00:00:00.000000Z", cdnURL("ads/f2.jpg")),
		storedAd("bad-time", "erin", false, "yesterday", cdnURL("ads/b.jpg")),
	}
	items[0].ViewCount = 7

	repo := &repoMocks.AdRepo{}
	repo.On("Scan", ctx, mock.Anything, 50, "").Return(&repository.ScanResult{Items: items, LastKey: "zzz"}, nil)
	repo.On("IncrementCounter", mock.Anything, "feat-old", repository.AttrViewCount, int64(1)).
		Return(int64(0), errors.New("throttled"))
	repo.On("IncrementCounter", mock.Anything, mock.Anything, repository.AttrViewCount, int64(1)).
		Return(int64(1), nil)

	res, err := newTestListing(repo, true).List(ctx, ListQuery{UserID: "viewer", Status: StatusAll})
	require.NoError(t, err)

	var ids []string
	for _, ad := range res.Ads {
		ids = append(ids, ad.ID)
		for _, u := range ad.MediaURLs() {
			assert.True(t, strings.HasPrefix(u, "https://"+testDomain+"/"), u)
		}
	}
	assert.Equal(t, []string{"feat-new", "feat-old", "no-time", "new", "old", "bad-time"}, ids)

	byID := map[string]*model.Ad{}
	for _, ad := range res.Ads {
		byID[ad.ID] = ad
	}
	assert.Equal(t, int64(8), byID["old"].ViewCount)
	assert.Equal(t, int64(1), byID["feat-old"].ViewCount, "failed increment still reflected")
	assert.Equal(t, int64(0), byID["new"].ViewCount, "owner views are not counted")
	repo.AssertNotCalled(t, "IncrementCounter", mock.Anything, "new", mock.Anything, mock.Anything)
	repo.AssertNumberOfCalls(t, "IncrementCounter", 5)

	assert.True(t, res.HasMore)
	key, err := util.DecodeCursor(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "zzz", key)
}

func TestListingService_AnonymousViews(t *testing.T) {
	ctx := context.Background()

	for _, count := range []bool{true, false} {
		items := []*model.Ad{storedAd("a", "alice", false, "", cdnURL("ads/a.jpg"))}
		repo := &repoMocks.AdRepo{}
		repo.On("Scan", ctx, mock.Anything, 50, "").Return(&repository.ScanResult{Items: items}, nil)
		repo.On("IncrementCounter", mock.Anything, "a", repository.AttrViewCount, int64(1)).Return(int64(1), nil).Maybe()

		res, err := newTestListing(repo, count).List(ctx, ListQuery{})
		require.NoError(t, err)
		if count {
			assert.Equal(t, int64(1), res.Ads[0].ViewCount)
			repo.AssertNumberOfCalls(t, "IncrementCounter", 1)
		} else {
			assert.Equal(t, int64(0), res.Ads[0].ViewCount)
			repo.AssertNotCalled(t, "IncrementCounter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	}
}

func TestListingService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed token", func(t *testing.T) {
		repo := &repoMocks.AdRepo{}
		_, err := newTestListing(repo, true).List(ctx, ListQuery{Token: "%%%"})
		assert.ErrorIs(t, err, ErrMalformedInput)
		repo.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("token passed through", func(t *testing.T) {
		repo := &repoMocks.AdRepo{}
		repo.On("Scan", ctx, mock.Anything, 50, "ad-9").Return(&repository.ScanResult{}, nil)
		_, err := newTestListing(repo, true).List(ctx, ListQuery{Token: util.EncodeCursor("ad-9")})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("scan failure", func(t *testing.T) {
		repo := &repoMocks.AdRepo{}
		repo.On("Scan", ctx, mock.Anything, 50, "").Return(nil, errors.New("timeout"))
		_, err := newTestListing(repo, true).List(ctx, ListQuery{})
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestSortAds_Invariant(t *testing.T) {
	ads := []*model.Ad{
		storedAd("1", "", false, "2026-01-05T00:00:00.000000Z"),
		storedAd("2", "", true, "2025-01-01T00:00:00.000000Z"),
		storedAd("3", "", false, "2026-01-06T00:00:00.000000Z"),
		storedAd("4", "", true, "2026-01-01T00:00:00Z"),
		storedAd("5", "", false, ""),
		storedAd("6", "", true, "2026-01-01T00:00:00.500000Z"),
	}
	SortAds(ads)

	seenNonFeatured := false
	for i, ad := range ads {
		if !ad.Featured {
			seenNonFeatured = true
		} else {
			assert.False(t, seenNonFeatured, "featured ad %s after non-featured", ad.ID)
		}
		if i > 0 && ads[i-1].Featured == ad.Featured {
			prev, okPrev := ads[i-1].CreatedTime()
			cur, okCur := ad.CreatedTime()
			if okPrev && okCur {
				assert.False(t, cur.After(prev), "timestamps must be non-increasing")
			}
			if !okPrev {
				assert.False(t, okCur, "unparseable timestamps sort last")
			}
		}
	}
	assert.Equal(t, "6", ads[0].ID)
	assert.Equal(t, "5", ads[len(ads)-1].ID)
}
