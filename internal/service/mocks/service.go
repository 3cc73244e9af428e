package mocks

import (
	"AdBoard/internal/api/dto"
	"AdBoard/internal/model"
	"AdBoard/internal/service"
	"context"

	"github.com/stretchr/testify/mock"
)

// AdService is a mock implementation of service.AdService
type AdService struct {
	mock.Mock
}

// CreateAd persists a new ad
func (m *AdService) CreateAd(ctx context.Context, req *dto.CreateAdDTO) (*model.Ad, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

// GetAd loads one ad
func (m *AdService) GetAd(ctx context.Context, id string) (*model.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

// SoftDelete marks an ad deleted
func (m *AdService) SoftDelete(ctx context.Context, id, ownerID string) (*model.Ad, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

// HardDelete removes an ad and its media
func (m *AdService) HardDelete(ctx context.Context, id, ownerID string) (*service.MediaRemoval, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MediaRemoval), args.Error(1)
}

// Purge removes media then the record
func (m *AdService) Purge(ctx context.Context, ad *model.Ad) service.PurgeResult {
	args := m.Called(ctx, ad)
	return args.Get(0).(service.PurgeResult)
}

// Like increments the like counter
func (m *AdService) Like(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// AddComment appends a comment
func (m *AdService) AddComment(ctx context.Context, id string, req *dto.AddCommentDTO) (*model.Comment, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

// ListingService is a mock implementation of service.ListingService
type ListingService struct {
	mock.Mock
}

// List returns one page of ads
func (m *ListingService) List(ctx context.Context, q service.ListQuery) (*service.ListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult), args.Error(1)
}

// SweepService is a mock implementation of service.SweepService
type SweepService struct {
	mock.Mock
}

// Run performs one sweep
func (m *SweepService) Run(ctx context.Context) (*dto.SweepReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SweepReport), args.Error(1)
}

// State reports the current sweep state
func (m *SweepService) State() service.SweepState {
	args := m.Called()
	return args.Get(0).(service.SweepState)
}

// MediaService is a mock implementation of service.MediaService
type MediaService struct {
	mock.Mock
}

// IssueUploadURL returns a presigned upload URL
func (m *MediaService) IssueUploadURL(ctx context.Context, req *dto.UploadURLDTO) (*dto.UploadURLResultDTO, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadURLResultDTO), args.Error(1)
}

// DirectUpload stores a base64 payload
func (m *MediaService) DirectUpload(ctx context.Context, req *dto.DirectUploadDTO) (*dto.DirectUploadResultDTO, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DirectUploadResultDTO), args.Error(1)
}
