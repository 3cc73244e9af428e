package mocks

import (
	"AdBoard/internal/model"
	"AdBoard/internal/repository"
	"context"

	"github.com/stretchr/testify/mock"
)

// AdRepo is a mock implementation of repository.AdRepo
type AdRepo struct {
	mock.Mock
}

// Put persists a record
func (m *AdRepo) Put(ctx context.Context, ad *model.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

// Get loads a record by id
func (m *AdRepo) Get(ctx context.Context, id string) (*model.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

// Update sets attributes on an existing record
func (m *AdRepo) Update(ctx context.Context, id string, attrs map[string]any) (*model.Ad, error) {
	args := m.Called(ctx, id, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

// IncrementCounter adds delta to a numeric attribute
func (m *AdRepo) IncrementCounter(ctx context.Context, id, attr string, delta int64) (int64, error) {
	args := m.Called(ctx, id, attr, delta)
	return args.Get(0).(int64), args.Error(1)
}

// AppendComment appends a comment to a record
func (m *AdRepo) AppendComment(ctx context.Context, id string, comment model.Comment, updatedAt string) error {
	args := m.Called(ctx, id, comment, updatedAt)
	return args.Error(0)
}

// Delete removes a record and returns its previous attributes
func (m *AdRepo) Delete(ctx context.Context, id string) (*model.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

// Scan returns one page of filtered records
func (m *AdRepo) Scan(ctx context.Context, filter repository.Filter, limit int, startKey string) (*repository.ScanResult, error) {
	args := m.Called(ctx, filter, limit, startKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ScanResult), args.Error(1)
}
