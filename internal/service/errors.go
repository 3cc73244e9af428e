package service

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStorage          = errors.New("storage error")
	ErrMalformedInput   = errors.New("malformed input")
	ErrSweepInProgress  = errors.New("sweep already in progress")
)

// ErrorKind HTTP 状态码与对外的错误类别
type ErrorKind struct {
	Status int
	Kind   string
	// Expose 为 false 时不向调用方返回具体信息
	Expose bool
}

var ErrorMap = map[error]ErrorKind{
	ErrValidation:       {Status: http.StatusBadRequest, Kind: "ValidationError", Expose: true},
	ErrMalformedInput:   {Status: http.StatusBadRequest, Kind: "MalformedInput", Expose: true},
	ErrPermissionDenied: {Status: http.StatusForbidden, Kind: "PermissionDenied", Expose: true},
	ErrNotFound:         {Status: http.StatusNotFound, Kind: "NotFound", Expose: true},
	ErrSweepInProgress:  {Status: http.StatusConflict, Kind: "SweepInProgress", Expose: true},
	ErrStorage:          {Status: http.StatusInternalServerError, Kind: "StorageError", Expose: false},
}

var UnexpectedKind = ErrorKind{Status: http.StatusInternalServerError, Kind: "InternalError", Expose: false}

// Classify 按 errors.Is 匹配错误类别
func Classify(err error) (ErrorKind, bool) {
	for kindErr, kind := range ErrorMap {
		if errors.Is(err, kindErr) {
			return kind, true
		}
	}
	return UnexpectedKind, false
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(id string) error {
	return fmt.Errorf("%w: ad %s", ErrNotFound, id)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
