package http

import (
	"errors"
	"net/http"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/service"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/validators"
)

// errorStatusMap is checked in no particular order, so a wrapped error must
// not match two entries with different statuses.
var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrIDMismatch:              http.StatusBadRequest,
	service.ErrUnknownCollection:       http.StatusNotFound,
	service.ErrValidationNoPrincipal:   http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified:   http.StatusInternalServerError,

	validators.ErrEmptyBatch:     http.StatusBadRequest,
	validators.ErrLengthMismatch: http.StatusBadRequest,
	validators.ErrInvalidItemID:  http.StatusBadRequest,
	validators.ErrInvalidKind:    http.StatusBadRequest,
	validators.ErrInvalidBody:    http.StatusBadRequest,

	store.ErrItemNotFound:    http.StatusNotFound,
	store.ErrInvalidItem:     http.StatusBadRequest,
	store.ErrEmptyCollection: http.StatusBadRequest,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
