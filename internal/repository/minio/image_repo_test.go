package minio

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError("k", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}), e.ErrNotFound)

	other := minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
	assert.NotErrorIs(t, mapError("k", other), e.ErrNotFound)

	plain := errors.New("dial tcp: connection refused")
	assert.Equal(t, plain, mapError("k", plain))
}
