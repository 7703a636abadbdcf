package appErrors_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
)

func TestNetworkErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("submit: %w", appErrors.NewNetwork("POST communications", io.ErrUnexpectedEOF))

	var netErr *appErrors.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "POST communications", netErr.Op)
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "validation failed: message must not be empty",
		appErrors.NewValidation("message", "must not be empty").Error())
	assert.Equal(t, "validation failed: bad input",
		appErrors.NewValidation("", "bad input").Error())
}
