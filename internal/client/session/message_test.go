package session

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestExtractErrorMessage(t *testing.T) {
	transport := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		body string
		err  error
		want string
	}{
		{"error field wins", `{"error":"bad token","message":"ignored"}`, transport, "bad token"},
		{"message field", `{"message":"name is required"}`, transport, "name is required"},
		{"blank fields fall through", `{"error":"  ","message":""}`, transport, transport.Error()},
		{"non json body", `<html>502</html>`, transport, transport.Error()},
		{"json array body", `[1,2]`, transport, transport.Error()},
		{"nothing at all", ``, nil, common.GenericErrorMessage},
		{"empty error text", ``, errors.New(" "), common.GenericErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractErrorMessage([]byte(tt.body), tt.err))
		})
	}
}

func TestCallError(t *testing.T) {
	inner := errors.New("request failed with status code 500")
	err := &CallError{Method: "GET", Endpoint: "/x", Status: 500, Message: "boom", Err: inner}

	assert.Equal(t, "GET /x: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "checking", StateChecking.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "unknown", State(42).String())
}
