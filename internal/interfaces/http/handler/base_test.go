package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBaseHandler_Fail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, shared.CodeNotFound, "Resource not found"},
		{"validation", shared.NewValidationError("Basket is empty"), http.StatusBadRequest, shared.CodeValidation, "Basket is empty"},
		{"forbidden", shared.NewDomainError(shared.CodeForbidden, "no"), http.StatusForbidden, shared.CodeForbidden, "no"},
		{"invalid state", shared.NewDomainError(shared.CodeInvalidState, "closed"), http.StatusConflict, shared.CodeInvalidState, "closed"},
		{"wrapped", fmt.Errorf("submit: %w", shared.ErrConcurrencyConflict), http.StatusConflict, shared.CodeConcurrency, "Resource was modified by another process"},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "INTERNAL_ERROR", "Request timed out"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h := &BaseHandler{}
			h.Fail(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			assert.Len(t, c.Errors, 1)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["Status"])
			assert.Equal(t, tt.wantCode, body["Code"])
			assert.Equal(t, tt.wantMsg, body["Errors"])
		})
	}
}

func TestBaseHandler_FailLogsUnknownErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(logger.GinContextKey, zap.New(core))

	h := &BaseHandler{}
	h.Fail(c, shared.ErrNotFound)
	assert.Zero(t, logs.Len(), "domain errors are expected outcomes")

	h.Fail(c, errors.New("connection reset"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

type bindTarget struct {
	Name  string `json:"name" form:"name" binding:"required,max=5"`
	Count int    `json:"count" form:"count" binding:"omitempty,min=1"`
}

func TestBaseHandler_BindJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
	}{
		{"valid", `{"name":"ab","count":2}`, true, http.StatusOK},
		{"missing required", `{"count":2}`, false, http.StatusBadRequest},
		{"unknown field", `{"name":"ab","extra":1}`, false, http.StatusBadRequest},
		{"malformed", `{"name":`, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var target bindTarget
			ok := (&BaseHandler{}).bindJSON(c, &target)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, "ab", target.Name)
				return
			}
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestBaseHandler_BindQuery(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?name=abcdefgh", nil)

	var target bindTarget
	assert.False(t, (&BaseHandler{}).bindQuery(c, &target))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, shared.CodeValidation, body["Code"])
}

func TestParseOptionalUUID(t *testing.T) {
	assert.Nil(t, parseOptionalUUID(""))

	id := uuid.New()
	parsed := parseOptionalUUID(id.String())
	require.NotNil(t, parsed)
	assert.Equal(t, id, *parsed)
}
