package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/pkg/errors"
)

func TestParseSort(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?sort=IC50&order=DESC&toggle=name&toggle=potency", nil)
	q, err := parseSort(r)
	require.NoError(t, err)
	require.NotNil(t, q.state)
	assert.Equal(t, ranking.SortState{Field: ranking.FieldPotency, Direction: ranking.Desc}, *q.state)
	assert.Equal(t, []ranking.SortField{ranking.FieldName, ranking.FieldPotency}, q.toggles)

	q, err = parseSort(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, q.state)
	assert.Empty(t, q.toggles)
}

func TestWriteError_HidesInternalText(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.Wrap(errors.Internal("db password is hunter2"), errors.CodeInternal, "boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "COMMON_001", body.Code)
	assert.Equal(t, "internal server error", body.Message)
}

func TestWriteError_ShowsInvalidParamMessage(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.InvalidParam("disease is required"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"COMMON_002","message":"disease is required"}`, w.Body.String())
}
