package dto

import (
	"encoding/json"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginatedResponse(t *testing.T) {
	page := shared.NewPaginated([]string{"a", "b"}, 45, 2, 20)

	resp := NewPaginatedResponse(page)

	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewPaginatedResponse_EmptyPageIsArray(t *testing.T) {
	resp := NewPaginatedResponse(shared.NewPaginated[int](nil, 0, 1, 20))

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"data":[]`)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "is required", Tag: "required"},
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestMessageResponse_JSON(t *testing.T) {
	body, err := json.Marshal(NewMessageResponse(map[string]int{"n": 1}, "বিভাগ সফলভাবে তৈরি হয়েছে"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "বিভাগ সফলভাবে তৈরি হয়েছে", decoded["message"])
	assert.NotContains(t, decoded, "error")
	assert.NotContains(t, decoded, "meta")
}

func TestListRequest_ToFilter(t *testing.T) {
	f := ListRequest{}.ToFilter()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)

	f = ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "asc", Search: "cash"}.ToFilter()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 50, f.PageSize)
	assert.Equal(t, "name", f.OrderBy)
	assert.Equal(t, "asc", f.OrderDir)
	assert.Equal(t, "cash", f.Search)
	assert.Equal(t, 100, f.Offset())
}
