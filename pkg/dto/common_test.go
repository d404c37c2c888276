package dto

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: `12.5`, want: 12.5},
		{in: `"12,5"`, want: 12.5},
		{in: `" 7.25 "`, want: 7.25},
		{in: `0`, want: 0},
	}

	for _, tt := range tests {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(tt.in), &a), tt.in)
		assert.Equal(t, tt.want, float64(a), tt.in)
	}
}

func TestAmount_UnparseableStringIsNaN(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"twelve"`), &a))
	assert.True(t, math.IsNaN(float64(a)))
}

func TestAmount_RejectsOtherTypes(t *testing.T) {
	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestShoppingRequest_OptionalQuantity(t *testing.T) {
	var req ShoppingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Milk"}`), &req))
	assert.Nil(t, req.QtyValue.Float())

	require.NoError(t, json.Unmarshal([]byte(`{"title":"Milk","qtyValue":"1,5"}`), &req))
	require.NotNil(t, req.QtyValue.Float())
	assert.Equal(t, 1.5, *req.QtyValue.Float())
}
