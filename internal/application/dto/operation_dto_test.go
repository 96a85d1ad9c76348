package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Clave ausente, null explícito y valor son tres casos distintos: el patch
// parcial depende de no colapsarlos.
func TestNullableString_AusenteNullYValor(t *testing.T) {
	var in UpdateOperationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"x"}`), &in))
	assert.False(t, in.SellerID.Set)
	assert.Nil(t, in.SellerID.Ref())

	in = UpdateOperationRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"seller_id":null}`), &in))
	assert.True(t, in.SellerID.Set)
	ref := in.SellerID.Ref()
	require.NotNil(t, ref)
	assert.Nil(t, *ref)

	in = UpdateOperationRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"seller_id":"seller-1"}`), &in))
	ref = in.SellerID.Ref()
	require.NotNil(t, ref)
	require.NotNil(t, *ref)
	assert.Equal(t, "seller-1", **ref)
}
