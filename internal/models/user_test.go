package models_test

import (
	"encoding/json"
	"testing"

	"cafe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_ScanAndValue(t *testing.T) {
	list := models.StringList{"Hanoi", "Hanoi", "Da Nang"}
	v, err := list.Value()
	require.NoError(t, err)

	var back models.StringList
	require.NoError(t, back.Scan(v))
	assert.Equal(t, list, back) // order and duplicates preserved

	var empty models.StringList
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)

	assert.Error(t, back.Scan(42))
}

func TestUser_JSONHidesPassword(t *testing.T) {
	u := models.User{Username: "alice", Password: "secret-hash"}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")
	assert.Contains(t, string(b), `"addresses":[]`)
}

func TestUser_HasAddress(t *testing.T) {
	u := models.User{Addresses: models.StringList{"Hanoi"}}
	assert.True(t, u.HasAddress("Hanoi"))
	assert.False(t, u.HasAddress("Hue"))
}
