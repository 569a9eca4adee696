package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFavouritesAdd(t *testing.T) {
	favs := Favourites{"DE, FR"}

	got, changed := favs.Add("  US, BR ")
	assert.True(t, changed)
	assert.Equal(t, Favourites{"DE, FR", "US, BR"}, got)
	assert.Equal(t, Favourites{"DE, FR"}, favs, "receiver must not be modified")

	got, changed = got.Add("DE, FR")
	assert.False(t, changed)
	assert.Len(t, got, 2)

	_, changed = got.Add("   ")
	assert.False(t, changed)
}

func TestFavouritesRemove(t *testing.T) {
	favs := Favourites{"DE, FR", "US", "SE, NO"}

	got, changed := favs.Remove("US")
	assert.True(t, changed)
	assert.Equal(t, Favourites{"DE, FR", "SE, NO"}, got)
	assert.Equal(t, Favourites{"DE, FR", "US", "SE, NO"}, favs)

	_, changed = got.Remove("XX")
	assert.False(t, changed)

	assert.True(t, favs.Contains("SE, NO"))
	assert.False(t, got.Contains("US"))
}
