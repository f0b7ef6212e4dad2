package database

import (
	"testing"

	modelspkg "astuceplus/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesRating(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.Rating); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Rating")
}
