package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestCustomGormLogger_LogMode(t *testing.T) {
	base := NewGormLogger()

	silenced := base.LogMode(logger.Silent)
	assert.NotSame(t, base, silenced)

	// The original logger keeps its level.
	orig, ok := base.(*CustomGormLogger)
	assert.True(t, ok)
	assert.Equal(t, logger.Warn, orig.Config.LogLevel)

	updated, ok := silenced.(*CustomGormLogger)
	assert.True(t, ok)
	assert.Equal(t, logger.Silent, updated.Config.LogLevel)
}
