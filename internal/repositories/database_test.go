package repositories

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"testing"

	"cafe/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGORMLogger_SkipsRecordNotFound(t *testing.T) {
	db, err := OpenGORM("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()))
	require.NoError(t, err)

	var buf bytes.Buffer
	session := db.Session(&gorm.Session{Logger: newGORMLogger(log.New(&buf, "", 0))})

	err = session.First(&models.User{}, "username = ?", "ghost").Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, buf.String())

	var n int
	err = session.Raw("SELECT count(*) FROM missing_table").Scan(&n).Error
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "missing_table")
}
