package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	db, err := Open("oracle", "whatever")
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "oracle")
}
