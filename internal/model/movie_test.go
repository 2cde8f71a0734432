package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateMovieInputIsEmpty(t *testing.T) {
	title := "Heat"
	minutes := int32(170)

	assert.True(t, UpdateMovieInput{}.IsEmpty())
	assert.False(t, UpdateMovieInput{Title: &title}.IsEmpty())
	assert.False(t, UpdateMovieInput{Minutes: &minutes}.IsEmpty())
}
