package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortID(t *testing.T) {
	assert.Equal(t, "6f1c2a9e", shortID("6f1c2a9e-0000-4000-8000-000000000001"))
	assert.Equal(t, "run1", shortID("run1"))
	assert.Equal(t, "", shortID(""))
}
