package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("MK_TEST_VALUE", "  set ")
	assert.Equal(t, "set", GetEnvOrDefault("MK_TEST_VALUE", "fallback"))

	t.Setenv("MK_TEST_VALUE", "   ")
	assert.Equal(t, "fallback", GetEnvOrDefault("MK_TEST_VALUE", "fallback"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b,"))
	assert.Empty(t, SplitList(""))
}
