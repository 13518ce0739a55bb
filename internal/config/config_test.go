package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t,
		[]string{"http://localhost:3000", "https://example.com"},
		splitOrigins("http://localhost:3000, https://example.com"))
	assert.Empty(t, splitOrigins(" , "))
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_TEMPERATURE", "0.7")
	assert.Equal(t, 0.7, getEnvAsFloat("TEST_TEMPERATURE", 0))
	assert.Equal(t, 0.3, getEnvAsFloat("TEST_TEMPERATURE_MISSING", 0.3))

	t.Setenv("TEST_TEMPERATURE_BAD", "warm")
	assert.Equal(t, 0.0, getEnvAsFloat("TEST_TEMPERATURE_BAD", 0))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_PING", "250ms")
	assert.Equal(t, 250*time.Millisecond, getEnvAsDuration("TEST_PING", time.Second))
	assert.Equal(t, 5*time.Second, getEnvAsDuration("TEST_PING_MISSING", 5*time.Second))
}
