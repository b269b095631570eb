package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingEnvVars(t *testing.T) {
	t.Setenv("WORKHUB_TEST_SET", "value")
	t.Setenv("WORKHUB_TEST_EMPTY", "")

	assert.Empty(t, missingEnvVars("WORKHUB_TEST_SET"))
	assert.Equal(t, []string{"WORKHUB_TEST_EMPTY"}, missingEnvVars("WORKHUB_TEST_EMPTY"))
	assert.Equal(t, []string{"WORKHUB_TEST_ABSENT"}, missingEnvVars("WORKHUB_TEST_SET", "WORKHUB_TEST_ABSENT"))
	assert.Equal(t,
		[]string{"WORKHUB_TEST_EMPTY", "WORKHUB_TEST_ABSENT"},
		missingEnvVars("WORKHUB_TEST_EMPTY", "WORKHUB_TEST_SET", "WORKHUB_TEST_ABSENT"))
}
