package app_test

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
)

func civilDate(t *testing.T, s string) *civil.Date {
	t.Helper()

	d, err := civil.ParseDate(s)
	require.NoError(t, err)
	return &d
}
