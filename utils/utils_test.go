package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	list := []string{"Ops@Example.com", " team@example.com "}

	assert.True(t, ContainsFold(list, "ops@example.com"))
	assert.True(t, ContainsFold(list, "team@example.com"))
	assert.False(t, ContainsFold(list, "other@example.com"))
	assert.False(t, ContainsFold(nil, "ops@example.com"))
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "", Deref[string](nil))
	assert.Equal(t, 7, Deref(ToPtr(7)))
}
