//go:build !windows

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginApp(t *testing.T) {
	a := loginApp("tunebar", "/usr/local/bin/tunebar")

	assert.Equal(t, "com.github.mchmarny.tunebar", a.Name)
	assert.Equal(t, "tunebar", a.DisplayName)
	assert.Equal(t, []string{"/usr/local/bin/tunebar"}, a.Exec)
}
