package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Contains(t, info, "Hibiki")
	assert.Contains(t, info, GetVersion())
	assert.Contains(t, info, GetBuildTime())
}
