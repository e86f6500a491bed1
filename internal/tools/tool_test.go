package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyChecker_IsAvailable(t *testing.T) {
	dc := &DependencyChecker{tools: []*ExternalTool{
		{Name: "sh", Required: true},
		{Name: "no-such-tool-5f21", Required: false},
	}}

	assert.True(t, dc.IsAvailable("sh"))
	assert.False(t, dc.IsAvailable("no-such-tool-5f21"))
	assert.False(t, dc.IsAvailable("never-listed"))
}

func TestDependencyChecker_MissingRequired(t *testing.T) {
	dc := &DependencyChecker{tools: []*ExternalTool{
		{Name: "sh", Required: true},
		{Name: "no-such-tool-5f21", Required: true},
		{Name: "also-missing-9c04", Required: false},
	}}

	assert.Equal(t, []string{"no-such-tool-5f21"}, dc.MissingRequired())
}

func TestFormatStatus(t *testing.T) {
	out := FormatStatus([]ToolStatus{
		{Name: "airodump-ng", Available: true, Path: "/usr/sbin/airodump-ng", Version: "1.7"},
		{Name: "tshark", Available: false, Required: false, Note: "alternate handshake inspection"},
		{Name: "airmon-ng", Available: false, Required: true},
	})

	assert.Contains(t, out, "[+] airodump-ng")
	assert.Contains(t, out, "1.7")
	assert.Contains(t, out, "(optional)")
	assert.Contains(t, out, "alternate handshake inspection")
	assert.Contains(t, out, "(REQUIRED)")
}
