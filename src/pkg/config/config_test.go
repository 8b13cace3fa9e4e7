package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSection(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	configJSON := `{"email": {"provider": "ses", "sender_address": "reports@example.com"}}`
	require.NoError(t, os.WriteFile(configPath, []byte(configJSON), 0o644))

	InitializeConfig(configPath)
	t.Cleanup(func() { rawSections = map[string]json.RawMessage{} })

	var section struct {
		Provider      string `json:"provider"`
		SenderAddress string `json:"sender_address"`
	}

	present := DecodeSection("email", &section)
	require.True(t, present)
	assert.Equal(t, "ses", section.Provider)
	assert.Equal(t, "reports@example.com", section.SenderAddress)

	present = DecodeSection("no-such-section", &section)
	assert.False(t, present)
}

func TestInitializeConfig_MissingFileKeepsDefaults(t *testing.T) {
	InitializeConfig(filepath.Join(t.TempDir(), "nope.json"))

	var section map[string]any
	assert.False(t, DecodeSection("anything", &section))
}

func TestGetPackageName(t *testing.T) {
	assert.Equal(t, "config", GetPackageName())
}
