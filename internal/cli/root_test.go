// internal/cli/root_test.go
package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tamzrod/plcbridge/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "plcbridge", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"scan", "inbound", "outbound", "check"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			require.NotNil(t, sub)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	cfgFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfgFlag)
	assert.Equal(t, "c", cfgFlag.Shorthand)
	assert.Equal(t, "", cfgFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "plcbridge.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestCheck_PrintsNormalized(t *testing.T) {
	path := writeConfig(t, `
bridge:
  broker:
    password: hunter2
  scan:
    outputs: ["%QX0.0", "QW1"]
`)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check", "--config", path})
	require.NoError(t, cmd.Execute())

	var got config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))

	assert.Equal(t, []string{"QX0.0", "QW1"}, got.Bridge.Scan.Outputs)
	assert.Equal(t, config.DefaultBrokerPort, got.Bridge.Broker.Port)
	assert.Equal(t, config.DefaultScanPeriodMs, got.Bridge.Scan.PeriodMs)
	assert.NotContains(t, out.String(), "hunter2")
}

func TestCheck_WarnsAboutReadOnlyAreas(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"check"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "warning: areas IW, IX map to read-only")

	path := writeConfig(t, `
bridge:
  controller:
    modbus:
      areas:
        IX: {table: coil, offset: 800}
        IW: {table: holding_register, offset: 2048}
`)
	errOut.Reset()
	cmd = NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"check", "-c", path})
	require.NoError(t, cmd.Execute())
	assert.NotContains(t, errOut.String(), "warning")
}

func TestCheck_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
bridge:
  scan:
    outputs: ["QX0.0", "%QX0.0"]
`)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", "-c", path})
	assert.Error(t, cmd.Execute())
}

func TestCheck_BadLogLevelFlag(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", "--log-level", "loud"})
	assert.Error(t, cmd.Execute())
}

func TestScan_MemoryControllerUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.json")
	out := filepath.Join(dir, "output.json")

	path := writeConfig(t, `
bridge:
  store:
    inbound_path: `+in+`
    outbound_path: `+out+`
  scan:
    period_ms: 5
    outputs: ["QX0.0"]
  controller:
    kind: memory
`)
	require.NoError(t, os.WriteFile(in, []byte(`{"%QX0.0": true}`), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	cmd := NewRootCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"scan", "-c", path, "--log-level", "error"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `{"%QX0.0":true}`, string(raw))
}
