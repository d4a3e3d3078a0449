package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakoutsentinel/sentinel/internal/config"
	"github.com/breakoutsentinel/sentinel/internal/model"
	"github.com/breakoutsentinel/sentinel/internal/scanner"
)

func writeTestConfig(t *testing.T, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	body := "universe: [AAA, BBB]\n" +
		"storage:\n" +
		"  snapshot_path: " + filepath.Join(dir, "signals.json") + "\n" +
		"  history_path: " + filepath.Join(dir, "history.csv") + "\n" +
		"log:\n  level: error\n" + extra
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path, dir
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := rootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "serve", "diagnose", "alert-test", "sample", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd(t *testing.T) {
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "sentinel version "+version+"\n", out.String())
}

func TestSampleCmd_WritesSnapshotAndHistory(t *testing.T) {
	path, dir := writeTestConfig(t, "")

	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"sample", "--config", path, "--json"})
	require.NoError(t, root.Execute())

	var printed []model.Signal
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	require.Len(t, printed, 2)
	assert.Equal(t, "AAA", printed[0].Symbol)
	assert.Equal(t, "BBB", printed[1].Symbol)

	data, err := os.ReadFile(filepath.Join(dir, "signals.json"))
	require.NoError(t, err)
	var stored []model.Signal
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, printed, stored)

	hist, err := os.ReadFile(filepath.Join(dir, "history.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(hist)), "\n"), 3)
}

func TestAlertTestCmd_NotConfigured(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	path, _ := writeTestConfig(t, "")

	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"alert-test", "--config", path})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestBuildChain_Order(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"nse", "yahoo"}, buildChain(cfg, zerolog.Nop()).Names())

	cfg.Sources.AlphaVantage.APIKey = "key"
	assert.Equal(t, []string{"alphavantage", "nse", "yahoo"}, buildChain(cfg, zerolog.Nop()).Names())

	cfg.Sources.NSE.Disabled = true
	assert.Equal(t, []string{"alphavantage", "yahoo"}, buildChain(cfg, zerolog.Nop()).Names())
}

func TestPrintReport_Table(t *testing.T) {
	rep := &scanner.Report{
		RunID:   "r1",
		Scanned: 2,
		Skipped: 1,
		Signals: []model.Signal{{
			Symbol: "AAA", BuyPrice: 100.1, StopLoss: 95, Target: 107.5,
			Confidence: 0.85, HoldingDuration: model.HoldingLong, SignalTime: time.Now(),
		}},
	}
	var out bytes.Buffer
	require.NoError(t, printReport(&out, rep, false))
	text := out.String()
	assert.Contains(t, text, "run r1: scanned 2, skipped 1, 1 signal(s)")
	assert.Contains(t, text, "AAA")
	assert.Contains(t, text, "100.10")
	assert.Contains(t, text, "long")
}

func TestPrintReport_EmptyJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printReport(&out, &scanner.Report{}, true))
	assert.Equal(t, "[]\n", out.String())
}
