package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func testCommand(t *testing.T, set map[string]string) *cobra.Command {
	cfgfile = ""
	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&repetitions, "repetitions", 5, "")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "")
	for k, v := range set {
		require.NoError(t, cmd.Flags().Set(k, v))
	}
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(testCommand(t, nil), 6)
	require.NoError(t, err)
	require.Equal(t, []int{100 << 20, 500 << 20, 1 << 30}, cfg.Sizes)
	require.Equal(t, 5, cfg.Repetitions)
	require.Equal(t, 1, cfg.MinWorkers)
	require.Equal(t, 6, cfg.MaxWorkers)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(testCommand(t, map[string]string{"repetitions": "2", "max-workers": "3"}), 6)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Repetitions)
	require.Equal(t, 3, cfg.MaxWorkers)
}

func TestLoadConfigFile(t *testing.T) {
	cmd := testCommand(t, nil)
	cfgfile = "../../testing/test-config.yml"
	defer func() { cfgfile = "" }()
	cfg, err := loadConfig(cmd, 6)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.MaxWorkers)
	require.Equal(t, 2, cfg.Repetitions)
}

func TestLoadConfigRejectsBadOverride(t *testing.T) {
	_, err := loadConfig(testCommand(t, map[string]string{"repetitions": "-1"}), 6)
	require.Error(t, err)
}

func TestLoadConfigRejectsZeroRepetitions(t *testing.T) {
	_, err := loadConfig(testCommand(t, map[string]string{"repetitions": "0"}), 6)
	require.Error(t, err)
}
