package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_JSON(t *testing.T) {
	out, err := execute(t, "", "simulate", "--ticks", "120", "--seed", "42", "--format", "json")
	require.NoError(t, err)

	var result SimulateResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)

	r := result.Report
	assert.Equal(t, 120, r.Ticks)
	assert.Equal(t, 1, r.Final.Stats.Shift, "120 ticks close one shift")
	assert.Equal(t, 9.0, r.Final.Time)
	assert.Equal(t, r.Served, r.Final.Stats.OrdersIssued)
	assert.Equal(t, 25000+r.Final.Stats.Bonus, r.Final.Income)
	assert.Empty(t, result.Journal, "journal tail is opt-in")
}

func TestSimulate_Reproducible(t *testing.T) {
	first, err := execute(t, "", "simulate", "--ticks", "200", "--seed", "7", "--format", "json")
	require.NoError(t, err)
	second, err := execute(t, "", "simulate", "--ticks", "200", "--seed", "7", "--format", "json")
	require.NoError(t, err)

	var a, b SimulateResult
	decodeData(t, first, &a)
	decodeData(t, second, &b)
	assert.Equal(t, a.Report.Final.Stats, b.Report.Final.Stats)
	assert.Equal(t, len(a.Report.Final.Orders), len(b.Report.Final.Orders))
}

func TestSimulate_Text(t *testing.T) {
	out, err := execute(t, "", "simulate", "--ticks", "10", "--seed", "3", "--tail", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Simulated 10 ticks, now 10:00 (shift 0)")
	assert.Contains(t, out, "Income: ")
	assert.Contains(t, out, "rating 5.0")
}

func TestSimulate_Tail(t *testing.T) {
	out, err := execute(t, "", "simulate", "--ticks", "60", "--seed", "11", "--tail", "3", "--low-stock", "100", "--format", "json")
	require.NoError(t, err)

	var result SimulateResult
	decodeData(t, out, &result)
	require.NotEmpty(t, result.Journal)
	assert.LessOrEqual(t, len(result.Journal), 3)
	for i := 1; i < len(result.Journal); i++ {
		assert.Less(t, result.Journal[i-1].Seq, result.Journal[i].Seq, "tail is in journal order")
	}
}

func TestSimulate_JournalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shift.db")

	_, err := execute(t, "", "simulate", "--ticks", "60", "--seed", "5", "--low-stock", "100", "--journal", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err, "journal file should exist after the session")

	out, err := execute(t, "", "journal", path, "--last", "5", "--format", "json")
	require.NoError(t, err)

	var summary JournalSummary
	decodeData(t, out, &summary)
	assert.Equal(t, path, summary.Path)
	assert.Positive(t, summary.Total)
	assert.LessOrEqual(t, len(summary.Entries), 5)

	sum := 0
	for _, n := range summary.ByKind {
		sum += n
	}
	assert.Equal(t, summary.Total, sum)

	// A second session starts its journal afresh.
	_, err = execute(t, "", "simulate", "--ticks", "0", "--journal", path)
	require.NoError(t, err)
	out, err = execute(t, "", "journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+": 0 entries")
}

func TestSimulate_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("spawn_chance: 2\n"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"negative ticks", []string{"simulate", "--ticks", "-1"}},
		{"invalid config", []string{"simulate", "--config", bad}},
		{"missing config", []string{"simulate", "--config", filepath.Join(dir, "nope.yaml")}},
		{"unknown locale", []string{"simulate", "--locale", "fr"}},
		{"positional args", []string{"simulate", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			if tt.name != "positional args" {
				assert.Equal(t, ExitCommandError, GetExitCode(err))
			}
		})
	}
}

func TestJournal_RejectsMemory(t *testing.T) {
	_, err := execute(t, "", "journal", ":memory:")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFormatAt(t *testing.T) {
	assert.Equal(t, "0:01.500", formatAt(1500))
	assert.Equal(t, "6:00.000", formatAt(360000))
	assert.Equal(t, "1:03.007", formatAt(63007))
}
