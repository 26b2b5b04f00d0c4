package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotYAML = `
tournament:
  id: t1
  name: Spring Open
  start_date: 2026-04-01T09:00:00Z
  end_date: 2026-04-02T18:00:00Z
  status: ongoing
  events:
    - id: e1
      type: Individual
      codes: ["3-3-3", "3-6-3", "Cycle"]
      age_brackets:
        - id: b1
          name: "8-10"
          min_age: 8
          max_age: 10
          final_criteria:
            - {classification: advance, count: 1}
registrations:
  - {id: r1, tournament_id: t1, participant_id: p1, name: Ann, age: 9, status: approved}
  - {id: r2, tournament_id: t1, participant_id: p2, name: Bo, age: 10, status: approved}
teams: []
records:
  - {id: x1, tournament_id: t1, event_id: e1, event_type: Individual, code: 3-3-3, participant_id: p1, round: prelim, try1: 2.0, try2: 2.1, try3: 2.2}
  - {id: x2, tournament_id: t1, event_id: e1, event_type: Individual, code: 3-6-3, participant_id: p1, round: prelim, try1: 2.5}
  - {id: x3, tournament_id: t1, event_id: e1, event_type: Individual, code: Cycle, participant_id: p1, round: prelim, try1: 6.0}
`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	return writeSnapshotYAML(t, snapshotYAML)
}

func writeSnapshotYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"resultsctl"}, args...))
	return out.String(), err
}

func TestLeaderboard(t *testing.T) {
	path := writeSnapshot(t)

	out, err := run(t, "leaderboard", "--snapshot", path, "--event", "e1", "--bracket", "b1")
	require.NoError(t, err)
	assert.Contains(t, out, "Individual / 8-10")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "10.500")
	assert.NotContains(t, out, "Bo")

	all, err := run(t, "leaderboard", "-s", path, "-e", "e1")
	require.NoError(t, err)
	assert.Equal(t, out, all)
}

func TestLeaderboard_Errors(t *testing.T) {
	path := writeSnapshot(t)

	_, err := run(t, "leaderboard", "--snapshot", path, "--event", "missing")
	assert.Error(t, err)

	_, err = run(t, "leaderboard", "--snapshot", filepath.Join(t.TempDir(), "absent.yaml"), "--event", "e1")
	assert.Error(t, err)

	_, err = run(t, "leaderboard", "--event", "e1")
	assert.Error(t, err, "snapshot flag is required")
}

func TestExport(t *testing.T) {
	path := writeSnapshot(t)
	dir := t.TempDir()

	for format, magic := range map[string]string{"xlsx": "PK", "pdf": "%PDF"} {
		t.Run(format, func(t *testing.T) {
			target := filepath.Join(dir, "results."+format)
			out, err := run(t, "export", "-s", path, "-e", "e1", "-f", format, "-o", target)
			require.NoError(t, err)
			assert.Contains(t, out, target)

			data, err := os.ReadFile(target)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(magic)))
		})
	}

	_, err := run(t, "export", "-s", path, "-e", "e1", "-f", "csv", "-o", filepath.Join(dir, "x.csv"))
	assert.Error(t, err)
}

func TestFinalists(t *testing.T) {
	out, err := run(t, "finalists", "-s", writeSnapshot(t), "-e", "e1", "-b", "b1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "advance")
}

func TestFinalists_WithoutRounds(t *testing.T) {
	path := writeSnapshotYAML(t, strings.ReplaceAll(snapshotYAML, "round: prelim, ", ""))

	out, err := run(t, "finalists", "-s", path, "-e", "e1", "-b", "b1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann", "records without a round still qualify")

	out, err = run(t, "finalists", "-s", path, "-e", "e1", "-b", "b1", "--round", "prelim")
	require.NoError(t, err)
	assert.NotContains(t, out, "Ann")
}
