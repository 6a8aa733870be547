package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/controldesk/internal/model"
	"github.com/idilsaglam/controldesk/internal/ui"
)

var now = time.Date(2024, 1, 10, 9, 30, 0, 0, time.Local)

type harness struct {
	dir         string
	out, errOut *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{dir: t.TempDir(), out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	t.Chdir(h.dir)
	t.Setenv("CONTROLDESK_DATA_DIR", filepath.Join(h.dir, "data"))
	t.Setenv("CONTROLDESK_CONFIG", "")
	t.Setenv("CONTROLDESK_THEME", "mono")
	t.Setenv("CONTROLDESK_COLOR", "never")
	t.Setenv("CONTROLDESK_DEFAULT_TAG", "")
	ui.SetOutput(h.out, h.errOut)
	t.Cleanup(func() { ui.SetOutput(os.Stdout, os.Stderr) })
	return h
}

func (h *harness) run(t *testing.T, input string, args ...string) int {
	t.Helper()
	h.out.Reset()
	h.errOut.Reset()
	return Run(args, Options{In: strings.NewReader(input), Now: func() time.Time { return now }})
}

func (h *harness) runOpt(t *testing.T, opt Options, args ...string) int {
	t.Helper()
	h.out.Reset()
	h.errOut.Reset()
	opt.Now = func() time.Time { return now }
	if opt.In == nil {
		opt.In = strings.NewReader("")
	}
	return Run(args, opt)
}

func (h *harness) db(t *testing.T) model.Database {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(h.dir, "data", "deliveryControlDB.json"))
	require.NoError(t, err)
	var db model.Database
	require.NoError(t, json.Unmarshal(b, &db))
	return db
}

func TestRun_Usage(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 2, h.run(t, ""))
	assert.Equal(t, 0, h.run(t, "", "help"))
	assert.Contains(t, h.out.String(), "Subcommands:")
	assert.Equal(t, 2, h.run(t, "", "frobnicate"))
	assert.Contains(t, h.errOut.String(), "unknown subcommand: frobnicate")
}

func TestRun_AddOneOffAndList(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.runOpt(t, Options{Date: "2024-01-12"}, "add", "-t", "report", "-d", "vendor 42", "Pay", "invoice"))
	assert.Contains(t, h.out.String(), `added one-off task "Pay invoice"`)

	db := h.db(t)
	require.Len(t, db.Templates, 1)
	assert.Equal(t, model.TagReport, db.Templates[0].Tag)
	assert.Equal(t, "vendor 42", db.Templates[0].Description)
	require.Len(t, db.Instances, 1)
	assert.True(t, strings.HasSuffix(db.Instances[0].ID, "_2024-01-12"))

	require.Equal(t, 0, h.runOpt(t, Options{Date: "2024-01-12"}, "ls"))
	assert.Contains(t, h.out.String(), "Tasks for 12 January 2024")
	assert.Contains(t, h.out.String(), "1. [ ] Pay invoice [REPORT]")

	require.Equal(t, 0, h.run(t, "", "ls"))
	assert.Contains(t, h.out.String(), "Tasks for today")
	assert.Contains(t, h.out.String(), "No tasks for this date.")
}

func TestRun_AddValidation(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 2, h.run(t, "", "add"))
	assert.Equal(t, 2, h.run(t, "", "add", "  "))
	assert.Equal(t, 2, h.run(t, "", "add", "-t", "misc", "x"))
	assert.Contains(t, h.errOut.String(), "tag must be one of")
}

func TestRun_RecurringIsGeneratedOnEveryStart(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.runOpt(t, Options{Date: "2024-01-01"}, "add", "-r", "Check queue"))

	db := h.db(t)
	require.Len(t, db.Instances, 1, "only today's occurrence, no backfill")
	assert.True(t, strings.HasSuffix(db.Instances[0].ID, "_2024-01-10"))

	require.Equal(t, 0, h.run(t, "", "ls"))
	require.Equal(t, 0, h.run(t, "", "ls"))
	assert.Len(t, h.db(t).Instances, 1)
	assert.Contains(t, h.out.String(), "Check queue ↻")
}

func TestRun_ToggleByIndexAndID(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "add", "Pay invoice"))

	require.Equal(t, 0, h.run(t, "", "done", "1"))
	assert.Contains(t, h.out.String(), "completed: Pay invoice")
	db := h.db(t)
	assert.True(t, db.Instances[0].Completed)
	require.NotNil(t, db.Instances[0].CompletedAt)

	require.Equal(t, 0, h.run(t, "", "done", db.Instances[0].ID))
	assert.False(t, h.db(t).Instances[0].Completed)
	assert.Nil(t, h.db(t).Instances[0].CompletedAt)

	assert.Equal(t, 1, h.run(t, "", "done", "5"))
	assert.Contains(t, h.errOut.String(), "index out of range")
	assert.Equal(t, 1, h.run(t, "", "done", "123_2024-01-10"))
	assert.Contains(t, h.errOut.String(), "no task with id")
}

func TestRun_RemoveOneOff(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "add", "Pay invoice"))

	require.Equal(t, 0, h.run(t, "n\n", "rm", "1"))
	assert.Contains(t, h.out.String(), "cancelled")
	assert.Len(t, h.db(t).Templates, 1)

	require.Equal(t, 0, h.run(t, "y\n", "rm", "1"))
	db := h.db(t)
	assert.Empty(t, db.Templates)
	assert.Empty(t, db.Instances)
}

func TestRun_RemoveRecurringDiscontinues(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "add", "-r", "Check queue"))

	require.Equal(t, 0, h.runOpt(t, Options{Yes: true}, "rm", "1"))
	assert.Contains(t, h.out.String(), "discontinued")

	db := h.db(t)
	require.Len(t, db.Templates, 1)
	assert.False(t, db.Templates[0].IsActive)
	assert.NotNil(t, db.Templates[0].EndDate)
	assert.Len(t, db.Instances, 1)
}

func TestRun_ExportImport(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "add", "Pay invoice"))
	require.Equal(t, 0, h.run(t, "", "export"))
	name := "backup_control_desk_2024-01-10.json"
	assert.FileExists(t, filepath.Join(h.dir, name))
	before := h.db(t)

	require.Equal(t, 0, h.run(t, "y\n", "rm", "1"))
	assert.Empty(t, h.db(t).Templates)

	require.Equal(t, 0, h.run(t, "y\n", "import", name))
	assert.Contains(t, h.out.String(), "imported 1 tasks, 1 occurrences")
	assert.Equal(t, before, h.db(t))
}

func TestRun_ImportRejectsBadFile(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "add", "Pay invoice"))
	before := h.db(t)

	require.NoError(t, os.WriteFile("bad.json", []byte(`{"templates": []}`), 0o600))
	assert.Equal(t, 1, h.run(t, "y\n", "import", "bad.json"))
	assert.Contains(t, h.errOut.String(), "not a valid backup")
	assert.Equal(t, before, h.db(t))

	require.NoError(t, os.WriteFile("garbage.json", []byte(`{{{`), 0o600))
	assert.Equal(t, 1, h.run(t, "y\n", "import", "garbage.json"))
	assert.Equal(t, before, h.db(t))
}

func TestRun_ImportDeclined(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "add", "Pay invoice"))
	before := h.db(t)

	require.NoError(t, os.WriteFile("empty.json", []byte(`{"templates": [], "instances": []}`), 0o600))
	require.Equal(t, 0, h.run(t, "\n", "import", "empty.json"))
	assert.Equal(t, before, h.db(t))
}

func TestRun_CorruptStoreSelfHeals(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(filepath.Join(h.dir, "data"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "data", "deliveryControlDB.json"), []byte("nope"), 0o600))

	require.Equal(t, 0, h.run(t, "", "ls"))
	require.Equal(t, 0, h.run(t, "", "add", "fresh start"))
	assert.Len(t, h.db(t).Templates, 1)

	logged, err := os.ReadFile(filepath.Join(h.dir, "data", "controldesk.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "corrupt data")
}

func TestRun_CalendarAndStats(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "add", "-t", "sql", "Run query"))
	require.Equal(t, 0, h.run(t, "", "add", "Pay invoice"))
	require.Equal(t, 0, h.run(t, "", "done", "1"))

	require.Equal(t, 0, h.run(t, "", "cal"))
	assert.Contains(t, h.out.String(), "January 2024")
	assert.Contains(t, h.out.String(), "Wed 10  x 1  ! 1")

	require.Equal(t, 0, h.run(t, "", "cal", "2024-02"))
	assert.Contains(t, h.out.String(), "February 2024")
	assert.Equal(t, 2, h.run(t, "", "cal", "Feb"))

	require.Equal(t, 0, h.run(t, "", "stats"))
	out := h.out.String()
	assert.Contains(t, out, "Adherence")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "SQL: 1 tasks")
	assert.Contains(t, out, "GENERAL: 1 tasks")
}

func TestRun_Show(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "add", "-d", "vendor 42", "Pay invoice"))
	require.Equal(t, 0, h.run(t, "", "show", "1"))
	assert.Contains(t, h.out.String(), "vendor 42")
	assert.Contains(t, h.out.String(), "Type:   one-off")
}

func TestRun_Theme(t *testing.T) {
	h := newHarness(t)
	t.Setenv("CONTROLDESK_THEME", "")

	require.Equal(t, 0, h.run(t, "", "theme"))
	assert.Equal(t, "dark\n", h.out.String())

	require.Equal(t, 0, h.run(t, "", "theme", "light"))
	require.Equal(t, 0, h.run(t, "", "theme"))
	assert.Equal(t, "light\n", h.out.String())

	assert.Equal(t, 2, h.run(t, "", "theme", "neon"))
}

func TestRun_BadDate(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 2, h.runOpt(t, Options{Date: "10/01/2024"}, "ls"))
	assert.Contains(t, h.errOut.String(), "YYYY-MM-DD")
}
