package cli_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/do-it-later/internal/cli"
	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/store"
	"github.com/nhle/do-it-later/internal/sync"
	"github.com/nhle/do-it-later/tests/testutil"
)

var now = testutil.Day(2025, 3, 14)

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, nil }

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

type harness struct {
	t     *testing.T
	store *store.MemoryStore
	clip  *fakeClipboard
	cfg   string
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:     t,
		store: store.NewMemoryStore(),
		clip:  &fakeClipboard{},
		cfg:   filepath.Join(t.TempDir(), "config.yaml"),
	}
}

// run executes one command line against the shared store and returns
// stdout, stderr and the error.
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()

	var out, errOut bytes.Buffer
	c := &cli.CLI{
		In:        strings.NewReader(stdin),
		Out:       &out,
		Err:       &errOut,
		Now:       testutil.NewClock(now).Now,
		Clipboard: h.clip,
		OpenStore: func(context.Context) (store.Store, error) { return h.store, nil },
	}
	cmd := c.Command()
	cmd.SetArgs(append([]string{"--config", h.cfg}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()

	out, _, err := h.run("", args...)
	require.NoError(h.t, err)
	return out
}

func (h *harness) stored() *model.TaskSet {
	h.t.Helper()

	payload, err := h.store.Get(context.Background(), store.KeyData)
	require.NoError(h.t, err)
	set, err := sync.DecodeJSON(payload, now)
	require.NoError(h.t, err)
	return set
}

func (h *harness) idOf(text string) string {
	h.t.Helper()

	for _, t := range h.stored().Tasks {
		if t.Text == text {
			return t.ID
		}
	}
	h.t.Fatalf("no task %q", text)
	return ""
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "Write", "report")
	assert.Contains(t, out, "to Today: Write report")
	h.mustRun("add", "--list", "later", "--deadline", "2025-03-20", "Plan trip")

	out = h.mustRun("list")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "Plan trip")
	assert.Contains(t, out, "2025-03-20")
	assert.Contains(t, out, "Tasks completed lifetime: 0")

	out = h.mustRun("list", "--list", "today")
	assert.NotContains(t, out, "Plan trip")
}

func TestAdd_RejectsBadInput(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "add", "--list", "someday", "x")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, _, err = h.run("", "add", "--deadline", "next week", "x")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, _, err = h.run("", "add", "--parent", "missing", "x")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestAddSubtask_ListsUnderParent(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Move house")
	parent := h.idOf("Move house")

	h.mustRun("add", "--parent", parent[:8], "Pack books")

	set := h.stored()
	require.Len(t, set.Tasks, 2)
	assert.Equal(t, parent, set.Tasks[1].ParentID)
	assert.Contains(t, h.mustRun("list"), "└ Pack books")
}

func TestDone_TogglesByPrefixAndCounts(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Write report")
	id := h.idOf("Write report")

	out := h.mustRun("done", id[:8])
	assert.Contains(t, out, "Completed: Write report")
	assert.Equal(t, 1, h.stored().TotalCompleted)

	out = h.mustRun("done", id)
	assert.Contains(t, out, "Reopened: Write report")
	assert.Zero(t, h.stored().TotalCompleted)
}

func TestMoveImportantDelete(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Write report")
	id := h.idOf("Write report")

	assert.Contains(t, h.mustRun("move", id), "Moved to Later")
	assert.Equal(t, model.ListLater, h.stored().Tasks[0].List)

	assert.Contains(t, h.mustRun("important", id), "Marked important")
	assert.True(t, h.stored().Tasks[0].Important)

	assert.Contains(t, h.mustRun("delete", id), "Deleted 1 task(s)")
	assert.Empty(t, h.stored().Tasks)
}

func TestEditAndDeadline(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Write report")
	id := h.idOf("Write report")

	h.mustRun("edit", id, "Write", "final", "report")
	assert.Equal(t, "Write final report", h.stored().Tasks[0].Text)

	h.mustRun("deadline", id, "2025-03-18")
	require.NotNil(t, h.stored().Tasks[0].Deadline)
	assert.Equal(t, "2025-03-18", h.stored().Tasks[0].Deadline.String())

	_, _, err := h.run("", "deadline", id)
	assert.True(t, errors.Is(err, model.ErrValidation))

	h.mustRun("deadline", "--clear", id)
	assert.Nil(t, h.stored().Tasks[0].Deadline)
}

func TestUnknownTask(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "done", "nope")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestExport_Formats(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Write report")
	h.mustRun("add", "--list", "later", "Plan trip")

	assert.Equal(t, "T:Write report~L:Plan trip\n", h.mustRun("export", "--format", "sync"))

	text := h.mustRun("export")
	assert.True(t, strings.HasPrefix(text, "Do It (Later) - Friday, March 14, 2025\n"))
	assert.Contains(t, text, "□ Plan trip")

	_, _, err := h.run("", "export", "--format", "xml")
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestExport_Clipboard(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Write report")

	out, errOut, err := h.run("", "export", "--format", "sync", "--clipboard")
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Contains(t, errOut, "Copied")
	assert.Equal(t, "T:Write report", h.clip.text)
}

func TestImport_MergeFromStdin(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Write report")

	out, _, err := h.run("T:Write report|Call mom~L:Plan trip~C:7", "import")
	require.NoError(t, err)

	assert.Contains(t, out, "Imported compact payload (merge): 1 tasks before, 3 now")
	set := h.stored()
	assert.Len(t, set.Tasks, 3)
	assert.Equal(t, 7, set.TotalCompleted)
}

func TestImport_ReplaceThenRestore(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Write report")
	h.clip.text = "T:Something else"

	_, _, err := h.run("", "import", "--clipboard", "--mode", "replace")
	require.NoError(t, err)
	require.Len(t, h.stored().Tasks, 1)
	assert.Equal(t, "Something else", h.stored().Tasks[0].Text)

	assert.Contains(t, h.mustRun("restore"), "Restored 1 tasks")
	assert.Equal(t, "Write report", h.stored().Tasks[0].Text)
}

func TestImport_Unrecognized(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("hello world", "import")
	assert.True(t, errors.Is(err, model.ErrUnrecognizedFormat))

	_, _, err = h.run("T:a", "import", "--mode", "append")
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestQR(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "qr")
	assert.True(t, errors.Is(err, model.ErrValidation))

	h.mustRun("add", "Write report")
	out := h.mustRun("qr")
	assert.NotEmpty(t, strings.TrimSpace(out))

	png := filepath.Join(t.TempDir(), "sync.png")
	_, errOut, err := h.run("", "qr", "--png", png)
	require.NoError(t, err)
	assert.Contains(t, errOut, png)
	assert.FileExists(t, png)
}

func TestRollover_AlreadyCurrent(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun("rollover"), "Already up to date for 2025-03-14")
}

func TestRollover_ReportsStaleSet(t *testing.T) {
	h := newHarness(t)
	old := model.NewTaskSet(now.AddDate(0, 0, -1))
	old.Tasks = append(old.Tasks, &model.Task{ID: "a", Text: "Old done", Completed: true, List: model.ListToday, CreatedAt: now.UnixMilli()})
	payload, err := sync.EncodeJSON(old)
	require.NoError(t, err)
	require.NoError(t, h.store.Put(context.Background(), store.KeyData, payload))

	out := h.mustRun("rollover")

	assert.Contains(t, out, "New day! 1 completed tasks cleaned up")
	assert.Empty(t, h.stored().Tasks)
}

func TestConfigInit_WritesFile(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("config", "init")

	assert.Contains(t, out, h.cfg)
	assert.FileExists(t, h.cfg)
	assert.Contains(t, h.mustRun("config", "show"), "display.theme: dark")
}
