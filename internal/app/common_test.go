package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/config"
	"github.com/blackwell-systems/gradebook/internal/datafile"
	"github.com/blackwell-systems/gradebook/internal/grades"
	"github.com/blackwell-systems/gradebook/internal/watcher"
)

// testEnv points every gradebook path into a temp HOME.
type testEnv struct {
	home     string
	stateDir string
	dataFile string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	env := &testEnv{
		home:     home,
		stateDir: filepath.Join(home, "state"),
	}
	env.dataFile = filepath.Join(env.stateDir, "grades.json")

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv(config.EnvStateDir, env.stateDir)
	t.Setenv(config.EnvDataFile, "")
	t.Setenv("NO_COLOR", "1")
	return env
}

// writeConfig writes config.yaml into the test config directory.
func (e *testEnv) writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := filepath.Join(e.home, ".config", "gradebook")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

// students loads the data file as the next command would.
func (e *testEnv) students(t *testing.T) []*grades.Student {
	t.Helper()
	students, err := datafile.New(e.dataFile).Load()
	if err != nil {
		t.Fatalf("failed to load %s: %v", e.dataFile, err)
	}
	return students
}

func (e *testEnv) student(t *testing.T, name string) *grades.Student {
	t.Helper()
	for _, s := range e.students(t) {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("student %q not in data file", name)
	return nil
}

// resetFlags restores every flag variable to its default. Cobra keeps
// parsed values between Execute calls.
func resetFlags() {
	dataPath = ""
	debug = false
	removeFlagYes = false
	gradeDeleteFlagYes = false
	listFlagSearch = ""
	exportFlagFormat = ""
	exportFlagOutput = ""
	importFlagLegacy = false
	importFlagMerge = false
	importFlagYes = false
	undoFlagList = false
	undoFlagYes = false
	historyFlagLimit = 20
	historyFlagStudent = ""
	watchFlagDebounce = watcher.DefaultDebounce
}

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}

	var stdout, stderr bytes.Buffer
	RootCmd.SetArgs(args)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		RootCmd.SetArgs([]string{})
		RootCmd.SetIn(nil)
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
	})

	err := RootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun fails the test when the command returns an error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("gradebook %s failed: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return stdout
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"90", 90, false},
		{" 92.5 ", 92.5, false},
		{"0", 0, false},
		{"101", 101, false}, // range is checked by the analyzer
		{"ninety", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseGrade(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseGrade(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseGrade(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseGrade(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePosition(t *testing.T) {
	if got, err := parsePosition("1"); err != nil || got != 0 {
		t.Errorf("parsePosition(1) = %d, %v; want 0, nil", got, err)
	}
	if got, err := parsePosition("3"); err != nil || got != 2 {
		t.Errorf("parsePosition(3) = %d, %v; want 2, nil", got, err)
	}
	if _, err := parsePosition("first"); err == nil {
		t.Error("parsePosition(first) expected error")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"yes", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetIn(strings.NewReader(tt.input))
		cmd.SetOut(&out)

		if got := confirm(cmd, "Continue?"); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Continue? [y/N]") {
			t.Errorf("prompt not printed: %q", out.String())
		}
	}
}

func TestMissingDataFileStartsEmpty(t *testing.T) {
	newTestEnv(t)

	stdout, stderr, err := runCLI(t, "", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if stderr != "" {
		t.Errorf("missing data file should not warn, got %q", stderr)
	}
	if !strings.Contains(stdout, "No students yet") {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestMalformedDataFileIsKeptBeforeOverwrite(t *testing.T) {
	env := newTestEnv(t)

	broken := []byte("{not json")
	if err := os.MkdirAll(env.stateDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.dataFile, broken, 0644); err != nil {
		t.Fatal(err)
	}

	// Reading never touches the file
	if _, stderr, err := runCLI(t, "", "list"); err != nil || !strings.Contains(stderr, "Warning") {
		t.Fatalf("list: err=%v stderr=%q", err, stderr)
	}
	if matches, _ := filepath.Glob(filepath.Join(env.stateDir, "snapshots", "*")); len(matches) != 0 {
		t.Fatalf("read-only command created snapshots: %v", matches)
	}

	_, stderr, err := runCLI(t, "", "add", "Ana")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(stderr, "Kept the unreadable data file as snapshot") {
		t.Errorf("expected raw snapshot note, got %q", stderr)
	}

	matches, err := filepath.Glob(filepath.Join(env.stateDir, "snapshots", "*.raw.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one raw snapshot, got %v (%v)", matches, err)
	}
	kept, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(kept, broken) {
		t.Errorf("raw snapshot = %q, want %q", kept, broken)
	}

	if got := env.students(t); len(got) != 1 || got[0].Name != "Ana" {
		t.Errorf("data file not rewritten: %+v", got)
	}
}

func TestUnreadableDataFileRefusesChanges(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	env := newTestEnv(t)
	mustRun(t, "add", "Ana")
	mustRun(t, "grade", "add", "Ana", "80")

	before, err := os.ReadFile(env.dataFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(env.dataFile, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(env.dataFile, 0644) })

	// Reading still works on the empty view
	if _, stderr, err := runCLI(t, "", "list"); err != nil || !strings.Contains(stderr, "Changes are refused") {
		t.Fatalf("list: err=%v stderr=%q", err, stderr)
	}

	for _, args := range [][]string{
		{"add", "Bo"},
		{"rename", "Ana", "Anabel"},
		{"grade", "add", "Ana", "90"},
	} {
		_, _, err := runCLI(t, "", args...)
		if err == nil || !strings.Contains(err.Error(), "refusing to change the gradebook") {
			t.Errorf("%v: error = %v, want refusal", args, err)
		}
	}

	if err := os.Chmod(env.dataFile, 0644); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(env.dataFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("data file changed while unreadable:\nbefore %s\nafter  %s", before, after)
	}
}

func TestBeforeChangeRefusesAfterReadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.json")
	s := &session{
		file:    datafile.New(path),
		errOut:  &bytes.Buffer{},
		readErr: errors.New("permission denied"),
	}

	err := s.beforeChange()
	if err == nil {
		t.Fatal("expected beforeChange to refuse")
	}
	if !strings.Contains(err.Error(), "permission denied") || !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should carry the cause and the path", err)
	}
	if _, err := s.snapshot("remove Ana"); err == nil {
		t.Error("snapshot should be refused too")
	}
}

func TestDataFlagOverridesEnv(t *testing.T) {
	env := newTestEnv(t)
	custom := filepath.Join(env.home, "elsewhere", "class.json")

	mustRun(t, "--data", custom, "add", "Ana")

	students, err := datafile.New(custom).Load()
	if err != nil {
		t.Fatalf("custom data file not written: %v", err)
	}
	if len(students) != 1 {
		t.Errorf("expected 1 student, got %d", len(students))
	}
	if _, err := os.Stat(env.dataFile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("default data file should not exist, stat err = %v", err)
	}
}

func TestAutosaveDisabledStillSavesOnce(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "autosave: false\n")

	mustRun(t, "add", "Ana")
	mustRun(t, "grade", "add", "Ana", "75")

	if got := env.student(t, "Ana").Grades; len(got) != 1 || got[0] != 75 {
		t.Errorf("grades = %v, want [75]", got)
	}
}

func TestAutosaveFailureWarnsButSucceeds(t *testing.T) {
	env := newTestEnv(t)
	// A directory where the data file should be makes every save fail
	if err := os.MkdirAll(env.dataFile, 0755); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runCLI(t, "", "add", "Ana")
	if err != nil {
		t.Fatalf("add should succeed even when saving fails: %v", err)
	}
	if !strings.Contains(stderr, "change not saved") {
		t.Errorf("expected save warning, got %q", stderr)
	}
}

func TestDebugFlagReportsLogPath(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := runCLI(t, "", "--debug", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	logPath := filepath.Join(env.stateDir, "logs", "gradebook.log")
	if !strings.Contains(stderr, "Debug log: "+logPath) {
		t.Errorf("stderr = %q, want log path %s", stderr, logPath)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"session.open"`) {
		t.Errorf("debug record missing from log:\n%s", data)
	}
}
