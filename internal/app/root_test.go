package app

import (
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "gradebook" {
		t.Errorf("expected Use to be 'gradebook', got '%s'", RootCmd.Use)
	}
	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}
	if !RootCmd.SilenceUsage || !RootCmd.SilenceErrors {
		t.Error("expected usage and errors to be silenced; main prints errors")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expected := []string{
		"add", "rename", "remove", "show", "grade", "list", "search",
		"stats", "export", "import", "undo", "history", "watch",
	}

	found := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected command '%s' to be registered", name)
		}
	}
}

func TestGradeHasSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range gradeCmd.Commands() {
		found[cmd.Name()] = true
	}
	for _, name := range []string{"add", "edit", "delete"} {
		if !found[name] {
			t.Errorf("expected 'grade %s' to be registered", name)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"data", "debug"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}

func TestDestructiveCommandsHaveYesFlag(t *testing.T) {
	for name, flag := range map[string]bool{
		"remove":       removeCmd.Flags().Lookup("yes") != nil,
		"grade delete": gradeDeleteCmd.Flags().Lookup("yes") != nil,
		"import":       importCmd.Flags().Lookup("yes") != nil,
		"undo":         undoCmd.Flags().Lookup("yes") != nil,
	} {
		if !flag {
			t.Errorf("%s: expected --yes flag", name)
		}
	}
}

func TestRootCommandPrintsTip(t *testing.T) {
	newTestEnv(t)

	stdout := mustRun(t)
	if !strings.Contains(stdout, "gradebook add <name>") {
		t.Errorf("unexpected root output %q", stdout)
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	newTestEnv(t)

	_, _, err := runCLI(t, "", "lst")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "list") {
		t.Errorf("expected suggestion for 'list', got %v", err)
	}
}
