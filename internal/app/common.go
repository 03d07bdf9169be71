package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/analyzer"
	"github.com/blackwell-systems/gradebook/internal/config"
	"github.com/blackwell-systems/gradebook/internal/datafile"
	"github.com/blackwell-systems/gradebook/internal/logger"
	"github.com/blackwell-systems/gradebook/internal/snapshots"
	"github.com/blackwell-systems/gradebook/internal/store"
)

// session bundles everything a command needs: the resolved config, the
// loaded gradebook, and the store backing snapshots and history.
type session struct {
	cfg   config.Config
	file  *datafile.File
	book  *analyzer.Analyzer
	store *store.Store
	snaps *snapshots.Manager

	out    io.Writer
	errOut io.Writer

	// unreadable holds the bytes of a data file that failed to parse.
	// They are kept as a snapshot before the first save replaces them.
	unreadable []byte

	// readErr is set when the data file exists but could not be read.
	// Mutations are refused so a save cannot replace it.
	readErr error

	closeLog func() error
}

// loadConfig resolves settings: flags over env, env over file, file over defaults.
func loadConfig() (config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to locate config directory: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return cfg, err
	}
	if dataPath != "" {
		abs, err := filepath.Abs(dataPath)
		if err != nil {
			return cfg, fmt.Errorf("invalid --data path %q: %w", dataPath, err)
		}
		cfg.DataFile = abs
	}
	return cfg, nil
}

// openSession loads config, starts logging, opens the store and loads the
// data file. The caller must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	s := &session{
		cfg:    cfg,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	closeLog, err := logger.Setup(logger.Config{StateDir: cfg.StateDir, Debug: debug})
	if err != nil {
		fmt.Fprintf(s.errOut, "Warning: logging disabled: %v\n", err)
	} else {
		s.closeLog = closeLog
		if debug {
			fmt.Fprintf(s.errOut, "Debug log: %s (session %s)\n", logger.Path(), logger.Session())
		}
	}
	log := logger.L()
	log.Debug("session.open", "command", cmd.CommandPath(), "data_file", cfg.DataFile)

	st, err := store.New(cfg.DBPath())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s.store = st
	if err := st.CreateSchema(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s.snaps = snapshots.New(st, cfg.SnapshotDir())
	s.file = datafile.New(cfg.DataFile)

	s.book = analyzer.New(
		analyzer.WithSaver(s.file),
		analyzer.WithAutosave(cfg.Autosave),
		analyzer.WithLogger(log),
	)

	s.load()

	if cfg.SnapshotRetentionDays > 0 {
		maxAge := time.Duration(cfg.SnapshotRetentionDays) * 24 * time.Hour
		if n, err := s.snaps.CleanupOldSnapshots(maxAge); err != nil {
			log.Warn("snapshots.cleanup.failed", "error", err)
		} else if n > 0 {
			log.Info("snapshots.cleanup", "removed", n)
		}
	}

	return s, nil
}

// load reads the data file into the analyzer. Load failures never abort the
// command: the session starts empty and the user is told why.
func (s *session) load() {
	students, err := s.file.Load()
	switch {
	case err == nil:
	case errors.Is(err, datafile.ErrNotFound):
		logger.L().Debug("datafile.missing", "path", s.file.Path())
	case errors.Is(err, datafile.ErrMalformed), errors.Is(err, datafile.ErrUnsupportedVersion):
		fmt.Fprintf(s.errOut, "Warning: %v\n", err)
		fmt.Fprintln(s.errOut, "Starting with an empty gradebook. The file is kept as a snapshot before it is overwritten.")
		if raw, rerr := os.ReadFile(s.file.Path()); rerr == nil {
			s.unreadable = raw
		}
		logger.L().Warn("datafile.unreadable", "path", s.file.Path(), "error", err)
	default:
		fmt.Fprintf(s.errOut, "Warning: %v\n", err)
		// A directory in the way only makes saves fail; an existing file
		// would be replaced by the first save.
		if info, statErr := os.Stat(s.file.Path()); statErr == nil && !info.IsDir() {
			s.readErr = err
			fmt.Fprintln(s.errOut, "Showing an empty gradebook. Changes are refused until the file can be read.")
		} else {
			fmt.Fprintln(s.errOut, "Starting with an empty gradebook.")
		}
		logger.L().Warn("datafile.load.failed", "path", s.file.Path(), "error", err)
	}
	s.book.Replace(students)
}

// Close releases the store and the log file.
func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.closeLog != nil {
		s.closeLog()
	}
}

// beforeChange must run before any mutation. It preserves an unreadable
// data file so the first save cannot destroy it, and refuses to go on
// when the file could not be read at all.
func (s *session) beforeChange() error {
	if s.readErr != nil {
		return fmt.Errorf("refusing to change the gradebook: %w\n\nFix access to %s and try again", s.readErr, s.file.Path())
	}
	if s.unreadable == nil {
		return nil
	}
	id, err := s.snaps.SnapshotRaw(s.unreadable, "unreadable data file")
	if err != nil {
		return fmt.Errorf("failed to preserve unreadable data file: %w", err)
	}
	s.unreadable = nil
	fmt.Fprintf(s.errOut, "Kept the unreadable data file as snapshot %d.\n", id)
	return nil
}

// snapshot saves the current gradebook before a destructive change.
func (s *session) snapshot(reason string) (int64, error) {
	if err := s.beforeChange(); err != nil {
		return 0, err
	}
	id, err := s.snaps.CreateSnapshot(s.book.Students(), reason)
	if err != nil {
		return 0, fmt.Errorf("failed to create snapshot: %w", err)
	}
	return id, nil
}

// commit finishes a successful mutation. With autosave on, the analyzer has
// already saved and a failure only warns. With autosave off the command saves
// once here and a failure is returned.
func (s *session) commit(op, student, detail string) error {
	if s.cfg.Autosave {
		if err := s.book.LastSaveError(); err != nil {
			fmt.Fprintf(s.errOut, "Warning: change not saved to %s: %v\n", s.file.Path(), err)
		}
	} else if err := s.save(); err != nil {
		return err
	}
	s.record(op, student, detail)
	return nil
}

// save writes the whole gradebook explicitly.
func (s *session) save() error {
	if err := s.book.Save(); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.file.Path(), err)
	}
	return nil
}

// record appends to the change history. History is best effort.
func (s *session) record(op, student, detail string) {
	ev := &store.Event{Op: op, Student: student, Detail: detail}
	if err := s.store.InsertEvent(ev); err != nil {
		logger.L().Warn("history.insert.failed", "op", op, "error", err)
	}
}

// confirm prompts on the command's input and accepts y or yes.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)

	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// parseName trims a student name argument.
func parseName(arg string) string {
	return strings.TrimSpace(arg)
}

// parseGrade parses a grade argument. Range checks happen in the analyzer.
func parseGrade(arg string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid grade %q: must be a number between 0 and 100", arg)
	}
	return v, nil
}

// parsePosition parses a 1-based grade position and returns the 0-based index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid grade position %q: must be a whole number starting at 1", arg)
	}
	return n - 1, nil
}
