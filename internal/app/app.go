package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wcdb-go/internal/config"
	"wcdb-go/internal/database"
	"wcdb-go/internal/database/migrations"
	"wcdb-go/internal/wc"
)

// WCApp is the application layer between the CLI and the session. It
// constructs all dependencies from config, opens the metadata database of
// a working copy, and manages lifecycle on Close.
type WCApp struct {
	cfg     *config.Config
	db      *database.DB
	session *wc.Session
	opID    string
	journal int64
	idgen   wc.IDGenerator
	logFile *os.File
	logger  wc.Logger
}

// dbPath resolves the metadata file inside a working copy root: the
// conventional <root>/.wc/wc.db layout.
func dbPath(wcRoot string) string {
	return filepath.Join(wcRoot, ".wc", "wc.db")
}

// engineOptions builds the engine options from config.
func engineOptions(cfg *config.Config, logger wc.Logger) database.Options {
	opts := database.DefaultOptions()
	if cfg.Database.BusyTimeoutMS > 0 {
		opts.BusyTimeout = time.Duration(cfg.Database.BusyTimeoutMS) * time.Millisecond
	}
	if cfg.Database.RetryDeadlineMS > 0 {
		opts.RetryDeadline = time.Duration(cfg.Database.RetryDeadlineMS) * time.Millisecond
	}
	opts.Logger = logger
	return opts
}

// NewWCApp opens the working copy rooted at wcRoot. operation names the
// CLI command being run (e.g. "GC", "Upgrade"); NewWCApp does not use it.
// The log is stamped with a timestamp operation ID, and journal entries
// are named by the command methods that write them. The caller must call
// Close when done.
func NewWCApp(cfg *config.Config, wcRoot, operation string) (*WCApp, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	db, err := database.Open(dbPath(wcRoot), engineOptions(cfg, log))
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}

	if err := migrations.CheckStatus(db.Handle()); err != nil {
		db.Close()
		logFile.Close()
		if errors.Is(err, wc.ErrSchemaTooNew) {
			return nil, err
		}
		return nil, fmt.Errorf("metadata schema out of date: %w", err)
	}

	store := database.NewStore(db)
	ctx := context.Background()

	wcID, _, err := store.AnyWCRoot(ctx)
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("resolving workcopy root: %w", err)
	}

	session := wc.NewSession(store, wcID, wc.SessionConfig{
		Logger: log,
		Clock:  wc.RealClock{},
		Cache: wc.CacheConfig{
			CacheFulltexts:   cfg.Cache.CacheFulltexts,
			CacheTxdeltas:    cfg.Cache.CacheTxdeltas,
			FailStop:         cfg.Cache.FailStop,
			MemcacheEndpoint: cfg.Cache.MemcacheEndpoint,
		},
	})

	caches := session.Cache()
	log.Debug("session caches configured",
		"fulltexts", caches.CacheFulltexts,
		"txdeltas", caches.CacheTxdeltas,
		"fail_stop", caches.FailStop)

	return &WCApp{
		cfg:     cfg,
		db:      db,
		session: session,
		opID:    opID,
		idgen:   wc.UUIDGenerator{},
		logFile: logFile,
		logger:  log,
	}, nil
}

// InitWorkingCopy creates a fresh metadata store for the checkout rooted
// at wcRoot, running the full migration sequence and registering the
// wcroot row.
func InitWorkingCopy(cfg *config.Config, wcRoot string) error {
	path := dbPath(wcRoot)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("metadata store already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}

	db, err := database.Open(path, engineOptions(cfg, wc.NewNopLogger()))
	if err != nil {
		return fmt.Errorf("creating metadata store: %w", err)
	}
	defer db.Close()

	if err := migrations.Upgrade(db.Handle()); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	store := database.NewStore(db)
	abs, err := filepath.Abs(wcRoot)
	if err != nil {
		return fmt.Errorf("resolving workcopy root: %w", err)
	}
	if _, err := store.CreateWCRoot(context.Background(), abs); err != nil {
		return err
	}
	return nil
}

// UpgradeWorkingCopy migrates the metadata store at wcRoot to the current
// schema, including the legacy tree-conflict data pass.
func UpgradeWorkingCopy(cfg *config.Config, wcRoot string) error {
	db, err := database.Open(dbPath(wcRoot), engineOptions(cfg, wc.NewNopLogger()))
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer db.Close()

	if err := migrations.Upgrade(db.Handle()); err != nil {
		return err
	}
	return nil
}

// beginJournal records the start of a mutating operation.
func (a *WCApp) beginJournal(ctx context.Context, operation, parameters string) error {
	id, err := a.session.Store().BeginJournalEntry(ctx,
		a.idgen.New(), operation, parameters, time.Now())
	if err != nil {
		return err
	}
	a.journal = id
	return nil
}

// finishJournal closes the journal entry with a terminal status.
func (a *WCApp) finishJournal(ctx context.Context, status string) {
	if a.journal == 0 {
		return
	}
	if err := a.session.Store().FinishJournalEntry(ctx, a.journal, time.Now(), status); err != nil {
		a.logger.Warn("closing journal entry failed", "error", err)
	}
}

// Session exposes the bound session for command handlers.
func (a *WCApp) Session() *wc.Session { return a.session }

// Info summarizes the metadata store for display.
type Info struct {
	Path          string
	SchemaVersion int
	WCID          int64
	LocalAbspath  string
	PendingWork   bool
	Conflicts     []string
}

// GetInfo collects the summary shown by the info command.
func (a *WCApp) GetInfo(ctx context.Context) (*Info, error) {
	store := a.session.Store()
	wcID, abspath, err := store.AnyWCRoot(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := store.AnyWorkPending(ctx)
	if err != nil {
		return nil, err
	}
	victims, err := store.ListConflictVictims(ctx, wcID, "")
	if err != nil {
		return nil, err
	}
	return &Info{
		Path:          a.db.Path(),
		SchemaVersion: database.SchemaVersion,
		WCID:          wcID,
		LocalAbspath:  abspath,
		PendingWork:   pending,
		Conflicts:     victims,
	}, nil
}

// RunGC runs the pristine garbage collector and unlinks the orphaned blob
// files under the store's pristine directory.
func (a *WCApp) RunGC(ctx context.Context, pristineDir string) (int, error) {
	if err := a.beginJournal(ctx, "GC", pristineDir); err != nil {
		return 0, err
	}
	removed, err := a.session.PristineGC(ctx)
	if err != nil {
		a.finishJournal(ctx, "failed")
		return 0, err
	}
	for _, checksum := range removed {
		blob := filepath.Join(pristineDir, checksum[:2], checksum)
		if err := os.Remove(blob); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.logger.Warn("unlinking pristine blob failed", "checksum", checksum, "error", err)
		}
	}
	a.finishJournal(ctx, "ok")
	return len(removed), nil
}

// DrainWork replays the pending work queue. Items are opaque here; the
// runner logs them and acknowledges, which is what replay-after-crash
// needs when the side effects are idempotent file operations already
// described by the item payload.
func (a *WCApp) DrainWork(ctx context.Context, run func(*wc.WorkItem) error) (int, error) {
	if err := a.beginJournal(ctx, "DrainWork", ""); err != nil {
		return 0, err
	}
	n, err := a.session.DrainWorkQueue(ctx, run)
	if err != nil {
		a.finishJournal(ctx, "failed")
		return n, err
	}
	a.finishJournal(ctx, "ok")
	return n, nil
}

// Close flushes and releases everything the app opened.
func (a *WCApp) Close() error {
	err := a.session.Close()
	if a.logFile != nil {
		a.logFile.Close()
	}
	return err
}
