package wc

import (
	"context"
	"time"
)

// Store is the metadata storage surface the session layer drives. The
// SQLite engine implements it; every method is atomic and safe to retry
// when it fails with ErrBusy.
type Store interface {
	// Repositories and workcopy roots.

	// InternRepository returns the repository row for root, creating it
	// on first reference.
	InternRepository(ctx context.Context, root, uuid string) (*Repository, error)
	FindRepositoryByRoot(ctx context.Context, root string) (*Repository, error)
	FindRepositoryByID(ctx context.Context, id int64) (*Repository, error)

	// CreateWCRoot registers a workcopy root; localAbspath is empty for a
	// detached store.
	CreateWCRoot(ctx context.Context, localAbspath string) (int64, error)
	FindWCRoot(ctx context.Context, localAbspath string) (int64, error)
	AnyWCRoot(ctx context.Context) (int64, string, error)

	// Node layer model.

	// ReadNodeInfo returns the op_depth-maximal row at relpath.
	ReadNodeInfo(ctx context.Context, wcID int64, relpath string) (*NodeInfo, error)
	ReadNodeInfoWithLock(ctx context.Context, wcID int64, relpath string) (*NodeInfo, error)
	ReadBaseNode(ctx context.Context, wcID int64, relpath string) (*NodeInfo, error)
	ReadWorkingNode(ctx context.Context, wcID int64, relpath string) (*NodeInfo, error)
	ReadBaseNodeByReposPath(ctx context.Context, wcID, reposID int64, reposPath string) (*NodeInfo, error)
	BaseChildren(ctx context.Context, wcID int64, relpath string) ([]*NodeInfo, error)
	WorkingChildren(ctx context.Context, wcID int64, relpath string) ([]string, error)
	Children(ctx context.Context, wcID int64, relpath string) ([]string, error)
	ReadDeletionInfo(ctx context.Context, wcID int64, relpath string) (*DeletionInfo, error)

	InsertNodeRow(ctx context.Context, n *NodeInfo) error
	ApplyBaseNode(ctx context.Context, n *NodeInfo) error
	ScheduleDelete(ctx context.Context, wcID int64, relpath string, opDepth int64, recurse bool) error
	CopyFromBase(ctx context.Context, wcID int64, src, dst string, eager bool) error
	CopyFromWorking(ctx context.Context, wcID int64, src, dst string, eager bool) error
	Revert(ctx context.Context, wcID int64, relpath string) error
	RevertAll(ctx context.Context, wcID int64, relpath string) error
	RemoveAllLayers(ctx context.Context, wcID int64, relpath string, recurse bool) error
	SetBaseRepository(ctx context.Context, wcID int64, relpath string, reposID int64) error
	ExcludeBase(ctx context.Context, wcID int64, relpath string) error
	ExcludeWorking(ctx context.Context, wcID int64, relpath string) error
	SetBaseRevision(ctx context.Context, wcID int64, relpath string, revision int64) error
	SetBaseProps(ctx context.Context, wcID int64, relpath string, props []byte) error
	SetWorkingProps(ctx context.Context, wcID int64, relpath string, props []byte) error
	UpdateCopyfrom(ctx context.Context, wcID int64, relpath string, reposID int64, reposPath string, revision int64) error
	ShiftOpDepth(ctx context.Context, wcID int64, relpath string, oldDepth, newDepth int64) error
	SetMovedTo(ctx context.Context, wcID int64, relpath string, opDepth int64, dest string) error
	ClearMovedTo(ctx context.Context, wcID int64, relpath string) error

	// Actual overlay.

	ReadActualNode(ctx context.Context, wcID int64, relpath string) (*ActualInfo, error)
	SetTextConflict(ctx context.Context, wcID int64, relpath, old, new_, working, olderChecksum string) error
	ClearTextConflict(ctx context.Context, wcID int64, relpath string) error
	SetPropConflict(ctx context.Context, wcID int64, relpath, rejectFile string) error
	ClearPropConflict(ctx context.Context, wcID int64, relpath string) error
	SetTreeConflict(ctx context.Context, wcID int64, relpath string, tc *TreeConflict) error
	ClearTreeConflict(ctx context.Context, wcID int64, relpath string) error
	ReadTreeConflict(ctx context.Context, wcID int64, relpath string) (*TreeConflict, error)
	SetChangelist(ctx context.Context, wcID int64, relpath, changelist string) error
	SetChangelistRecursive(ctx context.Context, wcID int64, relpath, changelist string) error
	ChangelistMembers(ctx context.Context, wcID int64, changelist string) ([]string, error)
	SetActualProps(ctx context.Context, wcID int64, relpath string, props []byte) error
	ReadActualProps(ctx context.Context, wcID int64, relpath string) ([]byte, error)
	ListConflictVictims(ctx context.Context, wcID int64, parent string) ([]string, error)

	// Pristine index.

	AddPristineRef(ctx context.Context, checksum, md5 string, size int64) error
	ReleasePristine(ctx context.Context, checksum string) error
	LookupPristine(ctx context.Context, checksum string) (*PristineInfo, error)
	LookupPristineByMD5(ctx context.Context, md5 string) (*PristineInfo, error)
	HasPristineReference(ctx context.Context, checksum string) (bool, error)
	PristineGC(ctx context.Context) ([]string, error)

	// Lock registry.

	InsertRepoLock(ctx context.Context, l *RepoLock) error
	ReadRepoLock(ctx context.Context, reposID int64, reposRelpath string) (*RepoLock, error)
	DeleteRepoLock(ctx context.Context, reposID int64, reposRelpath string) error
	RetargetRepoLocks(ctx context.Context, fromReposID, toReposID int64) error
	AcquireWCLock(ctx context.Context, wcID int64, dirRelpath string, lockedLevels int64) error
	ReleaseWCLock(ctx context.Context, wcID int64, dirRelpath string) error
	IsWCLocked(ctx context.Context, wcID int64, dirRelpath string) (bool, string, error)
	FindWCLocksUnder(ctx context.Context, wcID int64, dirRelpath string) ([]*WCLock, error)

	// Work queue.

	EnqueueWork(ctx context.Context, work []byte) (int64, error)
	PeekWork(ctx context.Context) (*WorkItem, error)
	CompleteWork(ctx context.Context, id int64) error
	AnyWorkPending(ctx context.Context) (bool, error)

	// Operation journal.

	BeginJournalEntry(ctx context.Context, opUUID, operation, parameters string, startedAt time.Time) (int64, error)
	FinishJournalEntry(ctx context.Context, id int64, finishedAt time.Time, status string) error
	RecentJournalEntries(ctx context.Context, limit int) ([]*JournalEntry, error)

	Close() error
}
