package wc

import "time"

// Presence describes whether a node is materially present at its layer.
// The literal strings are persisted in the nodes table.
type Presence string

const (
	PresenceNormal      Presence = "normal"
	PresenceNotPresent  Presence = "not-present"
	PresenceExcluded    Presence = "excluded"
	PresenceAbsent      Presence = "absent"
	PresenceIncomplete  Presence = "incomplete"
	PresenceBaseDeleted Presence = "base-deleted"
)

// Valid reports whether p is one of the persisted presence values.
func (p Presence) Valid() bool {
	switch p {
	case PresenceNormal, PresenceNotPresent, PresenceExcluded,
		PresenceAbsent, PresenceIncomplete, PresenceBaseDeleted:
		return true
	}
	return false
}

// Kind is the node kind recorded by the server or the local scheduler.
type Kind string

const (
	KindFile    Kind = "file"
	KindDir     Kind = "dir"
	KindSymlink Kind = "symlink"
	KindUnknown Kind = "unknown"
)

// Valid reports whether k is one of the persisted kind values.
func (k Kind) Valid() bool {
	switch k {
	case KindFile, KindDir, KindSymlink, KindUnknown:
		return true
	}
	return false
}

// Depth is the ambient subtree-depth hint recorded on directory nodes.
type Depth string

const (
	DepthEmpty      Depth = "empty"
	DepthFiles      Depth = "files"
	DepthImmediates Depth = "immediates"
	DepthInfinity   Depth = "infinity"
)

// Repository identifies a remote repository interned in the store.
type Repository struct {
	ID   int64
	Root string
	UUID string
}

// NodeInfo is the resolved view of a single row in the nodes relation,
// optionally joined with the repository-lock overlay.
type NodeInfo struct {
	WCID          int64
	LocalRelpath  string
	OpDepth       int64
	ParentRelpath string // "" has a NULL parent; see Invariant 6

	ReposID   int64 // 0 when the row carries no repository pin
	ReposPath string
	Revision  int64 // -1 when unset

	Presence Presence
	Kind     Kind

	Checksum      string // strong hash; refers to the pristine index
	Properties    []byte // serialized property map, opaque to the store
	Depth         Depth
	SymlinkTarget string

	ChangedRevision int64
	ChangedDate     time.Time
	ChangedAuthor   string

	TranslatedSize int64 // -1 when unknown
	LastModTime    time.Time
	DavCache       []byte

	MovedHere bool
	MovedTo   string

	FileExternal bool

	// Inherited is set when the resolver synthesized this view for an
	// unmaterialized descendant of a copied subtree.
	Inherited bool

	// Lock is non-nil on reads that join the repository-lock overlay.
	Lock *RepoLock
}

// ActualInfo is one row of the actual overlay. A row exists only while at
// least one field besides the keys is meaningful.
type ActualInfo struct {
	WCID            int64
	LocalRelpath    string
	ParentRelpath   string
	Properties      []byte // user-edited props overriding the node props
	Changelist      string
	ConflictOld     string
	ConflictNew     string
	ConflictWorking string
	PropReject      string
	OlderChecksum   string
	TreeConflict    *TreeConflict // typed form, populated post-upgrade
}

// TreeConflict is the typed tree-conflict descriptor persisted in the
// conflict_victim table.
type TreeConflict struct {
	Operation     string // "update", "switch", "merge"
	Action        string // incoming change: "edit", "add", "delete", "replace"
	Reason        string // local state: "edited", "deleted", "missing", ...
	LeftReposID   int64
	LeftPath      string
	LeftRevision  int64
	LeftKind      Kind
	LeftChecksum  string
	RightReposID  int64
	RightPath     string
	RightRevision int64
	RightKind     Kind
	RightChecksum string
}

// PristineInfo is one entry of the content-addressed blob registry.
type PristineInfo struct {
	Checksum    string
	MD5Checksum string
	Size        int64
	Refcount    int64
}

// RepoLock is a server-issued lock token recorded per repository path.
type RepoLock struct {
	ReposID      int64
	ReposRelpath string
	Token        string
	Owner        string
	Comment      string
	Date         time.Time
}

// WCLock is a process-held advisory lock over a workcopy subtree.
// LockedLevels 0 locks only the directory itself; -1 locks the whole
// subtree below it.
type WCLock struct {
	WCID            int64
	LocalDirRelpath string
	LockedLevels    int64
}

// InfiniteLevels marks a wc_lock covering the entire subtree.
const InfiniteLevels = -1

// WorkItem is one durable entry of the post-commit work queue.
type WorkItem struct {
	ID   int64
	Work []byte
}

// DeletionInfo describes how a path is deleted, when a working row
// shadows it.
type DeletionInfo struct {
	BasePresence    Presence // zero when no BASE row exists
	WorkingPresence Presence
	OpDepth         int64
	MovedTo         string
}

// JournalEntry records one mutating client operation against the store.
type JournalEntry struct {
	ID         int64
	OpUUID     string
	StartedAt  time.Time
	FinishedAt time.Time
	Operation  string
	Parameters string
	Status     string
}

// InvalidRevision marks an unset revision column.
const InvalidRevision = -1
