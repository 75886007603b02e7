package database

import "fmt"

// StmtID names one entry of the fixed statement catalog. All SQL text
// lives in this file; the engine prepares statements lazily and caches
// the handles for the lifetime of the connection.
type StmtID int

const (
	// Node reads.
	SelectNodeInfo StmtID = iota
	SelectNodeInfoWithLock
	SelectBaseNode
	SelectWorkingNode
	SelectBaseNodeChildren
	SelectWorkingNodeChildren
	SelectNodeChildren
	SelectBaseProps
	SelectWorkingProps
	SelectDeletionInfo
	SelectBaseNodeByReposPath
	SelectOpDepthLayers
	SelectBaseSubtree
	SelectOpDepthSubtree

	// Node writes.
	InsertNode
	ApplyChangesToBaseNode
	UpdateNodeBaseProps
	UpdateNodeBaseRevision
	UpdateNodeBasePresence
	UpdateNodeBaseReposID
	UpdateNodeBaseDavCache
	ClearNodeBaseDavCacheRecursive
	UpdateNodeBaseExcluded
	UpdateNodeWorkingProps
	UpdateNodeWorkingPresence
	UpdateNodeWorkingExcluded
	InsertWorkingNodeCopyFromBase
	InsertWorkingNodeCopyFromWorking
	InsertWorkingNodeFromBase
	DeleteBaseNode
	DeleteWorkingNode
	DeleteWorkingNodes
	DeleteWorkingNodesRecursive
	DeleteWorkingLayerRecursive
	DeleteAllNodes
	DeleteAllNodesRecursive
	UpdateCopyfrom
	UpdateOpDepth
	UpdateOpDepthRecursive
	UpdateMovedTo
	ClearMovedTo

	// Actual overlay.
	SelectActualNode
	SelectActualProps
	SelectActualConflictVictims
	SelectActualChangelist
	SelectActualSubtree
	InsertActualNode
	UpdateActualTextConflict
	UpdateActualPropConflict
	UpdateActualChangelist
	UpdateActualChangelistRecursive
	UpdateActualProps
	ClearTextConflict
	ClearPropsConflict
	DeleteActualEmpty
	DeleteActualNode
	DeleteActualSubtree

	// Typed tree conflicts.
	SelectConflictDetails
	SelectConflictVictimsUnder
	InsertConflictVictim
	DeleteConflictVictim
	DeleteConflictVictimsRecursive

	// Pristine index.
	InsertPristine
	IncrementPristineRefcount
	DecrementPristineRefcount
	SelectPristine
	SelectPristineByMD5
	SelectPristineZeroRefcount
	SelectAllPristines
	SelectAnyPristineReference
	DeletePristine

	// Locks.
	InsertLock
	SelectLock
	DeleteLock
	UpdateLockReposID
	InsertWCLock
	SelectWCLock
	FindWCLock
	DeleteWCLock

	// Work queue.
	LookForWork
	InsertWorkItem
	SelectWorkItem
	DeleteWorkItem

	// Repositories and roots.
	InsertRepository
	SelectRepositoryByRoot
	SelectRepositoryByID
	InsertWCRoot
	SelectWCRootByPath
	SelectAnyWCRoot

	// Upgrade.
	SelectOldTreeConflict
	EraseOldConflicts
	PlanPropUpgrade

	// Operation journal.
	InsertOpJournal
	UpdateOpJournalFinished
	SelectOpJournal

	stmtCount
)

// nodeColumns is the projection shared by every node read. Keep the scan
// order in scanNode (nodes.go) aligned with this list.
const nodeColumns = `nodes.op_depth, nodes.parent_relpath, nodes.repos_id,
    nodes.repos_path, nodes.revision, nodes.presence, nodes.kind,
    nodes.checksum, nodes.properties, nodes.depth, nodes.symlink_target,
    nodes.changed_revision, nodes.changed_date, nodes.changed_author,
    nodes.translated_size, nodes.last_mod_time, nodes.dav_cache,
    nodes.moved_here, nodes.moved_to, nodes.file_external`

var stmtText = map[StmtID]string{
	SelectNodeInfo: `SELECT ` + nodeColumns + `
    FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2
    ORDER BY op_depth DESC`,

	SelectNodeInfoWithLock: `SELECT ` + nodeColumns + `,
    lock.lock_token, lock.lock_owner, lock.lock_comment, lock.lock_date
    FROM nodes
    LEFT OUTER JOIN lock ON nodes.repos_id = lock.repos_id
      AND nodes.repos_path = lock.repos_relpath
    WHERE wc_id = ?1 AND local_relpath = ?2
    ORDER BY op_depth DESC`,

	SelectBaseNode: `SELECT ` + nodeColumns + `
    FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	SelectWorkingNode: `SELECT ` + nodeColumns + `
    FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth > 0
    ORDER BY op_depth DESC
    LIMIT 1`,

	SelectBaseNodeChildren: `SELECT ` + nodeColumns + `, nodes.local_relpath
    FROM nodes
    WHERE wc_id = ?1 AND parent_relpath = ?2 AND op_depth = 0
    ORDER BY local_relpath`,

	SelectWorkingNodeChildren: `SELECT DISTINCT local_relpath
    FROM nodes
    WHERE wc_id = ?1 AND parent_relpath = ?2 AND op_depth > 0
    ORDER BY local_relpath`,

	SelectNodeChildren: `SELECT DISTINCT local_relpath
    FROM nodes
    WHERE wc_id = ?1 AND parent_relpath = ?2
    ORDER BY local_relpath`,

	SelectBaseProps: `SELECT properties FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	SelectWorkingProps: `SELECT properties, presence FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth > 0
    ORDER BY op_depth DESC
    LIMIT 1`,

	SelectDeletionInfo: `SELECT
    (SELECT b.presence FROM nodes AS b
      WHERE b.wc_id = ?1 AND b.local_relpath = ?2 AND b.op_depth = 0),
    w.presence, w.op_depth, w.moved_to
    FROM nodes AS w
    WHERE w.wc_id = ?1 AND w.local_relpath = ?2 AND w.op_depth > 0
    ORDER BY w.op_depth DESC
    LIMIT 1`,

	SelectBaseNodeByReposPath: `SELECT ` + nodeColumns + `, nodes.local_relpath
    FROM nodes
    WHERE wc_id = ?1 AND op_depth = 0
      AND repos_id = ?2 AND repos_path = ?3`,

	SelectOpDepthLayers: `SELECT DISTINCT op_depth FROM nodes
    WHERE wc_id = ?1 AND (local_relpath = ?2
      OR local_relpath LIKE ?3 ESCAPE '#') AND op_depth > 0
    ORDER BY op_depth DESC`,

	SelectBaseSubtree: `SELECT local_relpath FROM nodes
    WHERE wc_id = ?1 AND op_depth = 0
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')
    ORDER BY local_relpath`,

	SelectOpDepthSubtree: `SELECT local_relpath FROM nodes
    WHERE wc_id = ?1 AND op_depth = ?4
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')
    ORDER BY local_relpath`,

	InsertNode: `INSERT OR REPLACE INTO nodes (
    wc_id, local_relpath, op_depth, parent_relpath, repos_id, repos_path,
    revision, presence, kind, checksum, properties, depth, symlink_target,
    changed_revision, changed_date, changed_author, translated_size,
    last_mod_time, dav_cache, moved_here, moved_to, file_external)
    VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11, ?12, ?13, ?14,
            ?15, ?16, ?17, ?18, ?19, ?20, ?21, ?22)`,

	ApplyChangesToBaseNode: `INSERT OR REPLACE INTO nodes (
    wc_id, local_relpath, op_depth, parent_relpath, repos_id, repos_path,
    revision, presence, kind, checksum, properties, depth, symlink_target,
    changed_revision, changed_date, changed_author, translated_size,
    last_mod_time, dav_cache, moved_here, moved_to, file_external)
    VALUES (?1, ?2, 0, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11, ?12, ?13,
            ?14, ?15, ?16, ?17, ?18, NULL, NULL, ?19)`,

	UpdateNodeBaseProps: `UPDATE nodes SET properties = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	UpdateNodeBaseRevision: `UPDATE nodes SET revision = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	UpdateNodeBasePresence: `UPDATE nodes SET presence = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	UpdateNodeBaseReposID: `UPDATE nodes SET repos_id = ?4, dav_cache = NULL
    WHERE wc_id = ?1 AND op_depth = 0
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	UpdateNodeBaseDavCache: `UPDATE nodes SET dav_cache = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	ClearNodeBaseDavCacheRecursive: `UPDATE nodes SET dav_cache = NULL
    WHERE wc_id = ?1 AND op_depth = 0
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	UpdateNodeBaseExcluded: `UPDATE nodes SET presence = 'excluded', depth = NULL
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	UpdateNodeWorkingProps: `UPDATE nodes SET properties = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2
      AND op_depth = (SELECT MAX(op_depth) FROM nodes
        WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth > 0)`,

	UpdateNodeWorkingPresence: `UPDATE nodes SET presence = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2
      AND op_depth = (SELECT MAX(op_depth) FROM nodes
        WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth > 0)`,

	UpdateNodeWorkingExcluded: `UPDATE nodes SET presence = 'excluded', depth = NULL
    WHERE wc_id = ?1 AND local_relpath = ?2
      AND op_depth = (SELECT MAX(op_depth) FROM nodes
        WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth > 0)`,

	InsertWorkingNodeCopyFromBase: `INSERT OR REPLACE INTO nodes (
    wc_id, local_relpath, op_depth, parent_relpath, repos_id, repos_path,
    revision, presence, kind, checksum, properties, depth, symlink_target,
    changed_revision, changed_date, changed_author, translated_size,
    last_mod_time, moved_here)
    SELECT wc_id, ?3, ?4, ?5, repos_id, repos_path, revision, ?6, kind,
      checksum, properties, depth, symlink_target, changed_revision,
      changed_date, changed_author, translated_size, last_mod_time, ?7
    FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	InsertWorkingNodeCopyFromWorking: `INSERT OR REPLACE INTO nodes (
    wc_id, local_relpath, op_depth, parent_relpath, repos_id, repos_path,
    revision, presence, kind, checksum, properties, depth, symlink_target,
    changed_revision, changed_date, changed_author, translated_size,
    last_mod_time, moved_here)
    SELECT wc_id, ?3, ?4, ?5, repos_id, repos_path, revision, ?6, kind,
      checksum, properties, depth, symlink_target, changed_revision,
      changed_date, changed_author, translated_size, last_mod_time, ?7
    FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth > 0
    ORDER BY op_depth DESC
    LIMIT 1`,

	InsertWorkingNodeFromBase: `INSERT OR REPLACE INTO nodes (
    wc_id, local_relpath, op_depth, parent_relpath, presence, kind)
    SELECT wc_id, local_relpath, ?3, parent_relpath, ?4, kind
    FROM nodes
    WHERE wc_id = ?1 AND op_depth = 0
      AND (local_relpath = ?2 OR local_relpath LIKE ?5 ESCAPE '#')`,

	DeleteBaseNode: `DELETE FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = 0`,

	DeleteWorkingNode: `DELETE FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = ?3`,

	DeleteWorkingNodes: `DELETE FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth > 0`,

	DeleteWorkingNodesRecursive: `DELETE FROM nodes
    WHERE wc_id = ?1 AND op_depth > 0
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	DeleteWorkingLayerRecursive: `DELETE FROM nodes
    WHERE wc_id = ?1 AND op_depth = ?4
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	DeleteAllNodes: `DELETE FROM nodes
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	DeleteAllNodesRecursive: `DELETE FROM nodes
    WHERE wc_id = ?1
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	UpdateCopyfrom: `UPDATE nodes SET repos_id = ?3, repos_path = ?4, revision = ?5
    WHERE wc_id = ?1 AND local_relpath = ?2
      AND op_depth = (SELECT MAX(op_depth) FROM nodes
        WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth > 0)`,

	UpdateOpDepth: `UPDATE nodes SET op_depth = ?4
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = ?3`,

	UpdateOpDepthRecursive: `UPDATE nodes SET op_depth = ?5
    WHERE wc_id = ?1 AND op_depth = ?4
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	UpdateMovedTo: `UPDATE nodes SET moved_to = ?4
    WHERE wc_id = ?1 AND local_relpath = ?2 AND op_depth = ?3`,

	ClearMovedTo: `UPDATE nodes SET moved_to = NULL
    WHERE wc_id = ?1 AND local_relpath = ?2 AND moved_to IS NOT NULL`,

	SelectActualNode: `SELECT parent_relpath, properties, changelist,
    conflict_old, conflict_new, conflict_working, prop_reject, older_checksum,
    tree_conflict_data
    FROM actual_node
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	SelectActualProps: `SELECT properties FROM actual_node
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	SelectActualConflictVictims: `SELECT local_relpath FROM actual_node
    WHERE wc_id = ?1
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')
      AND NOT (conflict_old IS NULL AND conflict_new IS NULL
        AND conflict_working IS NULL AND prop_reject IS NULL
        AND tree_conflict_data IS NULL)
    ORDER BY local_relpath`,

	SelectActualChangelist: `SELECT local_relpath FROM actual_node
    WHERE wc_id = ?1 AND changelist = ?2
    ORDER BY local_relpath`,

	SelectActualSubtree: `SELECT local_relpath FROM actual_node
    WHERE wc_id = ?1
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')
    ORDER BY local_relpath`,

	InsertActualNode: `INSERT INTO actual_node (
    wc_id, local_relpath, parent_relpath, properties, changelist,
    conflict_old, conflict_new, conflict_working, prop_reject,
    older_checksum, tree_conflict_data)
    VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11)`,

	UpdateActualTextConflict: `UPDATE actual_node
    SET conflict_old = ?3, conflict_new = ?4, conflict_working = ?5,
        older_checksum = ?6
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	UpdateActualPropConflict: `UPDATE actual_node SET prop_reject = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	UpdateActualChangelist: `UPDATE actual_node SET changelist = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	UpdateActualChangelistRecursive: `UPDATE actual_node SET changelist = ?4
    WHERE wc_id = ?1
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	UpdateActualProps: `UPDATE actual_node SET properties = ?3
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	ClearTextConflict: `UPDATE actual_node
    SET conflict_old = NULL, conflict_new = NULL, conflict_working = NULL,
        older_checksum = NULL
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	ClearPropsConflict: `UPDATE actual_node SET prop_reject = NULL
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	DeleteActualEmpty: `DELETE FROM actual_node
    WHERE wc_id = ?1 AND local_relpath = ?2
      AND properties IS NULL AND changelist IS NULL
      AND conflict_old IS NULL AND conflict_new IS NULL
      AND conflict_working IS NULL AND prop_reject IS NULL
      AND older_checksum IS NULL AND tree_conflict_data IS NULL`,

	DeleteActualNode: `DELETE FROM actual_node
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	DeleteActualSubtree: `DELETE FROM actual_node
    WHERE wc_id = ?1
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	SelectConflictDetails: `SELECT operation, action, reason,
    left_repos_id, left_repos_path, left_revision, left_kind, left_checksum,
    right_repos_id, right_repos_path, right_revision, right_kind,
    right_checksum
    FROM conflict_victim
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	SelectConflictVictimsUnder: `SELECT local_relpath FROM conflict_victim
    WHERE wc_id = ?1
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')
    ORDER BY local_relpath`,

	InsertConflictVictim: `INSERT OR REPLACE INTO conflict_victim (
    wc_id, local_relpath, operation, action, reason,
    left_repos_id, left_repos_path, left_revision, left_kind, left_checksum,
    right_repos_id, right_repos_path, right_revision, right_kind,
    right_checksum)
    VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11, ?12, ?13, ?14, ?15)`,

	DeleteConflictVictim: `DELETE FROM conflict_victim
    WHERE wc_id = ?1 AND local_relpath = ?2`,

	DeleteConflictVictimsRecursive: `DELETE FROM conflict_victim
    WHERE wc_id = ?1
      AND (local_relpath = ?2 OR local_relpath LIKE ?3 ESCAPE '#')`,

	InsertPristine: `INSERT INTO pristine (checksum, md5_checksum, size, refcount)
    VALUES (?1, ?2, ?3, 1)`,

	IncrementPristineRefcount: `UPDATE pristine SET refcount = refcount + 1
    WHERE checksum = ?1`,

	DecrementPristineRefcount: `UPDATE pristine SET refcount = refcount - 1
    WHERE checksum = ?1 AND refcount > 0`,

	SelectPristine: `SELECT md5_checksum, size, refcount FROM pristine
    WHERE checksum = ?1`,

	SelectPristineByMD5: `SELECT checksum, size, refcount FROM pristine
    WHERE md5_checksum = ?1`,

	SelectPristineZeroRefcount: `SELECT checksum FROM pristine
    WHERE refcount = 0
    ORDER BY checksum`,

	SelectAllPristines: `SELECT checksum, refcount FROM pristine
    ORDER BY checksum`,

	SelectAnyPristineReference: `SELECT 1 FROM nodes
      WHERE checksum = ?1
    UNION ALL
    SELECT 1 FROM actual_node
      WHERE older_checksum = ?1
    UNION ALL
    SELECT 1 FROM conflict_victim
      WHERE left_checksum = ?1 OR right_checksum = ?1
    LIMIT 1`,

	DeletePristine: `DELETE FROM pristine
    WHERE checksum = ?1 AND refcount = 0`,

	InsertLock: `INSERT OR REPLACE INTO lock (
    repos_id, repos_relpath, lock_token, lock_owner, lock_comment, lock_date)
    VALUES (?1, ?2, ?3, ?4, ?5, ?6)`,

	SelectLock: `SELECT lock_token, lock_owner, lock_comment, lock_date
    FROM lock
    WHERE repos_id = ?1 AND repos_relpath = ?2`,

	DeleteLock: `DELETE FROM lock
    WHERE repos_id = ?1 AND repos_relpath = ?2`,

	UpdateLockReposID: `UPDATE lock SET repos_id = ?2
    WHERE repos_id = ?1`,

	InsertWCLock: `INSERT INTO wc_lock (wc_id, local_dir_relpath, locked_levels)
    VALUES (?1, ?2, ?3)`,

	SelectWCLock: `SELECT locked_levels FROM wc_lock
    WHERE wc_id = ?1 AND local_dir_relpath = ?2`,

	FindWCLock: `SELECT local_dir_relpath, locked_levels FROM wc_lock
    WHERE wc_id = ?1
      AND (local_dir_relpath = ?2 OR local_dir_relpath LIKE ?3 ESCAPE '#')
    ORDER BY local_dir_relpath`,

	DeleteWCLock: `DELETE FROM wc_lock
    WHERE wc_id = ?1 AND local_dir_relpath = ?2`,

	LookForWork: `SELECT id FROM work_queue LIMIT 1`,

	InsertWorkItem: `INSERT INTO work_queue (work) VALUES (?1)`,

	SelectWorkItem: `SELECT id, work FROM work_queue
    ORDER BY id
    LIMIT 1`,

	DeleteWorkItem: `DELETE FROM work_queue WHERE id = ?1`,

	InsertRepository: `INSERT INTO repository (root, uuid) VALUES (?1, ?2)`,

	SelectRepositoryByRoot: `SELECT id, uuid FROM repository WHERE root = ?1`,

	SelectRepositoryByID: `SELECT root, uuid FROM repository WHERE id = ?1`,

	InsertWCRoot: `INSERT INTO wcroot (local_abspath) VALUES (?1)`,

	SelectWCRootByPath: `SELECT id FROM wcroot WHERE local_abspath = ?1`,

	SelectAnyWCRoot: `SELECT id, local_abspath FROM wcroot
    ORDER BY id
    LIMIT 1`,

	SelectOldTreeConflict: `SELECT wc_id, local_relpath, tree_conflict_data
    FROM actual_node
    WHERE tree_conflict_data IS NOT NULL
    ORDER BY wc_id, local_relpath`,

	EraseOldConflicts: `UPDATE actual_node SET tree_conflict_data = NULL
    WHERE tree_conflict_data IS NOT NULL`,

	PlanPropUpgrade: `SELECT DISTINCT local_relpath FROM nodes
    WHERE wc_id = ?1 AND properties IS NOT NULL
    ORDER BY local_relpath`,

	InsertOpJournal: `INSERT INTO op_journal (
    op_uuid, started_at, operation, parameters, status)
    VALUES (?1, ?2, ?3, ?4, 'running')`,

	UpdateOpJournalFinished: `UPDATE op_journal
    SET finished_at = ?2, status = ?3
    WHERE id = ?1`,

	SelectOpJournal: `SELECT id, op_uuid, started_at, finished_at, operation,
    parameters, status
    FROM op_journal
    ORDER BY id DESC
    LIMIT ?1`,
}

// Text returns the SQL for id. Unknown IDs are a programming error.
func Text(id StmtID) (string, error) {
	s, ok := stmtText[id]
	if !ok {
		return "", fmt.Errorf("unknown statement id %d", id)
	}
	return s, nil
}
