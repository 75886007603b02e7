package database

// SchemaVersion is the compiled-in schema version. It is persisted in
// PRAGMA user_version by ApplySchema and by every migration step, in
// addition to golang-migrate's own version table, so external tools can
// probe the format cheaply.
const SchemaVersion = 2

// Schema is the complete current schema (version 2), applied wholesale by
// tests through ApplySchema. Working copies, fresh or existing, are built
// and upgraded by the migrations package instead; keep this text in sync
// with the migration files.
const Schema = `
CREATE TABLE repository (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  root TEXT UNIQUE NOT NULL,
  uuid TEXT NOT NULL
);
CREATE INDEX i_repository_uuid ON repository (uuid);

CREATE TABLE wcroot (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  local_abspath TEXT UNIQUE
);

CREATE TABLE pristine (
  checksum TEXT NOT NULL PRIMARY KEY,
  md5_checksum TEXT NOT NULL,
  size INTEGER NOT NULL,
  refcount INTEGER NOT NULL
);
CREATE INDEX i_pristine_md5 ON pristine (md5_checksum);

CREATE TABLE nodes (
  wc_id INTEGER NOT NULL REFERENCES wcroot (id),
  local_relpath TEXT NOT NULL,
  op_depth INTEGER NOT NULL,
  parent_relpath TEXT,
  repos_id INTEGER REFERENCES repository (id),
  repos_path TEXT,
  revision INTEGER,
  presence TEXT NOT NULL,
  moved_here INTEGER,
  moved_to TEXT,
  kind TEXT NOT NULL,
  properties BLOB,
  depth TEXT,
  checksum TEXT,
  symlink_target TEXT,
  changed_revision INTEGER,
  changed_date INTEGER,
  changed_author TEXT,
  translated_size INTEGER,
  last_mod_time INTEGER,
  dav_cache BLOB,
  file_external INTEGER,
  PRIMARY KEY (wc_id, local_relpath, op_depth)
);
CREATE INDEX i_nodes_parent ON nodes (wc_id, parent_relpath, op_depth);

CREATE TABLE actual_node (
  wc_id INTEGER NOT NULL REFERENCES wcroot (id),
  local_relpath TEXT NOT NULL,
  parent_relpath TEXT,
  properties BLOB,
  conflict_old TEXT,
  conflict_new TEXT,
  conflict_working TEXT,
  prop_reject TEXT,
  changelist TEXT,
  older_checksum TEXT,
  tree_conflict_data TEXT,
  PRIMARY KEY (wc_id, local_relpath)
);
CREATE INDEX i_actual_parent ON actual_node (wc_id, parent_relpath);

CREATE TABLE lock (
  repos_id INTEGER NOT NULL REFERENCES repository (id),
  repos_relpath TEXT NOT NULL,
  lock_token TEXT NOT NULL,
  lock_owner TEXT,
  lock_comment TEXT,
  lock_date INTEGER,
  PRIMARY KEY (repos_id, repos_relpath)
);

CREATE TABLE wc_lock (
  wc_id INTEGER NOT NULL REFERENCES wcroot (id),
  local_dir_relpath TEXT NOT NULL,
  locked_levels INTEGER NOT NULL DEFAULT -1,
  PRIMARY KEY (wc_id, local_dir_relpath)
);

CREATE TABLE work_queue (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  work BLOB NOT NULL
);

CREATE TABLE op_journal (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  op_uuid TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  finished_at INTEGER,
  operation TEXT NOT NULL,
  parameters TEXT,
  status TEXT
);

CREATE TABLE conflict_victim (
  wc_id INTEGER NOT NULL,
  local_relpath TEXT NOT NULL,
  operation TEXT NOT NULL,
  action TEXT,
  reason TEXT,
  left_repos_id INTEGER,
  left_repos_path TEXT,
  left_revision INTEGER,
  left_kind TEXT,
  left_checksum TEXT,
  right_repos_id INTEGER,
  right_repos_path TEXT,
  right_revision INTEGER,
  right_kind TEXT,
  right_checksum TEXT,
  PRIMARY KEY (wc_id, local_relpath)
);
`
