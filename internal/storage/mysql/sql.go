package mysql

const insertSnapshotSQL = `
INSERT INTO sheet_snapshots
  (id, source, url, checksum, records, body, fetched_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  fetched_at = VALUES(fetched_at)
`

const insertMissSQL = `
INSERT INTO ingest_misses (source, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  reason  = VALUES(reason),
  seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest snapshot for a source; ties on fetched_at resolve by id.
const latestSnapshotSQL = `
SELECT id, source, url, checksum, records, body, fetched_at
FROM sheet_snapshots
WHERE source = ?
ORDER BY fetched_at DESC, id DESC
LIMIT 1
`
