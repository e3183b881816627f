// Package urlstate carries a full [models.ProgressState] in the fragment of a share link.
//
// Token format v1 is "v1." followed by the unpadded URL-safe base64 of the percent-encoded JSON
// state. Tokens without a version prefix are read as the legacy format (padded standard base64
// of percent-encoded JSON), so links produced before versioning keep working.
//
// An [Address] stands in for the browser's address bar. [Location] keeps it in memory and
// [LinkFile] persists it on disk. The fragment is always replaced in place, never pushed as a new entry.
package urlstate
