// Package envfile persists KEY=VALUE entries consumed by a sibling process.
//
// A [FileSink] rewrites a line-oriented env file: an existing key is
// replaced in place, a new key is appended, and the file is swapped in
// atomically while holding an advisory lock next to it. [Tee] fans one write
// out to several sinks, for example the file and a Kubernetes Secret.
package envfile
