// Package content uploads flow documents and exports the ids of known flows.
//
// Flow roots are scanned through a flowsource.Source. Files at the root are
// uploaded without a project; every sub-directory becomes a project that is
// created on first use and receives the files it contains. Upload failures
// are recorded per item and never stop the loop.
package content
