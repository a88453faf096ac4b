// Package flowsource enumerates flow documents to upload.
//
// A flow root holds *.json documents directly (global flows, uploaded without
// a project) and one level of sub-directories, each naming a project whose
// documents are uploaded into it. Deeper nesting, hidden entries and
// non-JSON files are ignored. Roots are local directories or s3://bucket/prefix
// locations.
package flowsource
