// Package s3 provides read access to flow roots kept in an S3-compatible
// object store.
//
// A flow root is addressed as s3://bucket/prefix. Listing follows
// continuation tokens, and missing buckets or keys are reported as
// fs.ErrNotExist so callers can treat local and remote roots alike.
package s3
