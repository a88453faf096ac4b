// Package retry provides bounded fixed-delay retry logic for transient failures.
//
// The [Do] function runs an operation up to a maximum number of attempts with
// a constant pause between attempts. It is used for logging in to a Langflow
// server that may still be booting. Errors wrapped with [Fatal] stop the loop
// immediately.
package retry
