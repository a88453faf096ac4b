// Package langflow provides a client for the Langflow management API.
//
// The client covers the subset of endpoints needed to bootstrap a Langflow
// instance: password login, user administration, API key minting, project
// (folder) management, and flow creation, upload and listing.
//
// Resource creation follows a get-or-create pattern through EnsureOperation,
// which looks a resource up by name in a Catalog snapshot and only creates it
// when absent. Login is retried by Authenticator while the server warms up.
package langflow
