// Package access provisions the identities a bootstrap run acts as.
//
// It logs in as the superuser, ensures the secondary account exists and is
// active, mints API keys and persists them to the env sink. Sessions are
// taken from the provisioning state explicitly; nothing here keeps tokens in
// package-level variables.
package access
