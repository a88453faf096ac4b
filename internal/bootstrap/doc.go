// Package bootstrap assembles the provisioning phases of each bootstrap
// variant and renders the run report.
package bootstrap
