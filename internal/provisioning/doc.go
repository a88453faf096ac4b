// Package provisioning provides shared types, interfaces, and orchestration
// for bootstrapping a Langflow instance.
//
// # Subpackages
//
//   - access/: superuser login, secondary account, API keys, env persistence
//   - content/: bulk flow upload, benchmark flow, flow id extraction
//
// # Core Types
//
// Context carries configuration, state, the Langflow client, the env sink and
// the observer. Phase defines a provisioning step with Name() and
// Provision() methods; phases that implement StageReacher advance the run's
// Stage when they succeed. State accumulates results from each phase
// (credentials, API key, upload outcomes, flow ids).
package provisioning
