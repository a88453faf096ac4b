// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - FakeLangflow: in-memory Langflow management API served over httptest
//   - ConfigBuilder: fluent builder for bootstrap configurations
//   - FlowTree: flow roots written to a temporary directory
//   - MemorySink, MockSink: env sinks for asserting persisted entries
//
// Usage:
//
//	fake := testing.NewFakeLangflow(t)
//	fake.AddUser("admin", "admin-pass", true, true)
//	cfg := testing.NewConfigBuilder(fake.URL()).
//	    WithFlowRoots(testing.FlowTree(t, files), "").
//	    Build()
package testing
