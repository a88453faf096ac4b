// Package config defines the configuration model for a bootstrap run.
//
// A [Config] is assembled from built-in defaults, an optional YAML file and
// LANGFLOW_* environment variables, in that order of precedence. Superuser
// credentials are only ever read from the environment.
package config
