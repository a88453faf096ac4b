// Package wizard asks for the settings of a bootstrap run and writes them as
// a langflow-bootstrap YAML file.
//
// RunWizard walks through huh form groups (server, public account, flow
// locations, object storage, Secret mirror). BuildConfig turns the answers
// into a config.Config and WriteConfig writes it with a usage header.
// Superuser credentials are never asked for.
package wizard
