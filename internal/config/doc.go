// Package config holds the generator settings.
//
// Settings start from Default, which carries the production-fitted
// parameters, and may be overlaid by a YAML file. Unknown keys are rejected.
// The merged result is checked against an embedded CUE schema before use.
// Secrets never live in the file: the Google Books API key and the MySQL DSN
// are read from the environment (a .env file is honoured by the CLI).
package config
