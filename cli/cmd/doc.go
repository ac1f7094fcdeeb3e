// Package cmd implements the metaconv subcommands.
package cmd

// ConfigIdentifier is the kong variable identifier containing the path to
// the YAML configuration file.
var ConfigIdentifier = "config"
