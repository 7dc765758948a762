// Package cli provides the taxdesk terminal client.
//
// One-shot cobra commands (list, edit, countries, export, version) cover
// scripted use; "repl" starts an interactive grid that keeps filter, search
// and sort state between commands and edits records through prompts.
//
// Configuration is resolved in PersistentPreRunE: flag > env > config file >
// default. See NewRootCmd, App and runREPL.
package cli
