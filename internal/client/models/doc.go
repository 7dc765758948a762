// Package models defines the client-side data model of taxdesk: the tax
// records mirrored from the record store, the country directory entries
// they reference, the filter/sort session state, and the error taxonomy
// shared by the engine packages.
package models
