// Package types defines the note and settings entities, the application
// configuration, and the standard errors shared by the floaty store, session,
// and command surfaces.
package types
