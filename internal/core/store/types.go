// Package store provides the session repository type constants.
package store

// Type represents the type of session repository backend.
type Type string

const (
	// TypeSQLite represents the relational repository on a local SQLite file.
	TypeSQLite Type = "sqlite"
	// TypeMongoDB represents the document repository on MongoDB.
	TypeMongoDB Type = "mongodb"
)
