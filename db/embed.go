// Package db provides the embedded schema for the PostgreSQL catalog
// backend.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string
