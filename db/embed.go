// Package db embeds the receipt archive schema.
package db

import _ "embed"

// Schema contains the DDL for the receipts and receipt_items tables. Every
// statement is idempotent.
//
//go:embed migrations/001_schema.sql
var Schema string
