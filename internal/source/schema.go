package source

import "strings"

// Schema DDL for the users table read by SQLiteSource and written by Seed.
// Nested objects are flattened into nullable columns; a NULL company_name
// (or address_street) means the nested object was absent.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    website TEXT NOT NULL DEFAULT '',
    company_name TEXT,
    company_catch_phrase TEXT,
    company_bs TEXT,
    address_street TEXT,
    address_suite TEXT,
    address_city TEXT,
    address_zipcode TEXT
);`

	idxUsersEmail = `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`
)

// schemaDDL lists the statements Seed runs, in order.
var schemaDDL = []string{
	createUsers,
	idxUsersEmail,
}

// userColumns is the column order shared by the SELECT and INSERT
// statements.
var userColumns = []string{
	"id", "name", "username", "email", "phone", "website",
	"company_name", "company_catch_phrase", "company_bs",
	"address_street", "address_suite", "address_city", "address_zipcode",
}

// joinColumns joins column names with commas.
func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
