// Package types defines the user record schema, the DataSource contract,
// configuration, and the standard error values shared by every usertable
// package.
package types
