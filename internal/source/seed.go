package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// Seed creates the users schema in the database at dbPath if needed and
// writes users into it. Loading is transactional: all rows are written or
// none. Rows with an existing id are replaced.
func Seed(ctx context.Context, dbPath string, users []types.User) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer db.Close()

	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertUsers(ctx, tx, users); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}

func insertUsers(ctx context.Context, tx *sql.Tx, users []types.User) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(userColumns)), ", ")
	insertSQL := fmt.Sprintf(
		"INSERT OR REPLACE INTO users (%s) VALUES (%s)",
		joinColumns(userColumns),
		placeholders,
	)

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, userArgs(u)...); err != nil {
			return fmt.Errorf("inserting user %d: %w", u.ID, err)
		}
	}
	return nil
}

// userArgs flattens u in userColumns order; absent nested objects become
// NULLs.
func userArgs(u types.User) []any {
	args := []any{u.ID, u.Name, u.Username, u.Email, u.Phone, u.Website}
	if c := u.Company; c != nil {
		args = append(args, c.Name, c.CatchPhrase, c.BS)
	} else {
		args = append(args, nil, nil, nil)
	}
	if a := u.Address; a != nil {
		args = append(args, a.Street, a.Suite, a.City, a.Zipcode)
	} else {
		args = append(args, nil, nil, nil, nil)
	}
	return args
}
