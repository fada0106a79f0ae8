package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// SQLiteSource reads users from the users table of a SQLite database. The
// database is opened read-only for each fetch and closed afterwards.
type SQLiteSource struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteSource creates a source reading the database at path.
func NewSQLiteSource(path string, logger *slog.Logger) *SQLiteSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteSource{path: path, logger: logger}
}

// readOnlyDSN builds a URI filename that opens path read-only.
func readOnlyDSN(path string) string {
	return "file:" + filepath.ToSlash(path) + "?mode=ro"
}

// FetchRecords implements types.DataSource. Rows come back in rowid order,
// which is the order Seed inserted them.
func (s *SQLiteSource) FetchRecords(ctx context.Context) ([]types.User, error) {
	log := s.logger.With(slog.String("fetch_id", newFetchID()), slog.String("path", s.path))

	if _, err := os.Stat(s.path); err != nil {
		return nil, &types.FetchError{Message: "failed to open users database", Err: err}
	}

	db, err := sql.Open("sqlite", readOnlyDSN(s.path))
	if err != nil {
		return nil, &types.FetchError{Message: "failed to open users database", Err: err}
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT %s FROM users ORDER BY rowid", joinColumns(userColumns))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, &types.FetchError{Message: "failed to query users", Err: err}
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, &types.FetchError{Message: "failed to read users", Err: err}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.FetchError{Message: "failed to read users", Err: err}
	}

	log.Info("read users", slog.Int("count", len(users)))
	return users, nil
}

func scanUser(rows *sql.Rows) (types.User, error) {
	var (
		u                            types.User
		compName, compPhrase, compBS sql.NullString
		street, suite, city, zip     sql.NullString
	)
	err := rows.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.Website,
		&compName, &compPhrase, &compBS,
		&street, &suite, &city, &zip,
	)
	if err != nil {
		return types.User{}, err
	}

	if compName.Valid || compPhrase.Valid || compBS.Valid {
		u.Company = &types.Company{
			Name:        compName.String,
			CatchPhrase: compPhrase.String,
			BS:          compBS.String,
		}
	}
	if street.Valid || suite.Valid || city.Valid || zip.Valid {
		u.Address = &types.Address{
			Street:  street.String,
			Suite:   suite.String,
			City:    city.String,
			Zipcode: zip.String,
		}
	}
	return u, nil
}
