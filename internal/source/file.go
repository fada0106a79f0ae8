package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

// FileSource reads users from a local file holding either a JSON array (the
// same payload the HTTP endpoint serves) or JSONL, one user per line.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a source reading path on every fetch.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileSource{path: path, logger: logger}
}

// FetchRecords implements types.DataSource. In JSONL files, blank lines and
// lines that are not valid users are skipped, unless no line is a valid user.
func (s *FileSource) FetchRecords(ctx context.Context) ([]types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, &types.FetchError{Message: "failed to read users file", Err: err}
	}
	log := s.logger.With(slog.String("fetch_id", newFetchID()), slog.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &types.FetchError{Message: "failed to read users file", Err: err}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		log.Info("users file is empty")
		return []types.User{}, nil
	}

	if trimmed[0] == '[' {
		var users []types.User
		if err := json.Unmarshal(trimmed, &users); err != nil {
			return nil, &types.FetchError{Message: "invalid users payload", Err: err}
		}
		log.Info("read users", slog.Int("count", len(users)), slog.String("format", "json"))
		return users, nil
	}

	lines, skipped, err := readJSONL(bytes.NewReader(trimmed))
	if err != nil {
		return nil, &types.FetchError{Message: "invalid users payload", Err: err}
	}
	users := make([]types.User, 0, len(lines))
	for _, line := range lines {
		var u types.User
		if err := json.Unmarshal(line, &u); err != nil {
			skipped++
			continue
		}
		users = append(users, u)
	}
	if len(users) == 0 && skipped > 0 {
		return nil, &types.FetchError{
			Message: "invalid users payload",
			Err:     fmt.Errorf("no valid user in %d lines", skipped),
		}
	}
	if skipped > 0 {
		log.Warn("skipped malformed lines", slog.Int("skipped", skipped))
	}
	log.Info("read users", slog.Int("count", len(users)), slog.String("format", "jsonl"))
	return users, nil
}
