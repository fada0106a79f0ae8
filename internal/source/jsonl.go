// JSONL reading for file-backed sources.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineBytes bounds a single JSONL record.
const maxLineBytes = 1 << 20

// readJSONL reads JSONL from r and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped; skipped reports how many.
func readJSONL(r io.Reader) (records []json.RawMessage, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			skipped++
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scanning jsonl: %w", err)
	}
	return records, skipped, nil
}
