package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportJSONL writes every case as one JSON object per line, newline
// delimited, preserving every stored field verbatim (the JSON blobs are
// exported as strings, not reinterpreted). Returns the number of lines
// written.
func (s *Store) ExportJSONL(w io.Writer) (int, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, category, market, channels, objective,
		       decision_type, primary_tension, decision_window,
		       input_json, decision_map_json, brief_text
		FROM cases
		ORDER BY datetime(created_at) DESC, id ASC`)
	if err != nil {
		return 0, &IOError{Op: "export", Err: err}
	}
	defer rows.Close()

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	count := 0
	for rows.Next() {
		var c Case
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Category, &c.Market, &c.Channels,
			&c.Objective, &c.DecisionType, &c.PrimaryTension, &c.DecisionWindow,
			&c.InputJSON, &c.DecisionMapJSON, &c.BriefText); err != nil {
			return count, &IOError{Op: "export", Err: err}
		}
		if err := enc.Encode(c); err != nil {
			return count, &IOError{Op: "export", Err: err}
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, &IOError{Op: "export", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return count, &IOError{Op: "export", Err: err}
	}
	return count, nil
}

// importRecord tolerates loosely shaped case records: any field may be
// absent, and the JSON body fields may arrive either as strings (the
// exporter's form) or as inline JSON values (objects or list literals).
type importRecord struct {
	CreatedAt       string          `json:"created_at"`
	Category        string          `json:"category"`
	Market          string          `json:"market"`
	Channels        string          `json:"channels"`
	Objective       string          `json:"objective"`
	DecisionType    string          `json:"decision_type"`
	PrimaryTension  string          `json:"primary_tension"`
	DecisionWindow  string          `json:"decision_window"`
	InputJSON       json.RawMessage `json:"input_json"`
	DecisionMapJSON json.RawMessage `json:"decision_map_json"`
	BriefText       string          `json:"brief_text"`
}

// rawBody normalizes a body field: absent becomes the empty-object default, a
// JSON string is unquoted, anything else (object or list literal) is kept as
// its literal text.
func rawBody(raw json.RawMessage) string {
	t := strings.TrimSpace(string(raw))
	if t == "" || t == "null" {
		return "{}"
	}
	if strings.HasPrefix(t, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if strings.TrimSpace(s) == "" {
				return "{}"
			}
			return s
		}
	}
	return t
}

// ImportJSONL inserts one case per non-blank line. Strictly additive: every
// record gets a freshly assigned id (imported ids are ignored, never reused)
// and nothing is upserted. Returns the number of cases inserted.
func (s *Store) ImportJSONL(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	inserted := 0
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec importRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return inserted, &IOError{Op: "import", Err: fmt.Errorf("line %d: %w", line, err)}
		}

		createdAt := strings.TrimSpace(rec.CreatedAt)
		if createdAt == "" {
			createdAt = time.Now().UTC().Format("2006-01-02 15:04:05")
		}

		if _, err := s.db.Exec(`
			INSERT INTO cases (
				created_at, category, market, channels, objective,
				decision_type, primary_tension, decision_window,
				input_json, decision_map_json, brief_text
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			createdAt, rec.Category, rec.Market, rec.Channels, rec.Objective,
			rec.DecisionType, rec.PrimaryTension, rec.DecisionWindow,
			rawBody(rec.InputJSON), rawBody(rec.DecisionMapJSON), rec.BriefText,
		); err != nil {
			return inserted, &IOError{Op: "import", Err: fmt.Errorf("line %d: %w", line, err)}
		}
		inserted++
	}
	if err := scanner.Err(); err != nil {
		return inserted, &IOError{Op: "import", Err: err}
	}
	return inserted, nil
}
