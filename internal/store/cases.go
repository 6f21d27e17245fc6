package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"decisionmap/internal/campaign"
	"decisionmap/internal/schema"
)

// Summary is the denormalized facet projection of one case, used for listing
// and similarity scoring without loading the full bodies.
type Summary struct {
	ID             int64  `json:"id"`
	CreatedAt      string `json:"created_at"`
	Category       string `json:"category"`
	Market         string `json:"market"`
	Channels       string `json:"channels"`
	Objective      string `json:"objective"`
	DecisionType   string `json:"decision_type"`
	PrimaryTension string `json:"primary_tension"`
	DecisionWindow string `json:"decision_window"`
}

// Case is one full persisted pipeline run.
type Case struct {
	Summary
	InputJSON       string `json:"input_json"`
	DecisionMapJSON string `json:"decision_map_json"`
	BriefText       string `json:"brief_text"`
}

// Insert appends one finished run. Facets are denormalized from the campaign
// input and the decision map's discriminators; empty facets are stored as
// empty strings, never NULL, so equality filters stay simple. There is no
// uniqueness constraint: duplicate campaigns become distinct cases.
func (s *Store) Insert(in campaign.Input, dm *schema.DecisionMap, decisionMapJSON, briefText string) (int64, error) {
	inputJSON, err := in.JSON()
	if err != nil {
		return 0, &IOError{Op: "insert", Err: err}
	}

	var decisionType, primaryTension, decisionWindow string
	if dm != nil {
		decisionType = strings.TrimSpace(dm.DecisionType)
		primaryTension = strings.TrimSpace(dm.PrimaryTension)
		decisionWindow = strings.TrimSpace(dm.DecisionWindow)
	}

	res, err := s.db.Exec(`
		INSERT INTO cases (
			category, market, channels, objective,
			decision_type, primary_tension, decision_window,
			input_json, decision_map_json, brief_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(in.Category),
		strings.TrimSpace(in.Market),
		strings.TrimSpace(in.Channels),
		strings.TrimSpace(in.Objective),
		decisionType, primaryTension, decisionWindow,
		inputJSON, decisionMapJSON, briefText,
	)
	if err != nil {
		return 0, &IOError{Op: "insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &IOError{Op: "insert", Err: err}
	}
	return id, nil
}

// Filter narrows a List call. Zero values mean "no constraint"; supplied
// facets are combined conjunctively and Query is a case-insensitive substring
// match OR'd across objective, channels, and brief text.
type Filter struct {
	Limit        int
	Offset       int
	Query        string
	Category     string
	Market       string
	DecisionType string
}

// List returns one page of case summaries plus the total count of matches.
// Ordering is creation time descending, ties broken by ascending id, so
// pagination is deterministic and the total is invariant under offset.
func (s *Store) List(f Filter) ([]Summary, int, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var where []string
	var params []interface{}

	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, "(objective LIKE ? OR channels LIKE ? OR brief_text LIKE ?)")
		like := "%" + q + "%"
		params = append(params, like, like, like)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		params = append(params, f.Category)
	}
	if f.Market != "" {
		where = append(where, "market = ?")
		params = append(params, f.Market)
	}
	if f.DecisionType != "" {
		where = append(where, "decision_type = ?")
		params = append(params, f.DecisionType)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM cases "+whereSQL, params...).Scan(&total); err != nil {
		return nil, 0, &IOError{Op: "list", Err: err}
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT id, created_at, category, market, channels, objective,
		       decision_type, primary_tension, decision_window
		FROM cases
		%s
		ORDER BY datetime(created_at) DESC, id ASC
		LIMIT ? OFFSET ?`, whereSQL),
		append(params, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, &IOError{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var c Summary
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Category, &c.Market, &c.Channels,
			&c.Objective, &c.DecisionType, &c.PrimaryTension, &c.DecisionWindow); err != nil {
			return nil, 0, &IOError{Op: "list", Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &IOError{Op: "list", Err: err}
	}
	return out, total, nil
}

// Get loads one full case by id.
func (s *Store) Get(id int64) (*Case, error) {
	var c Case
	err := s.db.QueryRow(`
		SELECT id, created_at, category, market, channels, objective,
		       decision_type, primary_tension, decision_window,
		       input_json, decision_map_json, brief_text
		FROM cases WHERE id = ?`, id).Scan(
		&c.ID, &c.CreatedAt, &c.Category, &c.Market, &c.Channels, &c.Objective,
		&c.DecisionType, &c.PrimaryTension, &c.DecisionWindow,
		&c.InputJSON, &c.DecisionMapJSON, &c.BriefText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &IOError{Op: "get", Err: err}
	}
	return &c, nil
}
