package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tracepulse/tracepulse/internal/model"
)

// ErrNotFound is returned when no stored analysis matches the given name.
var ErrNotFound = errors.New("history: analysis not found")

// Summary is one history listing row; the full report stays in the database
// until fetched by name.
type Summary struct {
	Name            string    `json:"name"`
	TracePath       string    `json:"tracePath"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
	StoredAt        time.Time `json:"storedAt"`
	Tags            []string  `json:"tags,omitempty"`
	Device          string    `json:"device,omitempty"`
	ComplexityScore int       `json:"complexityScore"`
	ActionCount     int       `json:"actionCount"`
	SlowCount       int       `json:"slowCount"`
	EffectCount     int       `json:"effectCount"`
}

// Save persists one report, replacing a previous analysis with the same name.
// The report's StoredAt metadata is stamped before serialization so a later
// Get reproduces the stored object field-for-field.
func (s *Store) Save(report *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := time.Now().UTC().Truncate(time.Microsecond)
	report.Metadata.StoredAt = &stored

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("history: serializing report %s: %w", report.Metadata.Name, err)
	}

	ctx, cancel := s.queryCtx()
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analyses
			(name, trace_path, analyzed_at, stored_at, tags, device, complexity,
			 action_count, slow_count, effect_count, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.Metadata.Name,
		report.Metadata.TracePath,
		report.Metadata.AnalyzedAt,
		stored,
		strings.Join(report.Metadata.Tags, ","),
		report.Metadata.Device,
		report.ComplexityScore,
		report.Metrics.TotalActions,
		report.Metrics.SlowActions,
		report.Metrics.TotalEffects,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("history: saving %s: %w", report.Metadata.Name, err)
	}
	return nil
}

// Get loads the full report for one stored analysis.
func (s *Store) Get(name string) (*model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT report FROM analyses WHERE name = ?", name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: loading %s: %w", name, err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("history: decoding %s: %w", name, err)
	}
	return &report, nil
}

// List returns the most recently stored analyses, newest first.
func (s *Store) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.querySummaries(`
		SELECT name, trace_path, analyzed_at, stored_at, tags, device,
		       complexity, action_count, slow_count, effect_count
		FROM analyses ORDER BY stored_at DESC LIMIT ?`, limit)
}

// Search returns analyses whose name, tags or trace path contain term,
// newest first.
func (s *Store) Search(term string) ([]Summary, error) {
	pattern := "%" + term + "%"
	return s.querySummaries(`
		SELECT name, trace_path, analyzed_at, stored_at, tags, device,
		       complexity, action_count, slow_count, effect_count
		FROM analyses
		WHERE name ILIKE ? OR tags ILIKE ? OR trace_path ILIKE ?
		ORDER BY stored_at DESC`, pattern, pattern, pattern)
}

// Delete removes one stored analysis by name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("history: deleting %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("history: deleting %s: %w", name, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored analyses.
func (s *Store) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&n); err != nil {
		return 0, fmt.Errorf("history: counting analyses: %w", err)
	}
	return n, nil
}

func (s *Store) querySummaries(query string, args ...interface{}) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: listing analyses: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var tags string
		if err := rows.Scan(&sum.Name, &sum.TracePath, &sum.AnalyzedAt, &sum.StoredAt,
			&tags, &sum.Device, &sum.ComplexityScore, &sum.ActionCount, &sum.SlowCount, &sum.EffectCount); err != nil {
			return nil, fmt.Errorf("history: scanning summary: %w", err)
		}
		if tags != "" {
			sum.Tags = strings.Split(tags, ",")
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
