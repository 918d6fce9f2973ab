// Package sqlite keeps a local lead archive for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"complexity-quiz-service/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

// LeadStore writes captured leads to a SQLite file.
type LeadStore struct {
	db *sql.DB
}

// Open opens the database at path and creates the schema if needed.
func Open(path string) (*LeadStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	store := &LeadStore{db: db}
	if err := store.CreateTables(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *LeadStore) Close() error {
	return s.db.Close()
}

// CreateTables creates the leads table if it doesn't exist.
func (s *LeadStore) CreateTables() error {
	query := `CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		email TEXT NOT NULL,
		name TEXT,
		company TEXT,
		source TEXT NOT NULL,
		score INTEGER NOT NULL,
		answers TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create leads table: %w", err)
	}
	return nil
}

func (s *LeadStore) SaveLead(ctx context.Context, lead domain.LeadRecord) error {
	answers, err := json.Marshal(lead.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO leads (id, session_id, email, name, company, source, score, answers, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		lead.ID, lead.SessionID, lead.Email, lead.Name, lead.Company, lead.Source, lead.Score, string(answers), lead.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// Leads returns stored leads for email, newest first. An empty email matches every lead.
func (s *LeadStore) Leads(ctx context.Context, email string) ([]domain.LeadRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, email, name, company, source, score, answers, created_at FROM leads WHERE ? = '' OR email = ? ORDER BY created_at DESC",
		email, email,
	)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.LeadRecord
	for rows.Next() {
		var (
			lead    domain.LeadRecord
			answers string
		)
		if err := rows.Scan(&lead.ID, &lead.SessionID, &lead.Email, &lead.Name, &lead.Company, &lead.Source, &lead.Score, &answers, &lead.Timestamp); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &lead.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
