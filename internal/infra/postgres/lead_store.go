package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"complexity-quiz-service/internal/domain"
)

// LeadStore persists captured leads in the leads table.
type LeadStore struct {
	DB *sql.DB
}

func (s *LeadStore) SaveLead(ctx context.Context, lead domain.LeadRecord) error {
	answers, err := json.Marshal(lead.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO leads (id, session_id, email, name, company, source, score, answers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)`,
		lead.ID,
		lead.SessionID,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Company),
		lead.Source,
		lead.Score,
		string(answers), // pgdriver renders []byte as bytea
		lead.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// Leads returns stored leads for email, newest first. An empty email matches every lead.
func (s *LeadStore) Leads(ctx context.Context, email string) ([]domain.LeadRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, session_id, email, COALESCE(name, ''), COALESCE(company, ''), source, score, answers::text, created_at
		FROM leads
		WHERE $1 = '' OR email = $1
		ORDER BY created_at DESC`,
		email,
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

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
