package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/fingerspell/internal/classify"
	"github.com/ayusman/fingerspell/internal/feature"
)

// Sample represents a labeled training sample stored in the database.
type Sample struct {
	ID        string         `json:"id"`
	Letter    string         `json:"letter"`
	Features  feature.Vector `json:"features"`
	CreatedAt time.Time      `json:"created_at"`
}

// SampleRepository provides CRUD operations for training samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create inserts a labeled sample and returns its generated ID.
// The features slice must be exactly 42 values; anything else is
// rejected before touching the database.
func (r *SampleRepository) Create(letter string, features []float64) (string, error) {
	if !classify.IsLetter(letter) {
		return "", fmt.Errorf("invalid letter %q, want a single uppercase letter A-Z", letter)
	}

	vec, err := feature.FromSlice(features)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(vec[:])
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	_, err = r.db.Exec(
		`INSERT INTO samples (id, letter, features, created_at) VALUES (?, ?, ?, ?)`,
		id, letter, string(data), time.Now(),
	)
	if err != nil {
		return "", err
	}

	return id, nil
}

// List retrieves all samples ordered by letter then creation time.
func (r *SampleRepository) List() ([]Sample, error) {
	return r.query(
		`SELECT id, letter, features, created_at FROM samples ORDER BY letter, created_at`,
	)
}

// ListByLetter retrieves all samples for one letter.
func (r *SampleRepository) ListByLetter(letter string) ([]Sample, error) {
	return r.query(
		`SELECT id, letter, features, created_at FROM samples WHERE letter = ? ORDER BY created_at`,
		letter,
	)
}

// Delete removes a sample by ID.
func (r *SampleRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM samples WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of stored samples.
func (r *SampleRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&n)
	return n, err
}

// TrainingSet converts all stored samples into the trainer's input form.
func (r *SampleRepository) TrainingSet() ([]classify.Sample, error) {
	samples, err := r.List()
	if err != nil {
		return nil, err
	}

	out := make([]classify.Sample, len(samples))
	for i, s := range samples {
		out[i] = classify.Sample{Letter: s.Letter, Features: s.Features}
	}
	return out, nil
}

func (r *SampleRepository) query(q string, args ...any) ([]Sample, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		var data string
		if err := rows.Scan(&s.ID, &s.Letter, &data, &s.CreatedAt); err != nil {
			return nil, err
		}

		var values []float64
		if err := json.Unmarshal([]byte(data), &values); err != nil {
			return nil, fmt.Errorf("sample %s: %w", s.ID, err)
		}
		// Stored rows pass through the same dimension gate as the API;
		// a corrupted row fails loudly instead of classifying garbage.
		vec, err := feature.FromSlice(values)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", s.ID, err)
		}
		s.Features = vec

		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}
