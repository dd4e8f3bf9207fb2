package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/traini8/traini8/internal/database"
	"github.com/traini8/traini8/internal/model"
)

// TrainingCenterRepository handles training center persistence
type TrainingCenterRepository struct {
	db *database.Postgres
}

// NewTrainingCenterRepository creates a new TrainingCenterRepository
func NewTrainingCenterRepository(db *database.Postgres) *TrainingCenterRepository {
	return &TrainingCenterRepository{db: db}
}

// Save inserts a training center and fills in the generated ID.
// A violated unique constraint is returned as *ConflictError.
func (r *TrainingCenterRepository) Save(ctx context.Context, tc *model.TrainingCenter) (*model.TrainingCenter, error) {
	query := `
		INSERT INTO training_centers (center_name, center_code, detailed_address, city, state, pincode,
		    student_capacity, courses_offered, created_on, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var addr model.Address
	if tc.Address != nil {
		addr = *tc.Address
	}

	saved := *tc
	saved.CoursesOffered = textArray(tc.CoursesOffered)
	err := r.db.QueryRowContext(ctx, query,
		tc.CenterName,
		tc.CenterCode,
		addr.DetailedAddress,
		addr.City,
		addr.State,
		addr.Pincode,
		tc.StudentCapacity,
		pq.Array(saved.CoursesOffered),
		tc.CreatedOn,
		nullIfEmpty(tc.ContactEmail),
		tc.ContactPhone,
	).Scan(&saved.ID)
	if err != nil {
		return nil, classify(err, "save training center")
	}
	return &saved, nil
}

// FindAll returns every training center ordered by ID
func (r *TrainingCenterRepository) FindAll(ctx context.Context) ([]model.TrainingCenter, error) {
	query := `
		SELECT id, center_name, center_code, detailed_address, city, state, pincode,
		       student_capacity, courses_offered, created_on, contact_email, contact_phone
		FROM training_centers
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query training centers: %w", err)
	}
	defer rows.Close()

	centers := []model.TrainingCenter{}
	for rows.Next() {
		var (
			tc    model.TrainingCenter
			addr  model.Address
			email sql.NullString
		)
		err := rows.Scan(
			&tc.ID,
			&tc.CenterName,
			&tc.CenterCode,
			&addr.DetailedAddress,
			&addr.City,
			&addr.State,
			&addr.Pincode,
			&tc.StudentCapacity,
			pq.Array(&tc.CoursesOffered),
			&tc.CreatedOn,
			&email,
			&tc.ContactPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training center row: %w", err)
		}
		tc.Address = &addr
		tc.ContactEmail = email.String
		centers = append(centers, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate training center rows: %w", err)
	}
	return centers, nil
}

// nullIfEmpty returns nil for empty strings so optional unique columns store NULL
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// textArray turns a nil slice into an empty one to avoid SQL NULL
func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
