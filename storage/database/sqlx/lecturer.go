package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/lecturer"
)

type lecturerRecord struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (rec lecturerRecord) toLecturer() lecturer.Lecturer {
	return lecturer.Lecturer{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}

type lecturerRepository struct {
	db *sqlx.DB
}

func NewLecturerRepository(db *sqlx.DB) lecturer.Repository {
	return &lecturerRepository{db: db}
}

func (repo lecturerRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM lecturer WHERE email = $1)`, email)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return lecturer.ErrEmailExists
	}
	return nil
}

func (repo lecturerRepository) CreateLecturer(ctx context.Context, lect lecturer.Lecturer) (lecturer.Lecturer, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO lecturer (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		lect.ID, lect.Email, lect.PasswordHash, lect.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return lecturer.Lecturer{}, lecturer.ErrEmailExists
		}
		return lecturer.Lecturer{}, errors.Wrap(err, "creating lecturer")
	}
	return lect, nil
}

func (repo lecturerRepository) GetLecturerByEmail(ctx context.Context, email string) (lecturer.Lecturer, error) {
	var rec lecturerRecord
	err := repo.db.GetContext(ctx, &rec, `SELECT * FROM lecturer WHERE email = $1`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return lecturer.Lecturer{}, lecturer.ErrNotFound
		}
		return lecturer.Lecturer{}, errors.Wrap(err, "getting lecturer")
	}
	return rec.toLecturer(), nil
}

func (repo lecturerRepository) UpdateLecturerPassword(ctx context.Context, lect lecturer.Lecturer) error {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE lecturer SET password_hash = $1 WHERE id = $2`,
		lect.PasswordHash, lect.ID,
	)
	if err != nil {
		return errors.Wrap(err, "updating lecturer password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return lecturer.ErrNotFound
	}
	return nil
}
