package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/student"
)

type studentRecord struct {
	NIM       string    `db:"nim"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (rec studentRecord) toStudent() student.Student {
	return student.Student{
		NIM:       rec.NIM,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo studentRepository) UpsertStudents(ctx context.Context, studs ...student.Student) (int, error) {
	if len(studs) == 0 {
		return 0, nil
	}

	recs := make([]studentRecord, len(studs))
	for i, stud := range studs {
		recs[i] = studentRecord{
			NIM:       stud.NIM,
			Name:      stud.Name,
			CreatedAt: stud.CreatedAt,
			UpdatedAt: stud.UpdatedAt,
		}
	}

	// CreatedAt is preserved on conflict: the student keeps their original
	// roster position.
	res, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (nim, name, created_at, updated_at)
		VALUES (:nim, :name, :created_at, :updated_at)
		ON CONFLICT (nim) DO UPDATE
		SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`,
		recs,
	)
	if err != nil {
		return 0, errors.Wrap(err, "upserting students")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "upserting students")
	}
	return int(n), nil
}

func (repo studentRepository) GetStudentByNIM(ctx context.Context, nim string) (student.Student, error) {
	var rec studentRecord
	err := repo.db.GetContext(ctx, &rec, `SELECT * FROM student WHERE nim = $1`, nim)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return rec.toStudent(), nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var recs []studentRecord
	err := repo.db.SelectContext(ctx, &recs, `SELECT * FROM student ORDER BY created_at, nim`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	studs := make([]student.Student, len(recs))
	for i, rec := range recs {
		studs[i] = rec.toStudent()
	}
	return studs, nil
}
