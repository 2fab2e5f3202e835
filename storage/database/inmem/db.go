// Package inmemdb provides mutex-guarded in-memory repositories. It backs
// the test suites and local hacking; the sqlx repositories in the parent
// package are the deployed storage.
package inmemdb

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/chat"
	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/grading"
	"github.com/trezcool/kazi/core/lecturer"
	"github.com/trezcool/kazi/core/student"
	"github.com/trezcool/kazi/core/submission"
)

type (
	DB struct {
		student    *studentTable
		lecturer   *lecturerTable
		dataset    *datasetTable
		assignment *assignmentTable
		chat       *chatTable
		submission *submissionTable
		grade      *gradeTable
	}

	studentTable struct {
		table map[string]*student.Student // keyed by NIM
		mutex sync.RWMutex
	}

	lecturerTable struct {
		table map[uuid.UUID]*lecturer.Lecturer
		mutex sync.RWMutex
	}

	datasetTable struct {
		table map[uuid.UUID]*dataset.Dataset
		mutex sync.RWMutex
	}

	assignmentTable struct {
		table map[uuid.UUID]*assignment.Assignment
		mutex sync.RWMutex
	}

	chatTable struct {
		table   map[uuid.UUID][]chat.Message // keyed by assignment ID, in seq order
		seq     map[uuid.UUID]int64
		lastTS  map[uuid.UUID]time.Time
		mutex   sync.Mutex
	}

	submissionTable struct {
		table map[uuid.UUID][]submission.Submission // keyed by assignment ID, in creation order
		mutex sync.RWMutex
	}

	gradeTable struct {
		table map[uuid.UUID]*grading.Grade // keyed by assignment ID
		mutex sync.Mutex
	}
)

func Open() (*DB, error) {
	db := new(DB)
	db.reset()
	return db, nil
}

// Reset drops all tables. For tests.
func (db *DB) Reset() {
	db.reset()
}

func (db *DB) reset() {
	db.student = &studentTable{table: make(map[string]*student.Student)}
	db.lecturer = &lecturerTable{table: make(map[uuid.UUID]*lecturer.Lecturer)}
	db.dataset = &datasetTable{table: make(map[uuid.UUID]*dataset.Dataset)}
	db.assignment = &assignmentTable{table: make(map[uuid.UUID]*assignment.Assignment)}
	db.chat = &chatTable{
		table:  make(map[uuid.UUID][]chat.Message),
		seq:    make(map[uuid.UUID]int64),
		lastTS: make(map[uuid.UUID]time.Time),
	}
	db.submission = &submissionTable{table: make(map[uuid.UUID][]submission.Submission)}
	db.grade = &gradeTable{table: make(map[uuid.UUID]*grading.Grade)}
}
