package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/kazi/core/roster"
	testutil "github.com/trezcool/kazi/tests"
)

func Test_gradingApi_queryStudents(t *testing.T) {
	f := setup(t)
	lect := testutil.CreateLecturer(t, f.lecturerRepo, "lkaunda@kazi.cd", "LocalHero97!")
	lectToken := getLecturerToken(t, lect)

	// 12 students with a stable creation order
	now := time.Now().UTC()
	for i := 0; i < 12; i++ {
		testutil.CreateStudent(t, f.studentRepo,
			fmt.Sprintf("20121000%02d", i+1), fmt.Sprintf("Student %02d", i+1), now.Add(time.Duration(i)*time.Second))
	}
	stud, err := f.studentRepo.GetStudentByNIM(context.Background(), "2012100001")
	if err != nil {
		t.Fatalf("GetStudentByNIM() failed: %v", err)
	}

	tests := []httpTest{
		{
			name:     "Auth required",
			path:     "/v1/grading/students",
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "Lecturer only",
			path:     "/v1/grading/students",
			token:    getStudentToken(t, stud),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "Non-integer page fails",
			path:     "/v1/grading/students?page=abc",
			token:    lectToken,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"page": "must be an integer"}),
		},
		{
			name:     "Zero page fails",
			path:     "/v1/grading/students?page=0",
			token:    lectToken,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"page": "page must be >= 1"}),
		},
		{
			name:     "Unsupported page size fails",
			path:     "/v1/grading/students?page_size=15",
			token:    lectToken,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"page_size": "page size must be one of: 10, 20, 50"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Pages are deterministic", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/grading/students", lectToken) // page=1, page_size=10
		f.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var pg roster.Page
		if err := json.Unmarshal(rec.Body.Bytes(), &pg); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if pg.Total != 12 {
			t.Errorf("total = %v, want %v", pg.Total, 12)
		}
		if len(pg.Rows) != 10 {
			t.Fatalf("len(students) = %v, want %v", len(pg.Rows), 10)
		}
		if pg.Rows[0].Student.NIM != "2012100001" {
			t.Errorf("first nim = %v, want %v", pg.Rows[0].Student.NIM, "2012100001")
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/grading/students?page=2&page_size=10", lectToken)
		f.app.ServeHTTP(rec, req)
		var pg2 roster.Page
		if err := json.Unmarshal(rec.Body.Bytes(), &pg2); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(pg2.Rows) != 2 {
			t.Fatalf("len(students) = %v, want %v", len(pg2.Rows), 2)
		}
		if pg2.Rows[0].Student.NIM != "2012100011" {
			t.Errorf("first nim = %v, want %v", pg2.Rows[0].Student.NIM, "2012100011")
		}
	})

	t.Run("Search is unpaginated", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/grading/students?search=student", lectToken)
		f.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var pg roster.Page
		if err := json.Unmarshal(rec.Body.Bytes(), &pg); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(pg.Rows) != 12 || pg.Total != 12 {
			t.Errorf("rows, total = %v, %v; want 12, 12", len(pg.Rows), pg.Total)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/grading/students?search=2012100007", lectToken)
		f.app.ServeHTTP(rec, req)
		if err := json.Unmarshal(rec.Body.Bytes(), &pg); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(pg.Rows) != 1 {
			t.Fatalf("len(students) = %v, want %v", len(pg.Rows), 1)
		}
		if pg.Rows[0].Student.NIM != "2012100007" {
			t.Errorf("nim = %v, want %v", pg.Rows[0].Student.NIM, "2012100007")
		}
	})
}

func Test_gradingApi_grade(t *testing.T) {
	f := setup(t)
	stud := testutil.CreateStudent(t, f.studentRepo, "2012100001", "Jane Doe")
	lect := testutil.CreateLecturer(t, f.lecturerRepo, "lkaunda@kazi.cd", "LocalHero97!")
	testutil.CreateDataset(t, f.datasetRepo, "sales")

	a, err := f.assignmentSvc.GetOrCreateForStudent(context.Background(), stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}

	path := "/v1/grading/grade"
	lectToken := getLecturerToken(t, lect)
	gradeBody := func(score int) []byte {
		return []byte(fmt.Sprintf(`{"assignment_id": %q, "score": %d, "feedback": "Solid work."}`, a.ID, score))
	}

	tests := []httpTest{
		{
			name:     "Auth required",
			body:     gradeBody(85),
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "Students cannot grade",
			token:    getStudentToken(t, stud),
			body:     gradeBody(85),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "Score required",
			token:    lectToken,
			body:     []byte(fmt.Sprintf(`{"assignment_id": %q}`, a.ID)),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"score": "this field is required"}),
		},
		{
			name:     "Score above 100 fails",
			token:    lectToken,
			body:     gradeBody(101),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Negative score fails",
			token:    lectToken,
			body:     gradeBody(-1),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Malformed assignment ID fails",
			token:    lectToken,
			body:     []byte(`{"assignment_id": "nope", "score": 85}`),
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "assignment not found"}),
		},
		{
			name:     "Valid grade passes",
			token:    lectToken,
			body:     gradeBody(85),
			wantCode: http.StatusCreated,
		},
		{
			name:     "Grading is at-most-once",
			token:    lectToken,
			body:     gradeBody(70),
			wantCode: http.StatusConflict,
			wantData: marshallObj(t, httpErr{Error: "assignment has already been graded"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("The first grade sticks", func(t *testing.T) {
		g, err := f.gradingSvc.GetGrade(context.Background(), a.ID)
		if err != nil {
			t.Fatalf("GetGrade() failed: %v", err)
		}
		if g == nil {
			t.Fatal("grade = nil, want the recorded grade")
		}
		if g.Score != 85 {
			t.Errorf("score = %v, want %v", g.Score, 85)
		}
	})
}
