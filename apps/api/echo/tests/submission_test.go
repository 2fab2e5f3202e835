package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/kazi/core/submission"
	testutil "github.com/trezcool/kazi/tests"
)

func Test_submissionApi(t *testing.T) {
	f := setup(t)
	stud := testutil.CreateStudent(t, f.studentRepo, "2012100001", "Jane Doe")
	other := testutil.CreateStudent(t, f.studentRepo, "2012100002", "John Posho")
	lect := testutil.CreateLecturer(t, f.lecturerRepo, "lkaunda@kazi.cd", "LocalHero97!")
	testutil.CreateDataset(t, f.datasetRepo, "sales")

	a, err := f.assignmentSvc.GetOrCreateForStudent(context.Background(), stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}

	studToken := getStudentToken(t, stud)
	subBody := func(linkURL, kind string) []byte {
		return []byte(fmt.Sprintf(
			`{"assignment_id": %q, "link_url": %q, "submission_type": %q}`, a.ID, linkURL, kind))
	}

	tests := []httpTest{
		{
			name:     "Auth required",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			body:     subBody("https://github.com/jdoe/sales-analysis", "progress"),
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "Lecturers cannot submit",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			token:    getLecturerToken(t, lect),
			body:     subBody("https://github.com/jdoe/sales-analysis", "progress"),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "Students cannot submit on another student's assignment",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			token:    getStudentToken(t, other),
			body:     subBody("https://github.com/jdoe/sales-analysis", "progress"),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "Malformed assignment ID fails",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			token:    studToken,
			body:     []byte(`{"assignment_id": "nope", "link_url": "https://github.com/jdoe/x", "submission_type": "progress"}`),
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "assignment not found"}),
		},
		{
			name:     "Non-http link fails",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			token:    studToken,
			body:     subBody("ftp://github.com/jdoe/sales-analysis", "progress"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Unknown submission type fails",
			method:   http.MethodPost,
			path:     "/v1/submissions",
			token:    studToken,
			body:     subBody("https://github.com/jdoe/sales-analysis", "draft"),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Submissions append in order", func(t *testing.T) {
		for i, kind := range []string{"progress", "FINAL"} { // type is case-insensitive
			req, rec := newAuthRequest(http.MethodPost, "/v1/submissions", studToken,
				subBody(fmt.Sprintf("https://github.com/jdoe/sales-analysis/pull/%d", i+1), kind))
			f.app.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
			}
		}

		req, rec := newAuthRequest(http.MethodGet, "/v1/submissions/"+a.ID.String(), studToken)
		f.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var subs []submission.Submission
		if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(subs) != 2 {
			t.Fatalf("len(submissions) = %v, want %v", len(subs), 2)
		}
		if subs[0].Kind != submission.KindProgress || subs[1].Kind != submission.KindFinal {
			t.Errorf("kinds = [%v %v], want [%v %v]", subs[0].Kind, subs[1].Kind, submission.KindProgress, submission.KindFinal)
		}

		// lecturers may list any assignment's submissions
		req, rec = newAuthRequest(http.MethodGet, "/v1/submissions/"+a.ID.String(), getLecturerToken(t, lect))
		f.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, subs)}, rec)
	})
}
