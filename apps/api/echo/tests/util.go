package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/chat"
	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/grading"
	"github.com/trezcool/kazi/core/lecturer"
	"github.com/trezcool/kazi/core/roster"
	"github.com/trezcool/kazi/core/student"
	"github.com/trezcool/kazi/core/submission"
	logsvc "github.com/trezcool/kazi/services/logger"
	scenariosvc "github.com/trezcool/kazi/services/scenario"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
	testutil "github.com/trezcool/kazi/tests"
)

var (
	conf *core.Config

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type fixture struct {
	app Server

	studentRepo    student.Repository
	lecturerRepo   lecturer.Repository
	datasetRepo    dataset.Repository
	assignmentRepo assignment.Repository

	assignmentSvc *assignment.Service
	chatSvc       *chat.Service
	submissionSvc *submission.Service
	gradingSvc    *grading.Service

	scenarioSvc *scenariosvc.MockService
}

func setup(t *testing.T) *fixture {
	conf = testutil.NewConfig()

	// set up DB & repos
	db := testutil.OpenDB(t)
	f := &fixture{
		studentRepo:    inmemdb.NewStudentRepository(db),
		lecturerRepo:   inmemdb.NewLecturerRepository(db),
		datasetRepo:    inmemdb.NewDatasetRepository(db),
		assignmentRepo: inmemdb.NewAssignmentRepository(db),
	}

	// set up services
	f.scenarioSvc = scenariosvc.NewMockService()
	f.assignmentSvc = assignment.NewService(
		f.assignmentRepo, f.studentRepo, f.datasetRepo, f.scenarioSvc, testutil.FirstPicker)
	f.chatSvc = chat.NewService(inmemdb.NewChatRepository(db), f.assignmentRepo)
	f.submissionSvc = submission.NewService(inmemdb.NewSubmissionRepository(db), f.assignmentRepo)
	f.gradingSvc = grading.NewService(inmemdb.NewGradeRepository(db), f.assignmentRepo)

	validate, translator := testutil.NewValidator()
	logger := logsvc.NewConsoleLogger(nil)
	logger.Enable(false)

	// set up server
	f.app = NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,

		StudentSvc:    student.NewService(f.studentRepo),
		LecturerSvc:   lecturer.NewService(f.lecturerRepo),
		DatasetSvc:    dataset.NewService(f.datasetRepo),
		AssignmentSvc: f.assignmentSvc,
		ChatSvc:       f.chatSvc,
		SubmissionSvc: f.submissionSvc,
		GradingSvc:    f.gradingSvc,
		RosterSvc:     roster.NewService(inmemdb.NewRosterRepository(db)),
		Responder:     f.scenarioSvc,
	})
	return f
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getStudentToken(t *testing.T, stud student.Student) string {
	t.Helper()
	token, err := GenerateToken(conf, GetStudentClaims(conf, stud))
	if err != nil {
		t.Fatalf("getStudentToken() failed: %v", err)
	}
	return token
}

func getLecturerToken(t *testing.T, lect lecturer.Lecturer) string {
	t.Helper()
	token, err := GenerateToken(conf, GetLecturerClaims(conf, lect))
	if err != nil {
		t.Fatalf("getLecturerToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
