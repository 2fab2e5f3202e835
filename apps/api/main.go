package main

import (
	"log"
	"net"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/kazi/apps/api/echo"
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
	"github.com/trezcool/kazi/storage/database"
	sqlxrepos "github.com/trezcool/kazi/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lshortfile)
	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()
	if err = database.Migrate(db); err != nil {
		logger.Fatal("migrating database", err)
	}

	// set up validation
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	lecturer.RegisterValidators(validate, translator)

	// set up repos
	studentRepo := sqlxrepos.NewStudentRepository(db)
	lecturerRepo := sqlxrepos.NewLecturerRepository(db)
	datasetRepo := sqlxrepos.NewDatasetRepository(db)
	assignmentRepo := sqlxrepos.NewAssignmentRepository(db)
	chatRepo := sqlxrepos.NewChatRepository(db)
	submissionRepo := sqlxrepos.NewSubmissionRepository(db)
	gradeRepo := sqlxrepos.NewGradeRepository(db)
	rosterRepo := sqlxrepos.NewRosterRepository(db)

	// set up services
	scenarioSvc := scenariosvc.NewStaticService()

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Addr:       net.JoinHostPort("", conf.Server.Port),
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		StudentSvc:    student.NewService(studentRepo),
		LecturerSvc:   lecturer.NewService(lecturerRepo),
		DatasetSvc:    dataset.NewService(datasetRepo),
		AssignmentSvc: assignment.NewService(assignmentRepo, studentRepo, datasetRepo, scenarioSvc, nil),
		ChatSvc:       chat.NewService(chatRepo, assignmentRepo),
		SubmissionSvc: submission.NewService(submissionRepo, assignmentRepo),
		GradingSvc:    grading.NewService(gradeRepo, assignmentRepo),
		RosterSvc:     roster.NewService(rosterRepo),
		Responder:     scenarioSvc,
	})
	logger.Info("starting server on :" + conf.Server.Port)
	app.Start()
}
