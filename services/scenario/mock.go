package scenariosvc

import (
	"context"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/chat"
	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/student"
)

// MockService returns fixed content, or the configured errors, so tests can
// exercise provider and responder failure paths deterministically.
type MockService struct {
	GenerateErr error
	ReplyErr    error
	ReplyBody   string
}

var (
	_ assignment.Provider = (*MockService)(nil)
	_ chat.Responder      = (*MockService)(nil)
)

func NewMockService() *MockService {
	return &MockService{ReplyBody: "Noted, thank you. Anything else?"}
}

func (svc MockService) GenerateScenario(_ context.Context, stud student.Student, ds dataset.Dataset) (assignment.Scenario, error) {
	if svc.GenerateErr != nil {
		return assignment.Scenario{}, svc.GenerateErr
	}
	return assignment.Scenario{
		Title:              "Test scenario for " + ds.Name,
		Difficulty:         "beginner",
		StakeholderName:    "Test Stakeholder",
		StakeholderRole:    "Manager",
		Narrative:          "Help the stakeholder understand " + ds.Name + ".",
		Objectives:         []string{"Clean the data", "Answer the questions"},
		PersonaInstruction: "You are a test stakeholder talking to " + stud.Name + ".",
	}, nil
}

func (svc MockService) Reply(_ context.Context, _ assignment.Scenario, _ []chat.Message, _ string) (string, error) {
	if svc.ReplyErr != nil {
		return "", svc.ReplyErr
	}
	return svc.ReplyBody, nil
}
