package scenariosvc

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/chat"
	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/student"
)

// staticService generates scenarios and stakeholder replies from built-in
// templates. It stands in for an external content generation backend; the
// same student/dataset pair always yields the same scenario.
type staticService struct{}

var (
	_ assignment.Provider = (*staticService)(nil)
	_ chat.Responder      = (*staticService)(nil)
)

func NewStaticService() *staticService {
	return &staticService{}
}

var (
	difficulties = []string{"beginner", "intermediate", "advanced"}

	stakeholders = []struct {
		name string
		role string
	}{
		{"Amina Yusuf", "Head of Operations"},
		{"Daniel Otieno", "Marketing Director"},
		{"Grace Wanjiru", "Product Manager"},
		{"Samuel Kimani", "Finance Lead"},
		{"Fatima Hassan", "Customer Success Manager"},
	}

	replyTemplates = []string{
		"Thanks for the update. Could you tell me what that means for %s in practical terms?",
		"Interesting. How confident are you in that finding given the state of the data in %s?",
		"Good progress. What would you recommend we do next based on %s?",
		"I see. Can you back that up with specific numbers from %s?",
	}
)

func (svc staticService) GenerateScenario(_ context.Context, stud student.Student, ds dataset.Dataset) (assignment.Scenario, error) {
	h := seed(stud.NIM + "/" + ds.ID.String())
	sh := stakeholders[h%uint32(len(stakeholders))]
	difficulty := difficulties[h%uint32(len(difficulties))]

	objectives := []string{
		fmt.Sprintf("Explore %s and summarise its overall quality", ds.Name),
		"Identify and handle missing or inconsistent values",
		fmt.Sprintf("Answer %s's business questions with evidence from the data", sh.name),
		"Present findings in plain language a non-technical stakeholder can act on",
	}
	for _, col := range ds.Columns {
		if len(objectives) >= 6 {
			break
		}
		objectives = append(objectives, fmt.Sprintf("Investigate how %s relates to the main outcome", col))
	}

	narrative := fmt.Sprintf(
		"%s, the %s, needs help making sense of %s. %s "+
			"They have asked %s to dig into the data and report back. "+
			"Expect follow-up questions over chat; the stakeholder cares about business impact, not methodology.",
		sh.name, sh.role, ds.Name, ds.Description, stud.Name,
	)

	persona := fmt.Sprintf(
		"You are %s, %s. You are not technical. You are under time pressure and want clear, "+
			"actionable answers about %s. Push back politely when the analyst is vague or overly "+
			"technical. Known data quality issues: %s",
		sh.name, sh.role, ds.Name, orNone(ds.QualityNotes),
	)

	return assignment.Scenario{
		Title:              fmt.Sprintf("Analysing %s for %s", ds.Name, sh.name),
		Difficulty:         difficulty,
		StakeholderName:    sh.name,
		StakeholderRole:    sh.role,
		Narrative:          narrative,
		Objectives:         objectives,
		PersonaInstruction: persona,
	}, nil
}

func (svc staticService) Reply(_ context.Context, sc assignment.Scenario, history []chat.Message, _ string) (string, error) {
	tmpl := replyTemplates[len(history)%len(replyTemplates)]
	subject := "the project"
	if sc.Title != "" {
		subject = strings.ToLower(sc.Title[:1]) + sc.Title[1:]
	}
	return fmt.Sprintf(tmpl, subject), nil
}

func seed(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

func orNone(s string) string {
	if s == "" {
		return "none reported."
	}
	return s
}
