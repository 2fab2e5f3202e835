package chat_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/chat"
	scenariosvc "github.com/trezcool/kazi/services/scenario"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
	testutil "github.com/trezcool/kazi/tests"
)

type fixture struct {
	svc *chat.Service
	a   assignment.Assignment
}

func setup(t *testing.T) fixture {
	db := testutil.OpenDB(t)
	studentRepo := inmemdb.NewStudentRepository(db)
	datasetRepo := inmemdb.NewDatasetRepository(db)
	assignmentRepo := inmemdb.NewAssignmentRepository(db)

	stud := testutil.CreateStudent(t, studentRepo, "2110511001", "Adi Nugroho")
	testutil.CreateDataset(t, datasetRepo, "retail-sales")

	assignmentSvc := assignment.NewService(
		assignmentRepo, studentRepo, datasetRepo, scenariosvc.NewStaticService(), testutil.FirstPicker)
	a, err := assignmentSvc.GetOrCreateForStudent(context.Background(), stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}

	return fixture{
		svc: chat.NewService(inmemdb.NewChatRepository(db), assignmentRepo),
		a:   a,
	}
}

func TestService_Append_totalOrder(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	bodies := []struct {
		sender chat.Sender
		body   string
	}{
		{chat.SenderStudent, "Hi, I have looked at the data."},
		{chat.SenderStakeholder, "Great, what did you find?"},
		{chat.SenderStudent, "Sales dip every February."},
	}
	for _, m := range bodies {
		if _, err := f.svc.Append(ctx, f.a.ID, m.sender, m.body); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	msgs, err := f.svc.List(ctx, f.a.ID)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(msgs) != len(bodies) {
		t.Fatalf("List() len = %v, want %v", len(msgs), len(bodies))
	}
	for i, msg := range msgs {
		if msg.Body != bodies[i].body {
			t.Errorf("msgs[%d].Body = %q, want %q", i, msg.Body, bodies[i].body)
		}
		if msg.Sender != bodies[i].sender {
			t.Errorf("msgs[%d].Sender = %v, want %v", i, msg.Sender, bodies[i].sender)
		}
		if i > 0 {
			if msgs[i].Seq <= msgs[i-1].Seq {
				t.Errorf("Seq not strictly increasing: %d <= %d", msgs[i].Seq, msgs[i-1].Seq)
			}
			if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
				t.Errorf("CreatedAt runs backwards at index %d", i)
			}
		}
	}
}

func TestService_Append_validation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	tests := []struct {
		name   string
		id     uuid.UUID
		sender chat.Sender
		body   string
		check  func(error) bool
	}{
		{
			name: "empty body", id: f.a.ID, sender: chat.SenderStudent, body: "   ",
			check: func(err error) bool { _, ok := errors.Cause(err).(*core.ValidationError); return ok },
		},
		{
			name: "unknown sender", id: f.a.ID, sender: chat.Sender("lecturer"), body: "hi",
			check: func(err error) bool { _, ok := errors.Cause(err).(*core.ValidationError); return ok },
		},
		{
			name: "unknown assignment", id: uuid.New(), sender: chat.SenderStudent, body: "hi",
			check: func(err error) bool { return errors.Cause(err) == assignment.ErrNotFound },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Append(ctx, tt.id, tt.sender, tt.body)
			if err == nil || !tt.check(err) {
				t.Errorf("Append() error = %v, want rejection", err)
			}
		})
	}
}

func TestService_Append_concurrent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if _, err := f.svc.Append(ctx, f.a.ID, chat.SenderStudent, fmt.Sprintf("message %d", i)); err != nil {
				t.Errorf("Append() failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	msgs, err := f.svc.List(ctx, f.a.ID)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(msgs) != n {
		t.Fatalf("List() len = %v, want %v", len(msgs), n)
	}

	seen := make(map[int64]bool, n)
	for i, msg := range msgs {
		if seen[msg.Seq] {
			t.Errorf("duplicate Seq %d", msg.Seq)
		}
		seen[msg.Seq] = true
		if i > 0 && msgs[i].Seq <= msgs[i-1].Seq {
			t.Errorf("Seq not strictly increasing: %d <= %d", msgs[i].Seq, msgs[i-1].Seq)
		}
	}
}

func TestService_List_unknownAssignment(t *testing.T) {
	f := setup(t)
	if _, err := f.svc.List(context.Background(), uuid.New()); errors.Cause(err) != assignment.ErrNotFound {
		t.Errorf("List() error = %v, want %v", err, assignment.ErrNotFound)
	}
}
