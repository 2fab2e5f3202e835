package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/chat"
)

type chatRepository struct {
	db *chatTable
}

func NewChatRepository(db *DB) chat.Repository {
	return &chatRepository{db: db.chat}
}

func (repo *chatRepository) AppendMessage(ctx context.Context, msg chat.Message) (chat.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq[msg.AssignmentID]++
	msg.Seq = repo.db.seq[msg.AssignmentID]

	// timestamps must be non-decreasing in seq order
	if last := repo.db.lastTS[msg.AssignmentID]; msg.CreatedAt.Before(last) {
		msg.CreatedAt = last
	}
	repo.db.lastTS[msg.AssignmentID] = msg.CreatedAt

	repo.db.table[msg.AssignmentID] = append(repo.db.table[msg.AssignmentID], msg)
	return msg, nil
}

func (repo *chatRepository) QueryMessages(ctx context.Context, assignmentID uuid.UUID) ([]chat.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	msgs := repo.db.table[assignmentID]
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
