package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/chat"
)

type messageRecord struct {
	ID           uuid.UUID `db:"id"`
	AssignmentID uuid.UUID `db:"assignment_id"`
	Seq          int64     `db:"seq"`
	Sender       string    `db:"sender"`
	Body         string    `db:"body"`
	CreatedAt    time.Time `db:"created_at"`
}

func (rec messageRecord) toMessage() chat.Message {
	return chat.Message{
		ID:           rec.ID,
		AssignmentID: rec.AssignmentID,
		Sender:       chat.Sender(rec.Sender),
		Body:         rec.Body,
		Seq:          rec.Seq,
		CreatedAt:    rec.CreatedAt,
	}
}

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) chat.Repository {
	return &chatRepository{db: db}
}

func (repo chatRepository) AppendMessage(ctx context.Context, msg chat.Message) (chat.Message, error) {
	// seq comes from a bigserial so concurrent appends take a total order;
	// the timestamp is clamped to the log's max so it never runs backwards
	// relative to earlier messages.
	var rec messageRecord
	err := repo.db.GetContext(ctx, &rec, `
		INSERT INTO chat_message (id, assignment_id, sender, body, created_at)
		VALUES ($1, $2, $3, $4, GREATEST(
			$5::timestamptz,
			COALESCE((SELECT MAX(created_at) FROM chat_message WHERE assignment_id = $2), $5::timestamptz)
		))
		RETURNING *`,
		msg.ID, msg.AssignmentID, string(msg.Sender), msg.Body, msg.CreatedAt,
	)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "appending message")
	}
	return rec.toMessage(), nil
}

func (repo chatRepository) QueryMessages(ctx context.Context, assignmentID uuid.UUID) ([]chat.Message, error) {
	var recs []messageRecord
	err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM chat_message WHERE assignment_id = $1 ORDER BY seq`, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}

	msgs := make([]chat.Message, len(recs))
	for i, rec := range recs {
		msgs[i] = rec.toMessage()
	}
	return msgs, nil
}
