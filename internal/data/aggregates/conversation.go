package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	convrepo "github.com/yungbote/roomfinder-backend/internal/data/repos/conversation"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
)

// StateTx is the view of a user's state inside a locked transaction.
type StateTx struct {
	DBC    dbctx.Context
	UserID uuid.UUID
	// Latest is the current snapshot when the transaction began; Append
	// advances it.
	Latest *types.ConversationState

	store *ConversationStore
}

// Append writes the next snapshot within the transaction.
func (t *StateTx) Append(upd conversation.Update) (*types.ConversationState, error) {
	next, err := t.store.appendRow(t.DBC, t.UserID, t.Latest, upd)
	if err != nil {
		return nil, err
	}
	t.Latest = next
	return next, nil
}

// ConversationStore is the append-only state log. Every operation runs under
// the user's lock in its own transaction.
type ConversationStore struct {
	deps   BaseDeps
	states convrepo.StateRepo
}

type ConversationStoreDeps struct {
	Base   BaseDeps
	States convrepo.StateRepo
}

func NewConversationStore(deps ConversationStoreDeps) *ConversationStore {
	base := deps.Base.withDefaults()
	states := deps.States
	if states == nil {
		states = convrepo.NewStateRepo(base.DB, base.Log)
	}
	return &ConversationStore{deps: base, states: states}
}

func lockKey(userID uuid.UUID) string {
	return "conversation:" + userID.String()
}

// GetLatest returns the user's current state, inserting an INITIAL snapshot
// with empty data when the user has none.
func (s *ConversationStore) GetLatest(ctx context.Context, userID uuid.UUID) (*types.ConversationState, error) {
	var out *types.ConversationState
	err := executeWrite(ctx, s.deps, "conversation.get_latest", lockKey(userID), func(dbc dbctx.Context) error {
		latest, err := s.latestOrInit(dbc, userID)
		out = latest
		return err
	})
	return out, err
}

// Append inserts the snapshot following the current one.
func (s *ConversationStore) Append(ctx context.Context, userID uuid.UUID, upd conversation.Update) (*types.ConversationState, error) {
	var out *types.ConversationState
	err := s.Transition(ctx, userID, "conversation.append", func(tx *StateTx) error {
		next, err := tx.Append(upd)
		out = next
		return err
	})
	return out, err
}

// Transition runs fn with the current state under the user's lock and one
// transaction. Returning an error rolls back everything fn wrote.
func (s *ConversationStore) Transition(ctx context.Context, userID uuid.UUID, op string, fn func(tx *StateTx) error) error {
	if op == "" {
		op = "conversation.transition"
	}
	return executeWrite(ctx, s.deps, op, lockKey(userID), func(dbc dbctx.Context) error {
		latest, err := s.latestOrInit(dbc, userID)
		if err != nil {
			return err
		}
		return fn(&StateTx{DBC: dbc, UserID: userID, Latest: latest, store: s})
	})
}

// History lists the user's snapshots newest first.
func (s *ConversationStore) History(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ConversationState, error) {
	rows, err := s.states.History(dbctx.Context{Ctx: ctx}, userID, limit)
	return rows, MapError("conversation.history", err)
}

func (s *ConversationStore) latestOrInit(dbc dbctx.Context, userID uuid.UUID) (*types.ConversationState, error) {
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, "conversation.latest", "missing user id", nil)
	}
	latest, err := s.states.Latest(dbc, userID)
	if err != nil || latest != nil {
		return latest, err
	}
	return s.appendRow(dbc, userID, nil, conversation.Reset())
}

func (s *ConversationStore) appendRow(dbc dbctx.Context, userID uuid.UUID, prev *types.ConversationState, upd conversation.Update) (*types.ConversationState, error) {
	phase, data, err := upd.Apply(prev)
	if err != nil {
		return nil, ValidationError(err.Error())
	}
	row := &types.ConversationState{
		ID:        uuid.New(),
		UserID:    userID,
		Seq:       1,
		Phase:     phase,
		Data:      data,
		CreatedAt: s.deps.Clock.Now().UTC(),
	}
	if prev != nil {
		row.Seq = prev.Seq + 1
		// Keep created_at monotonic per user if the wall clock steps back.
		if row.CreatedAt.Before(prev.CreatedAt) {
			row.CreatedAt = prev.CreatedAt
		}
	}
	if err := s.states.Insert(dbc, row); err != nil {
		return nil, fmt.Errorf("insert conversation state: %w", err)
	}
	return row, nil
}
