package conversation

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

// StateRepo reads and appends conversation state snapshots. It never
// updates or deletes rows.
type StateRepo interface {
	Latest(dbc dbctx.Context, userID uuid.UUID) (*types.ConversationState, error)
	Insert(dbc dbctx.Context, row *types.ConversationState) error
	History(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ConversationState, error)
}

type stateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStateRepo(db *gorm.DB, baseLog *logger.Logger) StateRepo {
	return &stateRepo{
		db:  db,
		log: baseLog.With("repo", "ConversationStateRepo"),
	}
}

func (r *stateRepo) Latest(dbc dbctx.Context, userID uuid.UUID) (*types.ConversationState, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.ConversationState
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("seq DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *stateRepo) Insert(dbc dbctx.Context, row *types.ConversationState) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = row.CreatedAt.UTC()
	return dbc.Conn(r.db).Create(row).Error
}

// History lists a user's snapshots newest first.
func (r *stateRepo) History(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ConversationState, error) {
	var out []*types.ConversationState
	if userID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
