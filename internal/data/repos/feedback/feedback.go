package feedback

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

type FeedbackRepo interface {
	Create(dbc dbctx.Context, row *types.Feedback) error
	ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{
		db:  db,
		log: baseLog.With("repo", "FeedbackRepo"),
	}
}

func (r *feedbackRepo) Create(dbc dbctx.Context, row *types.Feedback) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.StartTime.IsZero() {
		row.StartTime = time.Now()
	}
	row.StartTime = row.StartTime.UTC()
	return dbc.Conn(r.db).Create(row).Error
}

func (r *feedbackRepo) ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Feedback, error) {
	var out []*types.Feedback
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
