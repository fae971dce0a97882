package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

type BotUserRepo interface {
	GetByFacebookID(dbc dbctx.Context, facebookID string) (*types.BotUser, error)
	GetOrCreate(dbc dbctx.Context, facebookID string) (*types.BotUser, error)
}

type botUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBotUserRepo(db *gorm.DB, baseLog *logger.Logger) BotUserRepo {
	return &botUserRepo{
		db:  db,
		log: baseLog.With("repo", "BotUserRepo"),
	}
}

func (r *botUserRepo) GetByFacebookID(dbc dbctx.Context, facebookID string) (*types.BotUser, error) {
	facebookID = strings.TrimSpace(facebookID)
	if facebookID == "" {
		return nil, nil
	}
	var row types.BotUser
	if err := dbc.Conn(r.db).
		Where("facebook_id = ?", facebookID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetOrCreate returns the user for facebookID, inserting it on first contact.
// Concurrent first contacts converge on one row through the unique index.
func (r *botUserRepo) GetOrCreate(dbc dbctx.Context, facebookID string) (*types.BotUser, error) {
	existing, err := r.GetByFacebookID(dbc, facebookID)
	if err != nil || existing != nil {
		return existing, err
	}
	row := &types.BotUser{
		ID:         uuid.New(),
		FacebookID: strings.TrimSpace(facebookID),
		CreatedAt:  time.Now().UTC(),
	}
	if row.FacebookID == "" {
		return nil, nil
	}
	res := dbc.Conn(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "facebook_id"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		r.log.Debug("Created bot user", "user_id", row.ID)
		return row, nil
	}
	return r.GetByFacebookID(dbc, facebookID)
}
