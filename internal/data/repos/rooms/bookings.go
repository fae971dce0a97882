package rooms

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

// Interval is a half-open [Start, End) span during which a room is taken.
type Interval struct {
	RoomID uuid.UUID
	Start  time.Time
	End    time.Time
}

type UserBookingRepo interface {
	Create(dbc dbctx.Context, row *types.UserBooking) error
	LatestForUser(dbc dbctx.Context, userID uuid.UUID) (*types.UserBooking, error)
	ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserBooking, error)
	ListOverlapping(dbc dbctx.Context, roomIDs []uuid.UUID, from, to time.Time) ([]Interval, error)
}

type userBookingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserBookingRepo(db *gorm.DB, baseLog *logger.Logger) UserBookingRepo {
	return &userBookingRepo{
		db:  db,
		log: baseLog.With("repo", "UserBookingRepo"),
	}
}

func (r *userBookingRepo) Create(dbc dbctx.Context, row *types.UserBooking) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	row.StartTime = row.StartTime.UTC()
	row.EndTime = row.EndTime.UTC()
	row.CreatedAt = row.CreatedAt.UTC()
	return dbc.Conn(r.db).Create(row).Error
}

func (r *userBookingRepo) LatestForUser(dbc dbctx.Context, userID uuid.UUID) (*types.UserBooking, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserBooking
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userBookingRepo) ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserBooking, error) {
	var out []*types.UserBooking
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userBookingRepo) ListOverlapping(dbc dbctx.Context, roomIDs []uuid.UUID, from, to time.Time) ([]Interval, error) {
	var rows []*types.UserBooking
	if err := overlapping(dbc.Conn(r.db), roomIDs, from, to).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Interval, 0, len(rows))
	for _, b := range rows {
		out = append(out, Interval{RoomID: b.RoomID, Start: b.StartTime, End: b.EndTime})
	}
	return out, nil
}

type ClassBookingRepo interface {
	// Create skips rows identical to an existing booking.
	Create(dbc dbctx.Context, rows []*types.ClassBooking) (int, error)
	ListOverlapping(dbc dbctx.Context, roomIDs []uuid.UUID, from, to time.Time) ([]Interval, error)
}

type classBookingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassBookingRepo(db *gorm.DB, baseLog *logger.Logger) ClassBookingRepo {
	return &classBookingRepo{
		db:  db,
		log: baseLog.With("repo", "ClassBookingRepo"),
	}
}

func (r *classBookingRepo) Create(dbc dbctx.Context, rows []*types.ClassBooking) (int, error) {
	created := 0
	for _, row := range rows {
		if row == nil || row.RoomID == uuid.Nil {
			continue
		}
		row.StartTime = row.StartTime.UTC()
		row.EndTime = row.EndTime.UTC()

		var count int64
		if err := dbc.Conn(r.db).
			Model(&types.ClassBooking{}).
			Where("room_id = ? AND start_time = ? AND end_time = ?", row.RoomID, row.StartTime, row.EndTime).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if err := dbc.Conn(r.db).Create(row).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (r *classBookingRepo) ListOverlapping(dbc dbctx.Context, roomIDs []uuid.UUID, from, to time.Time) ([]Interval, error) {
	var rows []*types.ClassBooking
	if err := overlapping(dbc.Conn(r.db), roomIDs, from, to).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Interval, 0, len(rows))
	for _, b := range rows {
		out = append(out, Interval{RoomID: b.RoomID, Start: b.StartTime, End: b.EndTime})
	}
	return out, nil
}

// overlapping filters bookings intersecting [from, to). Times are compared
// in UTC, the zone every booking is written in.
func overlapping(q *gorm.DB, roomIDs []uuid.UUID, from, to time.Time) *gorm.DB {
	if len(roomIDs) == 0 {
		return q.Where("1 = 0")
	}
	return q.
		Where("room_id IN ?", roomIDs).
		Where("start_time < ? AND end_time > ?", to.UTC(), from.UTC()).
		Order("start_time ASC")
}
