package rooms

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

type RoomRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error)
	ListWhitelisted(dbc dbctx.Context) ([]*types.Room, error)
	// Upsert matches on room number and building name.
	Upsert(dbc dbctx.Context, room *types.Room) (*types.Room, error)
}

type roomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return &roomRepo{
		db:  db,
		log: baseLog.With("repo", "RoomRepo"),
	}
}

func (r *roomRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Room
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *roomRepo) ListWhitelisted(dbc dbctx.Context) ([]*types.Room, error) {
	var out []*types.Room
	if err := dbc.Conn(r.db).
		Where("whitelisted = ?", true).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roomRepo) Upsert(dbc dbctx.Context, room *types.Room) (*types.Room, error) {
	if room == nil {
		return nil, nil
	}
	room.UNSWRoomNumber = strings.TrimSpace(room.UNSWRoomNumber)
	room.UNSWBuildingName = strings.TrimSpace(room.UNSWBuildingName)

	var existing types.Room
	if err := dbc.Conn(r.db).
		Where("unsw_room_number = ? AND unsw_building_name = ?", room.UNSWRoomNumber, room.UNSWBuildingName).
		Limit(1).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	if existing.ID == uuid.Nil {
		if room.ID == uuid.Nil {
			room.ID = uuid.New()
		}
		if err := dbc.Conn(r.db).Create(room).Error; err != nil {
			return nil, err
		}
		return room, nil
	}

	room.ID = existing.ID
	if err := dbc.Conn(r.db).
		Model(&types.Room{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"room_name":                 room.RoomName,
			"capacity":                  room.Capacity,
			"location_lat":              room.LocationLat,
			"location_long":             room.LocationLong,
			"unsw_map_position":         room.UNSWMapPosition,
			"student_vip_room_link":     room.StudentVIPRoomLink,
			"student_vip_building_link": room.StudentVIPBuildingLink,
			"whitelisted":               room.Whitelisted,
		}).Error; err != nil {
		return nil, err
	}
	return room, nil
}
