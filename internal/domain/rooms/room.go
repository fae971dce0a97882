package rooms

import (
	"time"

	"github.com/google/uuid"
)

// Room is a bookable study space on campus. Only whitelisted rooms are ever
// offered to users.
type Room struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomName string    `gorm:"column:room_name" json:"room_name"`
	Capacity int       `gorm:"column:capacity" json:"capacity"`

	LocationLat  float64 `gorm:"column:location_lat" json:"location_lat"`
	LocationLong float64 `gorm:"column:location_long" json:"location_long"`

	// Room number like "G23", building name like "Ainsworth Building" and map
	// grid reference like "K17".
	UNSWRoomNumber   string `gorm:"column:unsw_room_number" json:"unsw_room_number"`
	UNSWBuildingName string `gorm:"column:unsw_building_name" json:"unsw_building_name"`
	UNSWMapPosition  string `gorm:"column:unsw_map_position" json:"unsw_map_position"`

	StudentVIPRoomLink     *string `gorm:"column:student_vip_room_link" json:"student_vip_room_link,omitempty"`
	StudentVIPBuildingLink *string `gorm:"column:student_vip_building_link" json:"student_vip_building_link,omitempty"`

	Whitelisted bool `gorm:"column:whitelisted;not null;default:false;index" json:"whitelisted"`
}

func (Room) TableName() string { return "room" }

// ClassBooking is a timetabled class occupying a room.
type ClassBooking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index:idx_class_booking_room_time,priority:1" json:"room_id"`
	StartTime time.Time `gorm:"not null;index:idx_class_booking_room_time,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
}

func (ClassBooking) TableName() string { return "class_booking" }

// UserBooking is a room claimed through the bot. Rows are never updated.
type UserBooking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_booking_room_time,priority:1" json:"room_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	StartTime time.Time `gorm:"not null;index:idx_user_booking_room_time,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (UserBooking) TableName() string { return "user_booking" }
