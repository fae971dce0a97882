package rooms

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
)

// Availability is one search result: a room and the free slot found in it.
// It is pinned into conversation state while a booking is pending, so the
// JSON names are part of the stored format.
type Availability struct {
	RoomID uuid.UUID `json:"room_id"`

	// Campus local time of day the slot opens, "HH:MM:SS.mmm".
	RoomOpenAt string `json:"room_open_at"`
	// Wait until the slot opens; nil when the room is free right away.
	TillAvailable *clock.Interval `json:"till_available"`
	// Length of the free slot.
	Availablity clock.Interval `json:"availablity"`

	UNSWRoomNumber   string  `json:"unsw_room_number"`
	UNSWBuildingName string  `json:"unsw_building_name"`
	UNSWMapPosition  string  `json:"unsw_map_position"`
	LocationLat      float64 `json:"location_lat"`
	LocationLong     float64 `json:"location_long"`

	StudentVIPRoomLink     *string `json:"student_vip_room_link,omitempty"`
	StudentVIPBuildingLink *string `json:"student_vip_building_link,omitempty"`
}

// OpensAt places RoomOpenAt on the calendar day of searchedAt in loc.
func (a Availability) OpensAt(searchedAt time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return clock.FromPGTimeString(a.RoomOpenAt, searchedAt.In(loc))
}

// Slot returns the booking window this availability describes.
func (a Availability) Slot(searchedAt time.Time, loc *time.Location) (start, end time.Time, err error) {
	start, err = a.OpensAt(searchedAt, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, clock.Add(start, a.Availablity), nil
}

// MoreInfoLink prefers the room page over the building page.
func (a Availability) MoreInfoLink() string {
	if a.StudentVIPRoomLink != nil && *a.StudentVIPRoomLink != "" {
		return *a.StudentVIPRoomLink
	}
	if a.StudentVIPBuildingLink != nil && *a.StudentVIPBuildingLink != "" {
		return *a.StudentVIPBuildingLink
	}
	return ""
}

// FromRoom fills the room descriptive fields of an availability.
func FromRoom(r Room) Availability {
	return Availability{
		RoomID:                 r.ID,
		UNSWRoomNumber:         r.UNSWRoomNumber,
		UNSWBuildingName:       r.UNSWBuildingName,
		UNSWMapPosition:        r.UNSWMapPosition,
		LocationLat:            r.LocationLat,
		LocationLong:           r.LocationLong,
		StudentVIPRoomLink:     r.StudentVIPRoomLink,
		StudentVIPBuildingLink: r.StudentVIPBuildingLink,
	}
}
