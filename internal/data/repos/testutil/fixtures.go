package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
)

func SeedBotUser(tb testing.TB, ctx context.Context, tx *gorm.DB, facebookID string) *types.BotUser {
	tb.Helper()
	u := &types.BotUser{
		ID:         uuid.New(),
		FacebookID: facebookID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed bot user: %v", err)
	}
	return u
}

// SeedRoom inserts a whitelisted room at the given coordinates.
func SeedRoom(tb testing.TB, ctx context.Context, tx *gorm.DB, number, building string, lat, long float64) *types.Room {
	tb.Helper()
	link := "https://example.com/rooms/" + number
	r := &types.Room{
		ID:                 uuid.New(),
		RoomName:           building + " " + number,
		Capacity:           20,
		LocationLat:        lat,
		LocationLong:       long,
		UNSWRoomNumber:     number,
		UNSWBuildingName:   building,
		UNSWMapPosition:    "K17",
		StudentVIPRoomLink: &link,
		Whitelisted:        true,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed room: %v", err)
	}
	return r
}

func SeedClassBooking(tb testing.TB, ctx context.Context, tx *gorm.DB, roomID uuid.UUID, start, end time.Time) *types.ClassBooking {
	tb.Helper()
	b := &types.ClassBooking{
		ID:        uuid.New(),
		RoomID:    roomID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed class booking: %v", err)
	}
	return b
}

func SeedUserBooking(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, roomID uuid.UUID, start, end time.Time) *types.UserBooking {
	tb.Helper()
	b := &types.UserBooking{
		ID:        uuid.New(),
		RoomID:    roomID,
		UserID:    userID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed user booking: %v", err)
	}
	return b
}
