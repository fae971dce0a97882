package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/roomfinder-backend/internal/data/repos"
	types "github.com/yungbote/roomfinder-backend/internal/domain"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

// SeedFile is the YAML layout accepted by seed-rooms.
type SeedFile struct {
	Rooms []SeedRoom `yaml:"rooms"`
}

type SeedRoom struct {
	Number       string      `yaml:"number"`
	Building     string      `yaml:"building"`
	Name         string      `yaml:"name"`
	Capacity     int         `yaml:"capacity"`
	Lat          float64     `yaml:"lat"`
	Long         float64     `yaml:"long"`
	MapPosition  string      `yaml:"map_position"`
	RoomLink     string      `yaml:"room_link"`
	BuildingLink string      `yaml:"building_link"`
	Whitelisted  bool        `yaml:"whitelisted"`
	Classes      []SeedClass `yaml:"classes"`
}

// SeedClass times are read in the campus zone unless they carry an offset.
type SeedClass struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type SeedResult struct {
	Rooms   int
	Classes int
}

var seedTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04"}

func parseSeedTime(raw string, campus *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range seedTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, campus); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", raw)
}

// ParseSeed decodes and checks a seed document.
func ParseSeed(raw []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	for i, r := range f.Rooms {
		if strings.TrimSpace(r.Number) == "" || strings.TrimSpace(r.Building) == "" {
			return nil, fmt.Errorf("rooms[%d]: number and building are required", i)
		}
	}
	return &f, nil
}

// SeedRooms upserts every room and adds its classes in one transaction.
// Re-running the same file changes nothing.
func SeedRooms(ctx context.Context, log *logger.Logger, db *gorm.DB, f *SeedFile, campus *time.Location) (SeedResult, error) {
	roomRepo := repos.NewRoomRepo(db, log)
	classRepo := repos.NewClassBookingRepo(db, log)

	var res SeedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for i, sr := range f.Rooms {
			room, err := roomRepo.Upsert(dbc, sr.toRoom())
			if err != nil {
				return fmt.Errorf("rooms[%d]: upsert: %w", i, err)
			}
			res.Rooms++

			var classes []*types.ClassBooking
			for j, c := range sr.Classes {
				start, err := parseSeedTime(c.Start, campus)
				if err != nil {
					return fmt.Errorf("rooms[%d].classes[%d].start: %w", i, j, err)
				}
				end, err := parseSeedTime(c.End, campus)
				if err != nil {
					return fmt.Errorf("rooms[%d].classes[%d].end: %w", i, j, err)
				}
				if !end.After(start) {
					return fmt.Errorf("rooms[%d].classes[%d]: end must be after start", i, j)
				}
				classes = append(classes, &types.ClassBooking{RoomID: room.ID, StartTime: start, EndTime: end})
			}
			n, err := classRepo.Create(dbc, classes)
			if err != nil {
				return fmt.Errorf("rooms[%d]: classes: %w", i, err)
			}
			res.Classes += n
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	log.Info("Seeded rooms", "rooms", res.Rooms, "classes", res.Classes)
	return res, nil
}

func (r SeedRoom) toRoom() *types.Room {
	room := &types.Room{
		RoomName:         strings.TrimSpace(r.Name),
		Capacity:         r.Capacity,
		LocationLat:      r.Lat,
		LocationLong:     r.Long,
		UNSWRoomNumber:   r.Number,
		UNSWBuildingName: r.Building,
		UNSWMapPosition:  strings.TrimSpace(r.MapPosition),
		Whitelisted:      r.Whitelisted,
	}
	if link := strings.TrimSpace(r.RoomLink); link != "" {
		room.StudentVIPRoomLink = &link
	}
	if link := strings.TrimSpace(r.BuildingLink); link != "" {
		room.StudentVIPBuildingLink = &link
	}
	return room
}
