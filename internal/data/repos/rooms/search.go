package rooms

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	domainrooms "github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

// SearchConfig describes campus opening hours.
type SearchConfig struct {
	Location  *time.Location
	OpenHour  int
	CloseHour int
	// MinFree is the shortest gap worth offering.
	MinFree time.Duration
}

// RoomSearchRepo finds whitelisted rooms with a free slot starting at or
// after a given instant on the same campus day.
type RoomSearchRepo interface {
	Query(ctx context.Context, c domainrooms.SearchConstraints) ([]types.Availability, error)
}

type roomSearchRepo struct {
	db      *gorm.DB
	log     *logger.Logger
	cfg     SearchConfig
	rooms   RoomRepo
	classes ClassBookingRepo
	users   UserBookingRepo
}

func NewRoomSearchRepo(db *gorm.DB, baseLog *logger.Logger, cfg SearchConfig) RoomSearchRepo {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CloseHour <= cfg.OpenHour {
		cfg.OpenHour, cfg.CloseHour = 0, 24
	}
	if cfg.MinFree <= 0 {
		cfg.MinFree = 15 * time.Minute
	}
	return &roomSearchRepo{
		db:      db,
		log:     baseLog.With("repo", "RoomSearchRepo"),
		cfg:     cfg,
		rooms:   NewRoomRepo(db, baseLog),
		classes: NewClassBookingRepo(db, baseLog),
		users:   NewUserBookingRepo(db, baseLog),
	}
}

func (r *roomSearchRepo) Query(ctx context.Context, c domainrooms.SearchConstraints) ([]types.Availability, error) {
	ctx, span := otel.Tracer("rooms").Start(ctx, "rooms.search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.variant", string(c.Variant)),
		attribute.Int("search.offset", c.Pagination.Offset),
		attribute.Int("search.limit", c.Pagination.Limit),
	)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	from := c.From.In(r.cfg.Location)
	open, closing := r.day(from)
	start := from
	if start.Before(open) {
		start = open
	}
	if !start.Before(closing) {
		return []types.Availability{}, nil
	}

	candidates, err := r.rooms.ListWhitelisted(dbc)
	if err != nil {
		return nil, fmt.Errorf("list whitelisted rooms: %w", err)
	}
	if len(candidates) == 0 {
		return []types.Availability{}, nil
	}
	ids := make([]uuid.UUID, 0, len(candidates))
	for _, room := range candidates {
		ids = append(ids, room.ID)
	}

	classes, err := r.classes.ListOverlapping(dbc, ids, start, closing)
	if err != nil {
		return nil, fmt.Errorf("list class bookings: %w", err)
	}
	claimed, err := r.users.ListOverlapping(dbc, ids, start, closing)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	busy := map[uuid.UUID][]Interval{}
	for _, iv := range append(classes, claimed...) {
		busy[iv.RoomID] = append(busy[iv.RoomID], iv)
	}

	type ranked struct {
		avail types.Availability
		key   float64
		tie   string
	}
	results := make([]ranked, 0, len(candidates))
	for _, room := range candidates {
		slotStart, slotEnd, ok := firstFreeSlot(start, closing, busy[room.ID], r.cfg.MinFree)
		if !ok {
			continue
		}
		avail := domainrooms.FromRoom(*room)
		avail.RoomOpenAt = clock.FormatPGTime(slotStart.In(r.cfg.Location))
		avail.Availablity = clock.IntervalOf(slotEnd.Sub(slotStart))
		if wait := slotStart.Sub(c.From); wait > 0 {
			iv := clock.IntervalOf(wait)
			avail.TillAvailable = &iv
		}

		var key float64
		switch c.Variant {
		case domainrooms.SearchWithGeo:
			key = haversineMeters(c.Location.Lat, c.Location.Long, room.LocationLat, room.LocationLong)
		default:
			key = float64(shuffleKey(room.ID, c.From))
		}
		results = append(results, ranked{avail: avail, key: key, tie: room.ID.String()})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].key != results[j].key {
			return results[i].key < results[j].key
		}
		return results[i].tie < results[j].tie
	})

	skip := c.Pagination.Skip()
	if skip >= len(results) {
		return []types.Availability{}, nil
	}
	results = results[skip:]
	if limit := c.Pagination.Limit; limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	out := make([]types.Availability, 0, len(results))
	for _, res := range results {
		out = append(out, res.avail)
	}
	span.SetAttributes(attribute.Int("search.results", len(out)))
	r.log.Debug("Room search", "variant", c.Variant, "from", clock.FormatISO(c.From), "results", len(out))
	return out, nil
}

// day returns campus opening and closing time on the local day of t.
func (r *roomSearchRepo) day(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	open := time.Date(y, m, d, r.cfg.OpenHour, 0, 0, 0, r.cfg.Location)
	closing := time.Date(y, m, d, 0, 0, 0, 0, r.cfg.Location).Add(time.Duration(r.cfg.CloseHour) * time.Hour)
	return open, closing
}

// firstFreeSlot finds the earliest gap of at least minFree in [start, end)
// not covered by busy.
func firstFreeSlot(start, end time.Time, busy []Interval, minFree time.Duration) (time.Time, time.Time, bool) {
	sorted := append([]Interval(nil), busy...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	cursor := start
	for _, iv := range sorted {
		if !iv.End.After(cursor) {
			continue
		}
		if iv.Start.After(cursor) {
			if iv.Start.Sub(cursor) >= minFree {
				return cursor, iv.Start, true
			}
		}
		cursor = iv.End
		if !cursor.Before(end) {
			return time.Time{}, time.Time{}, false
		}
	}
	if end.Sub(cursor) >= minFree {
		return cursor, end, true
	}
	return time.Time{}, time.Time{}, false
}

// shuffleKey orders rooms pseudo-randomly but reproducibly for one search
// instant, so a re-query with the same start returns the same order.
func shuffleKey(roomID uuid.UUID, from time.Time) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(roomID[:])
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(from.UnixMilli()))
	_, _ = h.Write(buf[:])
	return h.Sum32()
}
