package steps

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

// RoomRandom offers the first free room without asking anything.
func RoomRandom(ctx context.Context, deps Deps, req Request) error {
	results, err := deps.Search.Query(ctx, rooms.SearchConstraints{
		Variant:    rooms.SearchNoGeo,
		From:       deps.now(),
		Pagination: rooms.Pagination{Offset: 0, Limit: 1},
	})
	if err != nil {
		return fmt.Errorf("search rooms: %w", err)
	}
	if len(results) == 0 {
		return deps.Messenger.SendText(ctx, req.Recipient, textNoRooms)
	}
	return prepareForConfirmation(ctx, deps, req, results[0])
}

// prepareForConfirmation pins info as the pending offer and asks the user
// to confirm it. The confirm button carries the staging instant so only
// this offer can be confirmed with it.
func prepareForConfirmation(ctx context.Context, deps Deps, req Request, info types.Availability) error {
	stagedAt := deps.now()
	if _, err := deps.States.Append(ctx, req.UserID, conversation.Stage(info, clock.FormatISO(stagedAt))); err != nil {
		return fmt.Errorf("stage offer: %w", err)
	}

	b := messenger.NewButtons(textHowAbout + "\n\n" + describeSlot(info)).
		AddPostback(textConfirmRoom, actions.ConfirmBooking(stagedAt).String()).
		AddPostback(textDifferentRoom, actions.Tag(actions.TagRoomRandom).String())
	if link := info.MoreInfoLink(); link != "" {
		b.AddLink(textMoreInfo, link)
	}
	return deps.Messenger.Send(ctx, req.Recipient, b.Build())
}

// BookingConfirmation books the staged offer and shows the user the way.
func BookingConfirmation(ctx context.Context, deps Deps, req Request, a actions.BookingConfirmation) error {
	conf, err := deps.Bookings.Confirm(ctx, req.UserID, a.SentDate)
	if err != nil {
		reply := textCantNow
		switch domainagg.CodeOf(err) {
		case domainagg.CodeIllegalState:
			reply = textIllegalState
		case domainagg.CodeStaleConfirmation:
			reply = textStale
		}
		if sendErr := deps.Messenger.SendText(ctx, req.Recipient, reply); sendErr != nil {
			deps.Log.Warn("Confirmation failure reply failed", "user_id", req.UserID, "error", sendErr)
		}
		return err
	}
	if deps.Metrics != nil {
		deps.Metrics.IncBookingCreated()
	}

	deps.Log.Info("Room booked",
		"user_id", req.UserID,
		"booking_id", conf.Booking.ID,
		"room_id", conf.Booking.RoomID,
		"start", conf.Booking.StartTime,
		"end", conf.Booking.EndTime,
	)
	if err := deps.Messenger.SendText(ctx, req.Recipient, textBooked); err != nil {
		return err
	}
	title := fmt.Sprintf("%s, %s", conf.Info.UNSWRoomNumber, conf.Info.UNSWBuildingName)
	loc := messenger.Coordinates{Lat: conf.Info.LocationLat, Long: conf.Info.LocationLong}
	return deps.Messenger.Send(ctx, req.Recipient, messenger.LocationMessage(title, loc))
}

// describeSlot renders e.g. "Room 'G03' of 'Quad' @ E15, available for
// "1 hours & 30 minutes" from now".
func describeSlot(a types.Availability) string {
	room := fmt.Sprintf("Room '%s' of '%s' @ %s", a.UNSWRoomNumber, a.UNSWBuildingName, a.UNSWMapPosition)

	var parts []string
	if a.Availablity.Hours != 0 {
		parts = append(parts, fmt.Sprintf("%d hours", a.Availablity.Hours))
	}
	if a.Availablity.Minutes != 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", a.Availablity.Minutes))
	}
	free := fmt.Sprintf("available for %q", strings.Join(parts, " & "))

	if a.TillAvailable != nil && !a.TillAvailable.IsZero() {
		opens, _, _ := strings.Cut(a.RoomOpenAt, ".")
		return fmt.Sprintf("%s, %s from '%s'", room, free, opens)
	}
	return fmt.Sprintf("%s, %s from now", room, free)
}
