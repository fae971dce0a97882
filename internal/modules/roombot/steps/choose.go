package steps

import (
	"context"
	"fmt"

	dataagg "github.com/yungbote/roomfinder-backend/internal/data/aggregates"
	types "github.com/yungbote/roomfinder-backend/internal/domain"
	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

// ChooseRoom1 opens a guided search and asks when the room is needed.
func ChooseRoom1(ctx context.Context, deps Deps, req Request) error {
	upd := conversation.Set(map[string]any{
		conversation.KeyPageOffset: 0,
		conversation.KeyLocation:   nil,
		conversation.KeyTimeOffset: nil,
		conversation.KeySentDate:   clock.FormatISO(deps.now()),
		conversation.KeyFollowUp:   string(actions.FollowUpRoomChoose2),
	})
	if _, err := deps.States.Append(ctx, req.UserID, upd); err != nil {
		return fmt.Errorf("start search: %w", err)
	}
	msg := messenger.NewQuickReplies(textWhen).
		AddText(textWhenNow, actions.ChooseTime(clock.TimeOffset{Type: clock.OffsetNow}).String()).
		AddText(textWhenHour, actions.ChooseTime(clock.TimeOffset{Type: clock.OffsetHoursLater, Amount: 1}).String()).
		AddText(textWhenHalfHour, actions.ChooseTime(clock.TimeOffset{Type: clock.OffsetMinutesLater, Amount: 30}).String()).
		Build()
	return deps.Messenger.Send(ctx, req.Recipient, msg)
}

// ChooseRoom2 records the start time and offers to take a location.
func ChooseRoom2(ctx context.Context, deps Deps, req Request, a actions.ChooseRoom2) error {
	upd := conversation.Set(map[string]any{
		conversation.KeyTimeOffset: a.Time,
		conversation.KeyFollowUp:   string(actions.FollowUpRoomChoose3),
	})
	if _, err := deps.States.Append(ctx, req.UserID, upd); err != nil {
		return fmt.Errorf("set time offset: %w", err)
	}
	msg := messenger.NewQuickReplies(textAskLocation).
		AddLocation().
		AddText(textNoThanks, actions.Tag(actions.TagChooseRoom3None).String()).
		Build()
	return deps.Messenger.Send(ctx, req.Recipient, msg)
}

// ChooseRoom3 records the location, if any, and shows the first page.
func ChooseRoom3(ctx context.Context, deps Deps, req Request, a actions.ChooseRoom3) error {
	var loc any
	if a.Location != nil {
		loc = *a.Location
	}
	state, err := deps.States.Append(ctx, req.UserID, conversation.Set(map[string]any{
		conversation.KeyLocation: loc,
		conversation.KeyFollowUp: string(actions.FollowUpRoomChoose4),
	}))
	if err != nil {
		return fmt.Errorf("set location: %w", err)
	}
	return showResults(ctx, deps, req, state)
}

// ChooseRoom4 moves the page by OffsetChange and shows it.
func ChooseRoom4(ctx context.Context, deps Deps, req Request, a actions.ChooseRoom4) error {
	var state *types.ConversationState
	err := deps.States.Transition(ctx, req.UserID, "roombot.page", func(tx *dataagg.StateTx) error {
		data, err := tx.Latest.Decode()
		if err != nil {
			return err
		}
		offset := data.PageOffset + a.OffsetChange
		if offset < 0 {
			offset = 0
		}
		state, err = tx.Append(conversation.Set(map[string]any{
			conversation.KeyPageOffset: offset,
			conversation.KeyFollowUp:   string(actions.FollowUpRoomChoose4),
		}))
		return err
	})
	if err != nil {
		return fmt.Errorf("move page: %w", err)
	}
	return showResults(ctx, deps, req, state)
}

// ChooseRoom5 stages the picked room. Picks from a carousel of an earlier
// search are dropped.
func ChooseRoom5(ctx context.Context, deps Deps, req Request, a actions.ChooseRoom5) error {
	state, err := deps.States.GetLatest(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	data, err := state.Decode()
	if err != nil {
		return err
	}
	started, err := clock.ParseISO(data.SentDate)
	if err != nil || !clock.Equal(started, a.SentDate) {
		deps.Log.Info("Dropping pick from an earlier search", "user_id", req.UserID, "picked_search", clock.FormatISO(a.SentDate), "current_search", data.SentDate)
		return nil
	}

	constraints, err := StateToConstraints(data)
	if err != nil {
		return err
	}
	constraints.Pagination = rooms.Pagination{Offset: a.Index, Limit: 1}
	results, err := deps.Search.Query(ctx, constraints)
	if err != nil {
		return fmt.Errorf("search rooms: %w", err)
	}
	if len(results) == 0 {
		return deps.Messenger.SendText(ctx, req.Recipient, textNoRooms)
	}
	return prepareForConfirmation(ctx, deps, req, results[0])
}

// StateToConstraints derives the search a guided flow's state describes.
func StateToConstraints(data conversation.Data) (rooms.SearchConstraints, error) {
	sent, err := clock.ParseISO(data.SentDate)
	if err != nil {
		return rooms.SearchConstraints{}, domainagg.NewError(domainagg.CodeIllegalState, "steps.constraints", "no search in progress", err)
	}
	from, err := clock.OffsetDate(data.TimeOffset, sent)
	if err != nil {
		return rooms.SearchConstraints{}, domainagg.NewError(domainagg.CodeIllegalState, "steps.constraints", "invalid time offset", err)
	}
	c := rooms.SearchConstraints{
		Variant:    rooms.SearchNoGeo,
		From:       from,
		Pagination: rooms.Pagination{Offset: data.PageOffset, Limit: rooms.PageSize},
	}
	if data.Location != nil {
		loc := *data.Location
		c.Variant = rooms.SearchWithGeo
		c.Location = &loc
	}
	return c, nil
}

func showResults(ctx context.Context, deps Deps, req Request, state *types.ConversationState) error {
	data, err := state.Decode()
	if err != nil {
		return err
	}
	constraints, err := StateToConstraints(data)
	if err != nil {
		return err
	}
	results, err := deps.Search.Query(ctx, constraints)
	if err != nil {
		return fmt.Errorf("search rooms: %w", err)
	}
	switch {
	case len(results) > 0:
		msg := roomCarousel(results, constraints.Pagination, data.SentDate)
		return deps.Messenger.Send(ctx, req.Recipient, msg)
	case constraints.Pagination.Offset > 0:
		return deps.Messenger.SendText(ctx, req.Recipient, textNoMoreRooms)
	default:
		return deps.Messenger.SendText(ctx, req.Recipient, textNoRooms)
	}
}

func roomCarousel(results []types.Availability, page rooms.Pagination, sentDate string) messenger.Message {
	c := messenger.NewCarousel().AddQuickReplies(func(q *messenger.QuickReplies) {
		q.AddText(textNevermind, actions.Tag(actions.TagInit).String())
		q.AddText(textShowMore, actions.ShowMore(1).String())
	})
	for i, r := range results {
		card := c.AddLocationCard(
			fmt.Sprintf("%s, %s", r.UNSWRoomNumber, r.UNSWBuildingName),
			r.UNSWMapPosition,
			messenger.Coordinates{Lat: r.LocationLat, Long: r.LocationLong},
		)
		card.AddPostback(textWantRoom, actions.PickRoom(page.AbsoluteIndex(i), sentDate).String())
		if r.StudentVIPRoomLink != nil && *r.StudentVIPRoomLink != "" {
			card.AddLink(textRoomInfo, *r.StudentVIPRoomLink)
		}
		if r.StudentVIPBuildingLink != nil && *r.StudentVIPBuildingLink != "" {
			card.AddLink(textBuildInfo, *r.StudentVIPBuildingLink)
		}
	}
	return c.Build()
}
