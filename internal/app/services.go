package app

import (
	"fmt"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/roomfinder-backend/internal/data/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/steps"
	"github.com/yungbote/roomfinder-backend/internal/observability"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
	"github.com/yungbote/roomfinder-backend/internal/platform/userlock"
)

type Services struct {
	Messenger     *messenger.Client
	Conversations *dataagg.ConversationStore
	Bookings      *dataagg.BookingAggregate
	Processor     *roombot.Processor
	Profile       *roombot.ProfileSpec
}

type serviceDeps struct {
	DB      *gorm.DB
	Log     *logger.Logger
	Cfg     Config
	Repos   Repos
	Locker  userlock.Locker
	Metrics *observability.Metrics
}

func wireServices(d serviceDeps) (Services, error) {
	d.Log.Info("Wiring services...")

	campus, err := d.Cfg.Campus()
	if err != nil {
		return Services{}, err
	}
	profile, err := roombot.DefaultProfile()
	if err != nil {
		return Services{}, fmt.Errorf("load messenger profile: %w", err)
	}

	var observer messenger.SendObserver
	var storeMetrics dataagg.StoreMetrics
	var eventMetrics roombot.EventMetrics
	var bookingMetrics steps.BookingMetrics
	if d.Metrics != nil {
		observer, storeMetrics, eventMetrics, bookingMetrics = d.Metrics, d.Metrics, d.Metrics, d.Metrics
	}

	client, err := messenger.NewClient(d.Log, d.Cfg.Messenger(), observer)
	if err != nil {
		return Services{}, err
	}

	base := dataagg.BaseDeps{
		DB:     d.DB,
		Log:    d.Log,
		Locker: d.Locker,
		Hooks:  dataagg.NewMetricsHooks(storeMetrics),
		Clock:  clock.System(),
	}
	store := dataagg.NewConversationStore(dataagg.ConversationStoreDeps{
		Base:   base,
		States: d.Repos.ConversationState,
	})
	bookings := dataagg.NewBookingAggregate(dataagg.BookingAggregateDeps{
		Base:     base,
		Store:    store,
		Bookings: d.Repos.UserBooking,
		Feedback: d.Repos.Feedback,
		Campus:   campus,
	})

	uc := roombot.New(roombot.UsecasesDeps{
		Log:       d.Log,
		Messenger: client,
		States:    store,
		Bookings:  bookings,
		Search:    d.Repos.RoomSearch,
		Clock:     base.Clock,
		Metrics:   bookingMetrics,
		HelpCards: profile.HelpCards(),
	})
	dispatcher := roombot.NewDispatcher(d.Log, uc.Routes())
	d.Log.Info("Routes registered", "actions", len(dispatcher.Kinds()))
	processor := roombot.NewProcessor(roombot.ProcessorDeps{
		Log:        d.Log,
		Users:      d.Repos.BotUser,
		States:     store,
		Classifier: actions.NewClassifier(d.Log, actions.NewEntityClassifier()),
		Dispatcher: dispatcher,
		Metrics:    eventMetrics,
	})

	return Services{
		Messenger:     client,
		Conversations: store,
		Bookings:      bookings,
		Processor:     processor,
		Profile:       profile,
	}, nil
}
