package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Api struct {
	handler    http.Handler
	logger     *zap.SugaredLogger
	randSource io.Reader

	jwts         jwtManager
	deviceTokens deviceTokenRepository

	db       database.PGX
	families familiesRepository

	eventsService eventsService
	tasksService  tasksService
	gamification  gamificationService
	walletService walletService
	cycleService  cycleService
}

type jwtManager interface {
	CreateToken(id int64) (string, error)
	GetIDFromToken(token string) (int64, error)
}

type deviceTokenRepository interface {
	Add(ctx context.Context, token string, memberID int64) error
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

type familiesRepository interface {
	CreateFamily(ctx context.Context, q database.Queryable, family *model.FamilyCreate) (int64, error)
	GetFamily(ctx context.Context, q database.Queryable, id int64) (*model.Family, error)
	GetFamilyByJoinCode(ctx context.Context, q database.Queryable, code string) (*model.Family, error)
	CreateMember(ctx context.Context, q database.Queryable, member *model.MemberCreate) (int64, error)
	GetMemberByID(ctx context.Context, q database.Queryable, id int64) (*model.Member, error)
	GetFamilyMembers(ctx context.Context, q database.Queryable, familyID int64) ([]*model.Member, error)
	CreateDevice(ctx context.Context, q database.Queryable, device *model.Device) error
	GetDevice(ctx context.Context, q database.Queryable, token string) (*model.Device, error)
	DeleteDevice(ctx context.Context, q database.Queryable, token string) error
}

type eventsService interface {
	CreateEvent(ctx context.Context, info *model.EventCreate) (*model.Event, error)
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	GetEvents(ctx context.Context, familyID int64, from, to time.Time) ([]*model.EventInstance, error)
	GetEventInstance(ctx context.Context, id int64, date time.Time) (*model.EventInstance, error)
	UpdateEvent(ctx context.Context, id int64, info *model.EventCreate) error
	DeleteEvent(ctx context.Context, id int64) error
	CancelInstance(ctx context.Context, id int64, date time.Time) error
	RestoreInstance(ctx context.Context, id int64, date time.Time) error
	DetachInstance(ctx context.Context, id int64, date time.Time, info *model.EventCreate) error
}

type tasksService interface {
	TasksForMember(ctx context.Context, familyID, memberID int64, date time.Time) ([]*model.TaskStatus, error)
	ToggleCompletion(ctx context.Context, eventID, memberID int64, date time.Time) (bool, error)
}

type gamificationService interface {
	PetForMember(ctx context.Context, memberID int64) (*model.Pet, error)
	MonthSummaries(ctx context.Context, familyID int64, month string) ([]*model.XPSummary, error)
	AwardBonus(ctx context.Context, memberID int64, points int) error
	Rollover(ctx context.Context, familyID int64, month string) error
}

type walletService interface {
	GetWallet(ctx context.Context, memberID int64) (*model.Wallet, error)
	Deposit(ctx context.Context, parentID, memberID, amountCents int64, kind model.TransactionKind, note string) (int64, error)
	RequestWithdrawal(ctx context.Context, memberID, amountCents int64, note string) (int64, error)
	Decide(ctx context.Context, txID, parentID int64, approve bool) error
	SetGoal(ctx context.Context, goal *model.SavingsGoal) error
}

type cycleService interface {
	AddRecord(ctx context.Context, record *model.CycleRecord) (int64, error)
	CloseRecord(ctx context.Context, id, memberID int64, end time.Time) error
	Records(ctx context.Context, memberID int64) ([]*model.CycleRecord, error)
	DeleteRecord(ctx context.Context, id, memberID int64) error
	Predict(ctx context.Context, memberID int64) (*model.CyclePrediction, error)
}

func NewApi(
	logger *zap.SugaredLogger,
	randSource io.Reader,
	jwts jwtManager,
	deviceTokens deviceTokenRepository,
	db database.PGX,
	families familiesRepository,
	eventsService eventsService,
	tasksService tasksService,
	gamification gamificationService,
	walletService walletService,
	cycleService cycleService,
) (*Api, error) {
	a := &Api{
		logger:        logger,
		randSource:    randSource,
		jwts:          jwts,
		deviceTokens:  deviceTokens,
		db:            db,
		families:      families,
		eventsService: eventsService,
		tasksService:  tasksService,
		gamification:  gamification,
		walletService: walletService,
		cycleService:  cycleService,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/families", a.createFamilyHandler)
	r.Post("/auth/device", a.registerDeviceHandler)

	r.With(a.deviceAuth, a.memberCtx).Route("/", func(r chi.Router) {
		r.Post("/auth/parent", a.parentSignInHandler)
		r.Post("/auth/logout", a.logoutHandler)

		r.Get("/family", a.getFamilyHandler)
		r.With(a.parentAuth).Post("/family/members", a.createMemberHandler)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", a.getEventsHandler)
			r.Post("/", a.createEventHandler)
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", a.getEventInstanceHandler)
				r.Put("/", a.updateEventHandler)
				r.Delete("/", a.deleteEventHandler)
				r.Delete("/instances/{date}", a.cancelInstanceHandler)
				r.Post("/instances/{date}/restore", a.restoreInstanceHandler)
				r.Put("/instances/{date}", a.detachInstanceHandler)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", a.getTasksHandler)
			r.Post("/{eventID}/toggle", a.toggleTaskHandler)
		})

		r.Get("/members/{memberID}/pet", a.getPetHandler)
		r.Get("/xp", a.getXPSummariesHandler)
		r.With(a.parentAuth).Post("/xp/bonus", a.awardBonusHandler)
		r.With(a.parentAuth).Post("/rollover", a.rolloverHandler)

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", a.getWalletHandler)
			r.Put("/goal", a.setGoalHandler)
			r.Post("/withdrawals", a.requestWithdrawalHandler)
			r.With(a.parentAuth).Post("/deposits", a.depositHandler)
			r.With(a.parentAuth).Post("/withdrawals/{txID}/decision", a.decideWithdrawalHandler)
		})

		r.Route("/cycle", func(r chi.Router) {
			r.Get("/", a.getCycleRecordsHandler)
			r.Post("/", a.addCycleRecordHandler)
			r.Post("/{recordID}/close", a.closeCycleRecordHandler)
			r.Delete("/{recordID}", a.deleteCycleRecordHandler)
			r.Get("/prediction", a.getCyclePredictionHandler)
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
