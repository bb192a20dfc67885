package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthside/hearth/internal/backup"
	"github.com/hearthside/hearth/internal/calendar"
	"github.com/hearthside/hearth/internal/handler"
	"github.com/hearthside/hearth/internal/icon"
	"github.com/hearthside/hearth/internal/localstore"
	"github.com/hearthside/hearth/internal/middleware"
	"github.com/hearthside/hearth/internal/photos"
	"github.com/hearthside/hearth/internal/profile"
	"github.com/hearthside/hearth/internal/push"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/weather"
	ws "github.com/hearthside/hearth/internal/websocket"
)

// Deps are the wired services the server routes to.
type Deps struct {
	Store    *state.Store
	Weather  *weather.Service
	Calendar *calendar.Service
	Photos   *photos.Service
	Icons    *icon.Client
	Profiles *profile.Service
	Backup   *backup.Manager
	Push     *push.Service
	Notifier *push.Notifier
	Subs     *localstore.SubscriptionStore
	KV       *localstore.KV
}

type Server struct {
	hub         *ws.Hub
	userH       *handler.UserHandler
	sessionH    *handler.SessionHandler
	choreH      *handler.ChoreHandler
	rewardH     *handler.RewardHandler
	mealH       *handler.MealHandler
	eventH      *handler.EventHandler
	photoH      *handler.PhotoHandler
	settingsH   *handler.SettingsHandler
	backupH     *handler.BackupHandler
	pushH       *handler.PushHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(d Deps, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	var pushH *handler.PushHandler
	if d.Push != nil {
		pushH = handler.NewPushHandler(d.Subs, d.Push, logger.With("component", "push_handler"))
	}

	return &Server{
		hub:         hub,
		userH:       handler.NewUserHandler(d.Store, hub, logger.With("component", "user")),
		sessionH:    handler.NewSessionHandler(d.Store, d.Profiles, hub, logger.With("component", "session")),
		choreH:      handler.NewChoreHandler(d.Store, d.Icons, hub, logger.With("component", "chore")),
		rewardH:     handler.NewRewardHandler(d.Store, d.Notifier, hub, logger.With("component", "reward")),
		mealH:       handler.NewMealHandler(d.Store, hub, logger.With("component", "meal")),
		eventH:      handler.NewEventHandler(d.Store, d.Calendar, hub, logger.With("component", "event")),
		photoH:      handler.NewPhotoHandler(d.Store, d.Photos, hub, logger.With("component", "photo")),
		settingsH:   handler.NewSettingsHandler(d.Store, d.KV, d.Weather, hub, logger.With("component", "settings")),
		backupH:     handler.NewBackupHandler(d.Store, d.Backup, hub, logger.With("component", "backup")),
		pushH:       pushH,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Hub returns the websocket hub for broadcasts from background jobs.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Roster and session
	mux.HandleFunc("GET /api/users", s.userH.List)
	mux.HandleFunc("POST /api/users", s.userH.Create)
	mux.HandleFunc("PUT /api/users/{id}", s.userH.Update)
	mux.HandleFunc("DELETE /api/users/{id}", s.userH.Delete)
	mux.HandleFunc("POST /api/users/{id}/pin", s.userH.SetPIN)
	mux.HandleFunc("DELETE /api/users/{id}/pin", s.userH.ClearPIN)
	mux.HandleFunc("POST /api/users/{id}/pin/verify", s.rateLimitedHandler(s.userH.VerifyPIN))

	mux.HandleFunc("GET /api/session", s.sessionH.Current)
	mux.HandleFunc("POST /api/session/select/{id}", s.sessionH.Select)
	mux.HandleFunc("DELETE /api/session", s.sessionH.Clear)

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("POST /api/chores/{id}/toggle", s.choreH.Toggle)

	// Rewards
	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.HandleFunc("POST /api/rewards", s.rewardH.Create)
	mux.HandleFunc("POST /api/rewards/request", s.rewardH.Request)
	mux.HandleFunc("POST /api/rewards/{id}/approve", s.rewardH.Approve)
	mux.HandleFunc("PUT /api/rewards/{id}", s.rewardH.Update)
	mux.HandleFunc("DELETE /api/rewards/{id}", s.rewardH.Delete)

	// Meal planner
	mux.HandleFunc("GET /api/meals", s.mealH.List)
	mux.HandleFunc("PUT /api/meals", s.mealH.Upsert)
	mux.HandleFunc("DELETE /api/meals/{id}", s.mealH.Delete)

	// Calendar
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)
	mux.HandleFunc("POST /api/events/sync", s.rateLimitedHandler(s.eventH.Sync))

	// Photos
	mux.HandleFunc("GET /api/photos", s.photoH.List)
	mux.HandleFunc("POST /api/photos", s.photoH.Add)
	mux.HandleFunc("DELETE /api/photos/{id}", s.photoH.Delete)
	mux.HandleFunc("POST /api/photos/sync", s.rateLimitedHandler(s.photoH.Sync))

	// Settings
	mux.HandleFunc("GET /api/settings/household", s.settingsH.Household)
	mux.HandleFunc("PUT /api/settings/household", s.settingsH.RenameHousehold)
	mux.HandleFunc("GET /api/settings/display", s.settingsH.GetDisplay)
	mux.HandleFunc("PUT /api/settings/display", s.settingsH.UpdateDisplay)
	mux.HandleFunc("GET /api/weather", s.settingsH.Weather)

	// Backups
	mux.HandleFunc("POST /api/backups", s.backupH.Now)
	mux.HandleFunc("GET /api/backups", s.backupH.History)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backupH.Restore)

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
