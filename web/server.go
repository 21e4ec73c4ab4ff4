package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"vpsboard/application"
	"vpsboard/config"
	"vpsboard/domain/entities"
	"vpsboard/domain/interfaces"
	"vpsboard/domain/services"
	"vpsboard/infrastructure/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const defaultListLimit = 50

// Server is the HTTP surface of the dashboard
type Server struct {
	cfg        *config.Config
	uowFactory application.UnitOfWorkFactory
	sessions   *application.SessionManager
	verifier   *TokenVerifier
	httpServer *http.Server
}

// NewServer creates the HTTP server with all routes registered
func NewServer(cfg *config.Config, uowFactory application.UnitOfWorkFactory, sessions *application.SessionManager) *Server {
	s := &Server{
		cfg:        cfg,
		uowFactory: uowFactory,
		sessions:   sessions,
		verifier:   NewTokenVerifier(cfg.JWTSecret),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Router builds the chi router with all API routes
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticator(s.verifier))

		r.Post("/sessions", s.handleSignIn)
		r.Delete("/sessions", s.handleSignOut)

		r.Get("/account", s.handleGetAccount)
		r.Get("/activity", s.handleGetActivity)

		r.Post("/tasks/{source}", s.handleCompleteTask)
		r.Post("/daily-bonus", s.handleClaimDailyBonus)

		r.Get("/vps-configs", s.handleGetVPSConfigs)
		r.Post("/vps-requests", s.handleCreateVPSRequest)
		r.Get("/vps-requests", s.handleGetVPSRequests)
	})

	return r
}

// Start begins serving HTTP requests, blocking until the server stops
func (s *Server) Start() error {
	log.WithField("addr", s.cfg.ListenAddr).Info("HTTP server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	account, err := s.sessions.SignIn(r.Context(), *identity)
	if err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account, time.Now()))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	s.sessions.SignOut(identity.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	ctx := r.Context()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, identity.ID)
	if err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}
	if account == nil {
		writeError(w, r, mapDomainError(entities.ErrAccountNotFound))
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account, time.Now()))
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	ctx := r.Context()
	limit := parseLimit(r)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}
	defer uow.Rollback()

	activities, err := uow.PointsActivityRepository().GetByAccount(ctx, identity.ID, limit)
	if err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	responses := make([]activityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, newActivityResponse(activity))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	ctx := r.Context()

	source := entities.ActivitySource(chi.URLParam(r, "source"))
	if !source.IsTask() {
		writeError(w, r, newAPIError(http.StatusBadRequest, "Unknown task.", nil))
		return
	}

	s.sessions.CheckRate(ctx, identity.ID, source.String())

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}
	defer uow.Rollback()

	reward := s.newRewardService(uow)
	activity, err := reward.CompleteTask(ctx, identity.ID, source)
	if err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	if err := uow.Commit(); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	writeJSON(w, http.StatusOK, taskResponse{
		Activity: newActivityResponse(activity),
		Points:   activity.BalanceAfter,
	})
}

func (s *Server) handleClaimDailyBonus(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	ctx := r.Context()

	s.sessions.CheckRate(ctx, identity.ID, "daily_bonus")

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}
	defer uow.Rollback()

	reward := s.newRewardService(uow)
	activity, streak, err := reward.ClaimDailyBonus(ctx, identity.ID)
	if err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	if err := uow.Commit(); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	writeJSON(w, http.StatusOK, dailyBonusResponse{
		Activity: newActivityResponse(activity),
		Points:   activity.BalanceAfter,
		Streak:   streak,
	})
}

func (s *Server) handleGetVPSConfigs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, entities.Catalog())
}

type createVPSRequestBody struct {
	ConfigKey string `json:"config_key"`
	OSVersion string `json:"os_version"`
	Hours     int    `json:"hours"`
}

func (s *Server) handleCreateVPSRequest(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	ctx := r.Context()

	var body createVPSRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, newAPIError(http.StatusBadRequest, "Invalid request body.", err))
		return
	}
	if body.Hours <= 0 {
		writeError(w, r, newAPIError(http.StatusBadRequest, "Duration must be at least one hour.", nil))
		return
	}

	s.sessions.CheckRate(ctx, identity.ID, "vps_request")

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}
	defer uow.Rollback()

	ledger := s.newLedgerService(uow)
	provisioning := services.NewProvisioningService(
		uow.AccountRepository(),
		uow.VPSRequestRepository(),
		ledger,
		services.NewEntitlementService(),
		uow.EventBus(),
	)

	request, err := provisioning.CreateRequest(ctx, identity.ID, body.ConfigKey, body.OSVersion, body.Hours)
	if err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	if err := uow.Commit(); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	writeJSON(w, http.StatusCreated, newVPSRequestResponse(request))
}

func (s *Server) handleGetVPSRequests(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	ctx := r.Context()
	limit := parseLimit(r)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}
	defer uow.Rollback()

	requests, err := uow.VPSRequestRepository().GetByAccount(ctx, identity.ID, limit)
	if err != nil {
		writeError(w, r, mapDomainError(err))
		return
	}

	responses := make([]vpsRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, newVPSRequestResponse(request))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (s *Server) newLedgerService(uow application.UnitOfWork) interfaces.LedgerService {
	return services.NewLedgerService(uow.AccountRepository(), uow.PointsActivityRepository(), uow.EventBus())
}

func (s *Server) newRewardService(uow application.UnitOfWork) interfaces.RewardService {
	return services.NewRewardService(uow.AccountRepository(), uow.PointsActivityRepository(), s.newLedgerService(uow))
}

// requestMetrics records one counter increment per handled request, labeled
// with the matched route pattern rather than the raw path
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		observability.GetMetrics().RecordHTTPRequest(route, ww.Status())
	})
}

func parseLimit(r *http.Request) int {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	return limit
}
