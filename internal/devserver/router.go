package devserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/dmitrijs2005/leadsession/internal/logging"
	"github.com/dmitrijs2005/leadsession/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// NewRouter wires every endpoint of the development backend. Trailing
// slashes are ignored.
func NewRouter(svc *UserService, groupSvc *GroupService, logger logging.Logger, reg *prometheus.Registry) http.Handler {
	h := &handlers{svc: svc, groups: groupSvc, logger: logger}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadsession_dev",
		Name:      "http_requests_total",
		Help:      "Requests served by route pattern and status.",
	}, []string{"route", "status"})
	reg.MustRegister(requests)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.StripSlashes,
		requestLogger(logger, requests),
	)

	r.Post(common.PathLogin, h.login)
	r.Post(common.PathRegister, h.register)
	r.Post(common.PathAccessToken, h.accessToken)
	r.Post(common.PathForgotPassword, h.forgotPassword)
	r.Post(common.PathResetPassword, h.resetPassword)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))

	r.Group(func(r chi.Router) {
		r.Use(h.bearer)
		r.Post(common.PathLogout, h.logout)
		r.Get("/get-lead", h.leads)
		r.Get(common.PathGroupsByUser+"{id}", h.groupsByUser)
		r.Post(common.PathCreateGroup, h.createGroup)
		r.Get(common.PathGroupConversations, h.groupConversations)
		r.Get(common.PathUserGroupIDs+"{id}", h.userGroupIDs)
		r.Put(common.PathProfileUpdate, h.updateProfile)
		r.Post("/upload", h.upload)
	})

	return r
}

// bearer rejects requests without a valid access token and puts the user id
// into the request context.
func (h *handlers) bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		userID, err := h.svc.Authenticate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func requestLogger(logger logging.Logger, requests *prometheus.CounterVec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
			logger.Debug(r.Context(), "request",
				"method", r.Method,
				"route", route,
				"status", status,
				"duration", time.Since(start),
			)
		})
	}
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
