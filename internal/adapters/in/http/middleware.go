package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

const (
	actorKey        = "actor"
	accessTokenName = "accessToken"
)

// authenticate resolves the actor from a bearer token or the access token
// cookie. The role is read from the stored user so role changes apply to
// tokens already issued; inactive and blocked users are rejected.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request())
		if token == "" {
			if cookie, err := c.Cookie(accessTokenName); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			return errs.NewUnauthorizedError("missing access token")
		}

		claimed, err := s.tokens.Parse(token)
		if err != nil {
			return err
		}

		u, err := s.users.Get(c.Request().Context(), claimed.ID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errs.NewUnauthorizedError("user no longer exists")
		}
		if err != nil {
			return err
		}
		if !u.IsActive() {
			return errs.NewUnauthorizedError("account is " + u.Activity().String())
		}

		c.Set(actorKey, u.Actor())
		return next(c)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errs.NewUnauthorizedError("no authenticated actor")
	}
	return actor, nil
}

// rateLimit throttles by client IP. Limiter failures let the request through.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.limiter == nil {
			return next(c)
		}
		decision, err := s.limiter.Allow(c.Request().Context(), "track:"+c.RealIP())
		if err != nil {
			s.logger.WarnContext(c.Request().Context(), "rate limiter unavailable", "error", err)
			return next(c)
		}
		if !decision.Allowed {
			seconds := int(decision.RetryAfter.Round(time.Second) / time.Second)
			c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(max(seconds, 1)))
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many tracking requests, try again later")
		}
		c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		return next(c)
	}
}

// requestMetrics writes errors through the error handler before observing, so
// the recorded status code is the one sent.
func (s *Server) requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.observer == nil {
			return next(c)
		}
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.observer.ObserveHTTPRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
		return nil
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogRoutePath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.String("route", v.RoutePath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil && v.Status >= http.StatusInternalServerError {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

func recoverer() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{DisableStackAll: true})
}
