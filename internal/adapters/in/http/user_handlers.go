package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
)

// RegisterUser handles POST /api/v1/user/register.
func (s *Server) RegisterUser(c echo.Context) error {
	var req registerUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	role := kernel.UnknownRole
	if req.Role != "" {
		parsed, err := kernel.ParseRole(req.Role)
		if err != nil {
			return err
		}
		role = parsed
	}

	cmd, err := commands.NewRegisterUserCommand(req.Name, req.Email, req.Password, role, req.Phone, req.Address)
	if err != nil {
		return err
	}
	if err := s.h.RegisterUser.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return s.respondWithUser(c, http.StatusCreated, "User registered successfully", cmd.UserID())
}

type loginResponse struct {
	AccessToken string           `json:"accessToken"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	User        queries.UserView `json:"user"`
}

// Login handles POST /api/v1/auth/login. The token is returned in the body
// and as an http-only cookie.
func (s *Server) Login(c echo.Context) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewLoginCommand(req.Email, req.Password)
	if err != nil {
		return err
	}
	result, err := s.h.Login.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	u, err := s.users.Get(c.Request().Context(), result.Actor.ID())
	if err != nil {
		return err
	}

	c.SetCookie(s.accessTokenCookie(result.Token.Value))
	return respond(c, http.StatusOK, "User logged in successfully", loginResponse{
		AccessToken: result.Token.Value,
		ExpiresAt:   result.Token.ExpiresAt.UTC(),
		User:        queries.NewUserView(u),
	})
}

// Logout handles POST /api/v1/auth/logout by expiring the cookie.
func (s *Server) Logout(c echo.Context) error {
	cookie := s.accessTokenCookie("")
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return respond(c, http.StatusOK, "User logged out successfully", nil)
}

func (s *Server) accessTokenCookie(value string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     accessTokenName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.secure {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

// GetProfile handles GET /api/v1/user/me.
func (s *Server) GetProfile(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetProfileQuery(actor)
	if err != nil {
		return err
	}
	view, err := s.h.GetProfile.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User profile retrieved successfully", view)
}

// ListUsers handles GET /api/v1/user/all-users.
func (s *Server) ListUsers(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListUsersQuery(actor, page)
	if err != nil {
		return err
	}
	result, err := s.h.ListUsers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respondPage(c, "All users retrieved successfully", result.Items, result.Meta)
}

// AssignUserRole handles PATCH /api/v1/user/{id}/assign-role.
func (s *Server) AssignUserRole(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var req assignRoleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	role, err := kernel.ParseRole(req.Role)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignUserRoleCommand(actor, id, role)
	if err != nil {
		return err
	}
	if err := s.h.AssignUserRole.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithUser(c, http.StatusOK, "User role updated successfully", id)
}

// UpdateUserStatus handles PATCH /api/v1/user/{id}/status.
func (s *Server) UpdateUserStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := bindID(c, "id")
	if err != nil {
		return err
	}
	var req updateUserStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	activity, err := user.ParseActivityStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateUserStatusCommand(actor, id, activity)
	if err != nil {
		return err
	}
	if err := s.h.UpdateUserStatus.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithUser(c, http.StatusOK, "User status updated successfully", id)
}

func (s *Server) respondWithUser(c echo.Context, code int, message string, id kernel.UUID) error {
	u, err := s.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, code, message, queries.NewUserView(u))
}
