package http

import (
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapitypes "github.com/oapi-codegen/runtime/types"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

type registerUserRequest struct {
	Name     string `json:"name" valid:"required,length(1|100)"`
	Email    string `json:"email" valid:"required,email"`
	Password string `json:"password" valid:"required,length(6|128)"`
	Role     string `json:"role" valid:"optional"`
	Phone    string `json:"phone" valid:"optional,length(0|32)"`
	Address  string `json:"address" valid:"optional,length(0|256)"`
}

type loginRequest struct {
	Email    string `json:"email" valid:"required,email"`
	Password string `json:"password" valid:"required"`
}

type assignRoleRequest struct {
	Role string `json:"role" valid:"required"`
}

type updateUserStatusRequest struct {
	Status string `json:"status" valid:"required"`
}

type recipientRequest struct {
	UserID  *openapitypes.UUID `json:"userId" valid:"-"`
	Name    string             `json:"name" valid:"optional,length(0|100)"`
	Email   string             `json:"email" valid:"optional,email"`
	Phone   string             `json:"phone" valid:"optional,length(0|32)"`
	Address string             `json:"address" valid:"optional,length(0|256)"`
}

type createParcelRequest struct {
	Recipient     recipientRequest `json:"recipient"`
	Weight        float64          `json:"weight" valid:"required"`
	PickupAddress string           `json:"pickupAddress" valid:"optional,length(0|256)"`
	Notes         string           `json:"notes" valid:"optional,length(0|1000)"`
}

type assignDeliveryManRequest struct {
	DeliveryManID openapitypes.UUID `json:"deliveryManId" valid:"-"`
}

type updateStatusRequest struct {
	Status string `json:"status" valid:"required"`
	Note   string `json:"note" valid:"optional,length(0|500)"`
}

type noteRequest struct {
	Note string `json:"note" valid:"optional,length(0|500)"`
}

// bindBody decodes the JSON body into dst and runs its govalidator tags.
// An empty body leaves dst zero-valued.
func bindBody(c echo.Context, dst any) error {
	if c.Request().ContentLength != 0 {
		if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("body", err)
		}
	}
	if _, err := govalidator.ValidateStruct(dst); err != nil {
		return &RequestValidationError{Sources: govalidatorSources(err)}
	}
	return nil
}

func govalidatorSources(err error) []ErrorSource {
	var list govalidator.Errors
	if !errors.As(err, &list) {
		return []ErrorSource{{Message: err.Error()}}
	}
	var sources []ErrorSource
	for _, e := range list.Errors() {
		var fieldErr govalidator.Error
		if errors.As(e, &fieldErr) {
			path := strings.Join(append(fieldErr.Path, fieldErr.Name), ".")
			sources = append(sources, ErrorSource{Path: path, Message: fieldErr.Err.Error()})
			continue
		}
		sources = append(sources, govalidatorSources(e)...)
	}
	return sources
}

func bindID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapitypes.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromGoogle(id)
}

func bindPage(c echo.Context) (kernel.Page, error) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", c.QueryParams(), &page); err != nil {
		return kernel.Page{}, errs.NewValueIsInvalidErrorWithCause("page", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return kernel.Page{}, errs.NewValueIsInvalidErrorWithCause("limit", err)
	}
	return kernel.NewPage(deref(page), deref(limit))
}

func bindStatusFilter(c echo.Context) (*parcel.Status, error) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &raw); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("status", err)
	}
	if raw == nil || *raw == "" {
		return nil, nil
	}
	status, err := parcel.ParseStatus(*raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
