package http

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// openAPIValidator checks parameters and bodies of documented operations.
// Requests the document does not describe pass through untouched.
func openAPIValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         true,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return &RequestValidationError{Sources: validationSources(err)}
			}
			return next(c)
		}
	}, nil
}

func validationSources(err error) []ErrorSource {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var sources []ErrorSource
		for _, e := range multi {
			sources = append(sources, validationSources(e)...)
		}
		return sources
	}

	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return []ErrorSource{{Message: err.Error()}}
	}

	path := "body"
	if reqErr.Parameter != nil {
		path = reqErr.Parameter.Name
	}
	message := reqErr.Reason

	var schemaErr *openapi3.SchemaError
	if errors.As(reqErr.Err, &schemaErr) {
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			path = strings.Join(append([]string{path}, pointer...), ".")
		}
		message = schemaErr.Reason
	}
	if message == "" && reqErr.Err != nil {
		message = reqErr.Err.Error()
	}
	return []ErrorSource{{Path: path, Message: message}}
}

type openAPIDoc struct {
	raw string
}

func (d openAPIDoc) ReadDoc() string {
	return d.raw
}

var (
	swaggerOnce sync.Once
	swaggerErr  error
)

// registerSwaggerDoc publishes doc to swag's registry, which backs the UI
// served under /swagger. swag allows a single registration per name.
func registerSwaggerDoc(doc *openapi3.T) error {
	swaggerOnce.Do(func() {
		raw, err := doc.MarshalJSON()
		if err != nil {
			swaggerErr = fmt.Errorf("encode openapi document: %w", err)
			return
		}
		swag.Register(swag.Name, openAPIDoc{raw: string(raw)})
	})
	return swaggerErr
}

var swaggerHandler = echoSwagger.WrapHandler
