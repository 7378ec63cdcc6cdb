// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/bkm-notes/app/dto"
	businessflow "github.com/amirphl/bkm-notes/business_flow"
	"github.com/amirphl/bkm-notes/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// validationMessage returns the message of the first failed field
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return getValidationErrorMessage(fieldErrs[0])
	}
	return "Invalid request"
}

func errorJSON(c fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(dto.ErrorResponse{Error: message})
}

// clientMetadata collects the caller details used in flow logs
func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	ip := utils.ClientIP(c.Get("X-Forwarded-For"), c.Get("X-Real-IP"), c.IP())
	metadata := businessflow.NewClientMetadata(ip, c.Get("User-Agent"))
	metadata.SetRequestID(requestid.FromContext(c))
	return metadata
}

// requestContext derives the per-request context passed down to the flows.
// The caller must invoke the returned cancel func.
func requestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return requestContextWithTimeout(c, endpoint, utils.RequestTimeout)
}

func requestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestid.FromContext(c))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, utils.ClientIP(c.Get("X-Forwarded-For"), c.Get("X-Real-IP"), c.IP()))
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	return ctx, cancel
}

// bindJSON decodes a JSON body; an empty body leaves out untouched
func bindJSON(c fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.Bind().JSON(out)
}
