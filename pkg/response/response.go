package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "chatspace/pkg/errors"
)

// Response is the API envelope: status is "success", "fail" (4xx) or
// "error" (5xx); data carries payloads, message carries failure detail.
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Results *int        `json:"results,omitempty"`
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// SuccessMessage is used by endpoints that report an outcome without a payload.
func SuccessMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
	})
}

// SuccessList annotates a collection payload with its element count.
func SuccessList(c echo.Context, data interface{}, results int) error {
	return c.JSON(http.StatusOK, Response{
		Status:  "success",
		Data:    data,
		Results: &results,
	})
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return handleValidationError(c, validationErr)
	}

	// Bind failures surface as echo errors, not AppErrors.
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			return c.JSON(httpErr.Code, Response{
				Status:  "error",
				Message: "Something went wrong",
			})
		}
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return c.JSON(httpErr.Code, Response{
			Status:  "fail",
			Message: message,
		})
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			// Never leak storage or collaborator detail.
			return c.JSON(appErr.Status, Response{
				Status:  "error",
				Message: "Something went wrong",
			})
		}
		return c.JSON(appErr.Status, Response{
			Status:  "fail",
			Message: appErr.Message,
		})
	}

	return c.JSON(http.StatusInternalServerError, Response{
		Status:  "error",
		Message: "Something went wrong",
	})
}

func handleValidationError(c echo.Context, validationErr validator.ValidationErrors) error {
	for _, err := range validationErr {
		field := strings.ToLower(err.Field())
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = field + " is required"
		case "min":
			message = field + " must be at least " + param + " characters"
		case "max":
			message = field + " must be at most " + param + " characters"
		case "email":
			message = field + " must be a valid email address"
		case "eqfield":
			message = "passwords must match"
		default:
			message = field + " is invalid"
		}

		return c.JSON(http.StatusBadRequest, Response{
			Status:  "fail",
			Message: message,
		})
	}

	return c.JSON(http.StatusBadRequest, Response{
		Status:  "fail",
		Message: "Invalid input data",
	})
}
