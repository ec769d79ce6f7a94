// Package apperror defines the error taxonomy shared by every feature.
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrValidation indicates malformed or incomplete input the caller must correct.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition indicates the action is not legal from the current state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnauthorized indicates the actor's role may not perform the action.
	ErrUnauthorized = errors.New("access denied")

	// ErrConflict indicates the entity changed between read and write.
	ErrConflict = errors.New("conflict")

	// ErrNotFound indicates the referenced unit, submission or record is absent.
	ErrNotFound = errors.New("not found")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Unauthorized(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// TransitionError reports an action that is not legal from the current state.
type TransitionError struct {
	From   string
	Action string
	Role   string
}

func (e *TransitionError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("invalid transition: cannot %s from %q", e.Action, e.From)
	}
	return fmt.Sprintf("invalid transition: role %q cannot %s from %q", e.Role, e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// HTTPStatus maps an error to the response code the transport layer should use.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes err as an {"error": ...} body with the mapped status.
func Respond(c *fiber.Ctx, err error) error {
	return c.Status(HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
