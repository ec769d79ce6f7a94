package api

import (
	"errors"
	"fmt"
	"strings"

	"sk-pengajuan/internal/common/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// BindJSON parses the request body into out and runs its `validate` tags.
// Failures come back as apperror.ErrValidation naming the offending fields.
func BindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("invalid request body")
	}
	return Validate(out)
}

func Validate(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.Validation("%v", err)
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return apperror.Validation("invalid fields: %s", strings.Join(fields, ", "))
}
