package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/jrsteele09/finvofy-auth/auth"
	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/pkg/errors"
)

const maxBodyBytes = 1 << 20

type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	TenantName string `json:"tenantName"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email.Error("Invalid email address")),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(8, 0).Error("Password must be at least 8 characters")),
		validation.Field(&r.Name, validation.Required, validation.RuneLength(2, 0).Error("Name must be at least 2 characters")),
		validation.Field(&r.TenantName, validation.Required, validation.RuneLength(2, 0).Error("Company name must be at least 2 characters")),
	)
}

func (r SignupRequest) toInput() auth.SignupInput {
	return auth.SignupInput{
		Email:      r.Email,
		Password:   r.Password,
		Name:       strings.TrimSpace(r.Name),
		TenantName: strings.TrimSpace(r.TenantName),
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email.Error("Invalid email address")),
		validation.Field(&r.Password, validation.Required),
	)
}

// decodeRequest reads a JSON body that may only carry known fields and
// validates it. Every failure is a ValidationError.
func decodeRequest(r *http.Request, dst validation.Validatable) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.NewValidationError(map[string]string{"body": decodeMessage(err)})
	}

	if err := dst.Validate(); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			fields := make(map[string]string, len(fieldErrs))
			for name, fieldErr := range fieldErrs {
				fields[name] = fieldErr.Error()
			}
			return apperrors.NewValidationError(fields)
		}
		return errors.Wrap(err, "[decodeRequest] validate")
	}
	return nil
}

func decodeMessage(err error) string {
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return "property " + strings.Trim(field, `"`) + " should not exist"
	}
	return "malformed JSON"
}
