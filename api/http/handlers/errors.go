package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/openboard/backend/api/http/presenter"
	"github.com/openboard/backend/pkg/application"
	"github.com/openboard/backend/pkg/guard"
	"github.com/openboard/backend/pkg/job"
	"github.com/openboard/backend/pkg/storage/resumes"
)

// domainError maps use-case errors onto HTTP responses. Validation and
// business-rule messages pass through verbatim (they are user-safe);
// anything unrecognized is logged in full and surfaced generically.
func domainError(c *fiber.Ctx, err error) error {
	var denied *guard.DeniedError
	if errors.As(err, &denied) {
		switch denied.Reason {
		case guard.ReasonNotAuthenticated:
			return presenter.Error(c, http.StatusUnauthorized, denied.Reason)
		case guard.ReasonNotFoundOrOwner:
			// Ownership and existence failures are indistinguishable on
			// purpose; do not leak which one it was.
			return presenter.Error(c, http.StatusNotFound, denied.Reason)
		default:
			return presenter.Error(c, http.StatusForbidden, denied.Reason)
		}
	}

	var jobValidation job.ErrValidation
	if errors.As(err, &jobValidation) {
		return presenter.Error(c, http.StatusBadRequest, jobValidation.Error())
	}
	var appValidation application.ErrValidation
	if errors.As(err, &appValidation) {
		return presenter.Error(c, http.StatusBadRequest, appValidation.Error())
	}

	switch {
	case errors.Is(err, job.ErrNotFound), errors.Is(err, application.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, job.ErrNotPending),
		errors.Is(err, job.ErrNotEditable),
		errors.Is(err, job.ErrNotClosable),
		errors.Is(err, application.ErrDuplicate),
		errors.Is(err, application.ErrNotAccepting),
		errors.Is(err, application.ErrSelfApplication):
		return presenter.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, resumes.ErrUnsupportedType):
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return presenter.Error(c, http.StatusInternalServerError, "something went wrong, please try again")
}
