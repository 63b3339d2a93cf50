package policy

import (
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils/apierror"
)

// Authorize is the single capability check used by every admin operation.
func Authorize(actor *entity.Actor, capability entity.Capability) apierror.ErrorResponse {
	if actor == nil {
		return apierror.UnauthorizedError
	}

	if !actor.Role.Has(capability) {
		return apierror.NewCapabilityError(string(capability))
	}
	return nil
}
