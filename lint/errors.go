package lint

import "linthub.app/pkg/models"

// translate normalizes any error into the taxonomy's shape so the sync
// endpoint always returns a typed APIError, mirroring the error
// boundary the teacher keeps at its own service entry points.
func translate(err error) error {
	if err == nil {
		return nil
	}
	return models.AsAPIError(err)
}
