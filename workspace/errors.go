package workspace

import "linthub.app/pkg/models"

// NewWorkspaceError builds the 422-class error for path/size/validation
// violations (§4.3 "All failures").
func NewWorkspaceError(message string, cause error) *models.APIError {
	return models.NewAPIError(models.ErrWorkspace, message, cause)
}

// NewContentTooLargeError builds the 413-class error for size-limit
// violations.
func NewContentTooLargeError(message string, cause error) *models.APIError {
	return models.NewAPIError(models.ErrContentTooLarge, message, cause)
}
