package dashboard

import (
	"errors"
	"fmt"

	"github.com/spigell/resume-matcher/internal/matcher"
	"github.com/spigell/resume-matcher/internal/results"
)

// Action names a user-triggered operation in error messages.
type Action string

const (
	ActionUpload  Action = "uploading file"
	ActionRemove  Action = "removing file"
	ActionParse   Action = "parsing resume"
	ActionMatch   Action = "matching candidates"
	ActionExport  Action = "exporting"
	ActionCompare Action = "comparing candidates"
	ActionReview  Action = "reviewing candidates"
	ActionOther   Action = "running action"
)

// UserMessage turns an action failure into the text shown to the user.
// Validation failures are shown as is; an unreachable backend gets a hint
// that the server is probably not running.
func UserMessage(action Action, err error, baseURL string) string {
	if err == nil {
		return ""
	}

	var verr *results.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	if matcher.IsNetworkUnreachable(err) {
		where := baseURL
		if where == "" {
			where = matcher.DefaultBaseURL
		}
		return fmt.Sprintf("Error %s. Could not connect to server. Please make sure the backend is running at %s", action, where)
	}

	if matcher.IsTimeout(err) {
		return fmt.Sprintf("Error %s. The server took too long to respond, try again or raise api.timeout", action)
	}

	var appErr *matcher.ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return fmt.Sprintf("Error %s: %s", action, appErr.Message)
	}

	return fmt.Sprintf("Error %s. %s", action, err.Error())
}
