package session

import (
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/leadsession/internal/client/models"
	"github.com/dmitrijs2005/leadsession/internal/common"
)

// ExtractErrorMessage picks the text to show for a failed call, in order:
// the body's "error" field, the body's "message" field, err's message, and
// finally common.GenericErrorMessage. body may be nil or not JSON at all.
func ExtractErrorMessage(body []byte, err error) string {
	var eb models.ErrorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		if s := strings.TrimSpace(eb.Error); s != "" {
			return s
		}
		if s := strings.TrimSpace(eb.Message); s != "" {
			return s
		}
	}
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		return err.Error()
	}
	return common.GenericErrorMessage
}
