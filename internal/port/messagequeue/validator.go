package messagequeue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Strob0t/CRMForge/internal/domain/event"
)

// Validate checks whether data is a well-formed change event for subject.
// Subjects outside the crm.* namespace pass once they are valid JSON.
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}
	if !strings.HasPrefix(subject, SubjectPrefix) {
		return nil
	}

	parts := strings.Split(subject, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed subject %s: want crm.<entity>.<action>", subject)
	}

	var c event.Change
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", subject, err)
	}
	if c.Entity != parts[1] || string(c.Action) != parts[2] {
		return fmt.Errorf("payload %s.%s does not match subject %s", c.Entity, c.Action, subject)
	}
	if c.ID == "" || c.UserID == "" {
		return fmt.Errorf("change on %s is missing id or user_id", subject)
	}
	return nil
}
