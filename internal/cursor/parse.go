package cursor

import (
	"encoding/json"
	"fmt"
)

// Response envelopes differ across API versions: the row array can sit
// under "data" or "users", events under "usageEvents", "data", or
// "events", and the roster under "teamMembers", "members", or as the
// bare body. The decoders below try the known shapes in order.

func decodeRows(body []byte) ([]RawUsageRow, error) {
	var envelope struct {
		Data  []RawUsageRow `json:"data"`
		Users []RawUsageRow `json:"users"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Data != nil {
			return envelope.Data, nil
		}
		if envelope.Users != nil {
			return envelope.Users, nil
		}
	}

	var bare []RawUsageRow
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("cursor: unrecognized daily-usage response shape")
}

func decodeEvents(body []byte) ([]UsageEvent, error) {
	var envelope struct {
		UsageEvents []UsageEvent `json:"usageEvents"`
		Data        []UsageEvent `json:"data"`
		Events      []UsageEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.UsageEvents != nil {
			return envelope.UsageEvents, nil
		}
		if envelope.Data != nil {
			return envelope.Data, nil
		}
		if envelope.Events != nil {
			return envelope.Events, nil
		}
	}

	var bare []UsageEvent
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("cursor: unrecognized usage-events response shape")
}

func decodeMembers(body []byte) ([]TeamMember, error) {
	var envelope struct {
		TeamMembers []TeamMember `json:"teamMembers"`
		Members     []TeamMember `json:"members"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.TeamMembers != nil {
			return envelope.TeamMembers, nil
		}
		if envelope.Members != nil {
			return envelope.Members, nil
		}
	}

	var bare []TeamMember
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("cursor: unrecognized team-members response shape")
}

func decodeSpending(body []byte) (*Spending, error) {
	var spending Spending
	if err := json.Unmarshal(body, &spending); err != nil {
		return nil, fmt.Errorf("cursor: decoding spending response: %w", err)
	}
	return &spending, nil
}
