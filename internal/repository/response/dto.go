package response

import (
	"fmt"
	"time"

	"github.com/amora-labs/amora/internal/domain/compat"
)

// jsonAnswer is the stored form of one answer. Exactly one of Option and
// Options is set; the variant is explicit in the encoding.
type jsonAnswer struct {
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
}

// jsonSet is the stored form of a full response set.
type jsonSet struct {
	UserID      string                `json:"user_id"`
	Responses   map[string]jsonAnswer `json:"responses"`
	CompletedAt time.Time             `json:"completed_at"`
}

func buildJSONSet(rs *compat.ResponseSet) jsonSet {
	answers := make(map[string]jsonAnswer, rs.Len())
	for _, qid := range rs.QuestionIDs() {
		v, _ := rs.Get(qid)
		if ids, ok := v.Multiple(); ok {
			answers[qid] = jsonAnswer{Options: ids}
			continue
		}
		id, _ := v.Single()
		answers[qid] = jsonAnswer{Option: id}
	}
	return jsonSet{
		UserID:      rs.UserID(),
		Responses:   answers,
		CompletedAt: rs.CompletedAt(),
	}
}

func parseJSONSet(userID string, dto *jsonSet) (compat.ResponseSet, error) {
	values := make(map[string]compat.ResponseValue, len(dto.Responses))
	for qid, a := range dto.Responses {
		var v compat.ResponseValue
		var err error
		if len(a.Options) > 0 {
			v, err = compat.NewMultiple(a.Options)
		} else {
			v, err = compat.NewSingle(a.Option)
		}
		if err != nil {
			return compat.ResponseSet{}, fmt.Errorf("stored answer %q: %w", qid, err)
		}
		values[qid] = v
	}
	return compat.NewResponseSet(userID, values, dto.CompletedAt)
}
