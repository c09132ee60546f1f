package chi

import (
	"fmt"
	"time"

	"github.com/amora-labs/amora/internal/domain/compat"
	"github.com/amora-labs/amora/internal/domain/profile"
	"github.com/amora-labs/amora/internal/domain/search"
	compatuc "github.com/amora-labs/amora/internal/usecase/compat"
	feeduc "github.com/amora-labs/amora/internal/usecase/feed"
	sessionuc "github.com/amora-labs/amora/internal/usecase/session"
	swipeuc "github.com/amora-labs/amora/internal/usecase/swipe"
)

// errorCode identifies an error class in API responses.
type errorCode string

// Error codes.
const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codeUnauthorized      errorCode = "unauthorized"
	codeProfileNotFound   errorCode = "profile_not_found"
	codeSessionNotFound   errorCode = "session_not_found"
	codeResponsesNotFound errorCode = "responses_not_found"
	codeNoOverlap         errorCode = "no_overlap"
	codeInternalError     errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type startSessionRequest struct {
	UserID  string          `json:"user_id"`
	Filters *filtersRequest `json:"filters,omitempty"`
}

type sessionResponse struct {
	SessionID string           `json:"session_id"`
	UserID    string           `json:"user_id"`
	CreatedAt time.Time        `json:"created_at"`
	Feed      feedSnapshot     `json:"feed"`
	Swipe     swipeSnapshot    `json:"swipe"`
	Current   *profileResponse `json:"current,omitempty"`
}

type filtersRequest struct {
	Query           string   `json:"query,omitempty"`
	City            string   `json:"city,omitempty"`
	MinAge          int      `json:"min_age,omitempty"`
	MaxAge          int      `json:"max_age,omitempty"`
	PreferredGender string   `json:"preferred_gender,omitempty"`
	PageSize        int      `json:"page_size,omitempty"`
	Interests       []string `json:"interests,omitempty"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type swipeTargetRequest struct {
	ProfileID string `json:"profile_id"`
}

type feedSnapshot struct {
	Query         string            `json:"query,omitempty"`
	Items         []profileResponse `json:"items"`
	IsLoading     bool              `json:"is_loading"`
	IsLoadingMore bool              `json:"is_loading_more"`
	HasMore       bool              `json:"has_more"`
	NextCursor    string            `json:"next_cursor,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	InfoMessage   string            `json:"info_message,omitempty"`
}

type swipeSnapshot struct {
	CurrentIndex       int      `json:"current_index"`
	SentInterestIDs    []string `json:"sent_interest_ids"`
	SendingInterestIDs []string `json:"sending_interest_ids"`
	PassedIDs          []string `json:"passed_ids"`
}

type profileRequest struct {
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	City        string   `json:"city,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Interests   []string `json:"interests,omitempty"`
}

type profileResponse struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	City        string   `json:"city,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Interests   []string `json:"interests,omitempty"`
}

type answerDTO struct {
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
}

type responsesRequest struct {
	Responses map[string]answerDTO `json:"responses"`
}

type responsesResponse struct {
	UserID       string               `json:"user_id"`
	Responses    map[string]answerDTO `json:"responses"`
	CompletedAt  time.Time            `json:"completed_at"`
	Completeness completenessDTO      `json:"completeness"`
}

type completenessDTO struct {
	Answered int  `json:"answered"`
	Required int  `json:"required"`
	Complete bool `json:"complete"`
}

type scoreResponse struct {
	UserID1        string             `json:"user_id_1"`
	UserID2        string             `json:"user_id_2"`
	Overall        float64            `json:"overall"`
	Tier           string             `json:"tier"`
	CategoryScores map[string]float64 `json:"category_scores"`
	CalculatedAt   time.Time          `json:"calculated_at"`
}

type catalogResponse struct {
	Categories []catalogCategoryDTO `json:"categories"`
}

type catalogCategoryDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Weight    float64              `json:"weight"`
	Questions []catalogQuestionDTO `json:"questions"`
}

type catalogQuestionDTO struct {
	ID       string             `json:"id"`
	Text     string             `json:"text"`
	Type     string             `json:"type"`
	Required bool               `json:"required"`
	Options  []catalogOptionDTO `json:"options"`
}

type catalogOptionDTO struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func filtersFromRequest(req filtersRequest) search.Filters {
	return search.NewFilters().
		WithQuery(req.Query).
		WithCity(req.City).
		WithAgeRange(req.MinAge, req.MaxAge).
		WithPreferredGender(req.PreferredGender).
		WithPageSize(req.PageSize).
		WithInterests(req.Interests)
}

func profileFromRequest(id string, req profileRequest) profile.Summary {
	return profile.New(id, req.DisplayName, req.Age, req.Gender, req.City, req.Bio, req.AvatarURL, req.Interests)
}

func profileToResponse(p *profile.Summary) profileResponse {
	return profileResponse{
		ID:          p.ID(),
		DisplayName: p.DisplayName(),
		Age:         p.Age(),
		Gender:      p.Gender(),
		City:        p.City(),
		Bio:         p.Bio(),
		AvatarURL:   p.AvatarURL(),
		Interests:   p.Interests(),
	}
}

func feedToResponse(snap feeduc.Snapshot) feedSnapshot {
	items := make([]profileResponse, len(snap.Items))
	for i := range snap.Items {
		items[i] = profileToResponse(&snap.Items[i])
	}
	return feedSnapshot{
		Query:         snap.Query,
		Items:         items,
		IsLoading:     snap.IsLoading,
		IsLoadingMore: snap.IsLoadingMore,
		HasMore:       snap.HasMore,
		NextCursor:    snap.Cursor,
		ErrorMessage:  snap.ErrorMessage,
		InfoMessage:   snap.InfoMessage,
	}
}

func swipeToResponse(snap swipeuc.Snapshot) swipeSnapshot {
	return swipeSnapshot{
		CurrentIndex:       snap.CurrentIndex,
		SentInterestIDs:    snap.SentInterestIDs,
		SendingInterestIDs: snap.SendingInterestIDs,
		PassedIDs:          snap.PassedIDs,
	}
}

func sessionToResponse(s *sessionuc.Session) sessionResponse {
	resp := sessionResponse{
		SessionID: s.ID(),
		UserID:    s.UserID(),
		CreatedAt: s.CreatedAt().UTC(),
		Feed:      feedToResponse(s.Feed().Snapshot()),
		Swipe:     swipeToResponse(s.Swipe().Snapshot()),
	}
	if current, ok := s.Swipe().Current(); ok {
		dto := profileToResponse(&current)
		resp.Current = &dto
	}
	return resp
}

func answersFromRequest(req responsesRequest) (map[string]compat.ResponseValue, error) {
	answers := make(map[string]compat.ResponseValue, len(req.Responses))
	for qid, a := range req.Responses {
		var v compat.ResponseValue
		var err error
		if len(a.Options) > 0 {
			v, err = compat.NewMultiple(a.Options)
		} else {
			v, err = compat.NewSingle(a.Option)
		}
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", qid, err)
		}
		answers[qid] = v
	}
	return answers, nil
}

func responsesToResponse(rs *compat.ResponseSet, c compatuc.Completeness) responsesResponse {
	answers := make(map[string]answerDTO, rs.Len())
	for _, qid := range rs.QuestionIDs() {
		v, _ := rs.Get(qid)
		if ids, ok := v.Multiple(); ok {
			answers[qid] = answerDTO{Options: ids}
			continue
		}
		id, _ := v.Single()
		answers[qid] = answerDTO{Option: id}
	}
	return responsesResponse{
		UserID:      rs.UserID(),
		Responses:   answers,
		CompletedAt: rs.CompletedAt(),
		Completeness: completenessDTO{
			Answered: c.Answered,
			Required: c.Required,
			Complete: c.Complete,
		},
	}
}

func scoreToResponse(s *compat.Score) scoreResponse {
	return scoreResponse{
		UserID1:        s.UserID1(),
		UserID2:        s.UserID2(),
		Overall:        s.Overall(),
		Tier:           string(s.Tier()),
		CategoryScores: s.CategoryScores(),
		CalculatedAt:   s.CalculatedAt().UTC(),
	}
}

func catalogToResponse(c *compat.Catalog) catalogResponse {
	cats := c.Categories()
	out := catalogResponse{Categories: make([]catalogCategoryDTO, len(cats))}
	for i := range cats {
		qs := cats[i].Questions()
		qdtos := make([]catalogQuestionDTO, len(qs))
		for j := range qs {
			opts := qs[j].Options()
			odtos := make([]catalogOptionDTO, len(opts))
			for k := range opts {
				odtos[k] = catalogOptionDTO{ID: opts[k].ID(), Text: opts[k].Text(), Value: opts[k].Value()}
			}
			qdtos[j] = catalogQuestionDTO{
				ID:       qs[j].ID(),
				Text:     qs[j].Text(),
				Type:     string(qs[j].Type()),
				Required: qs[j].Required(),
				Options:  odtos,
			}
		}
		out.Categories[i] = catalogCategoryDTO{
			ID:        cats[i].ID(),
			Name:      cats[i].Name(),
			Weight:    cats[i].Weight(),
			Questions: qdtos,
		}
	}
	return out
}
