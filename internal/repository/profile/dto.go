package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amora-labs/amora/internal/db"
	"github.com/amora-labs/amora/internal/domain"
	domprofile "github.com/amora-labs/amora/internal/domain/profile"
	"github.com/amora-labs/amora/internal/domain/search"
)

// interestSeparator joins interest tags into one TAG hash field.
const interestSeparator = ","

// returnFields are the hash fields fetched per search hit.
var returnFields = []string{"name", "age", "gender", "city", "bio", "avatar_url", "interests"}

func profileKey(id string) string {
	return fmt.Sprintf("%sprofile:%s", domain.KeyPrefix, id)
}

func profileID(key string) string {
	return strings.TrimPrefix(key, domain.KeyPrefix+"profile:")
}

func indexName() string {
	return domain.KeyPrefix + "profile-idx"
}

// buildIndex defines the FT schema the discovery filters search against.
func buildIndex() *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     indexName(),
		Prefixes: []string{domain.KeyPrefix + "profile:"},
		Fields: []db.IndexField{
			{Name: "name", Type: db.IndexFieldText},
			{Name: "bio", Type: db.IndexFieldText},
			{Name: "age", Type: db.IndexFieldNumeric, Sortable: true},
			{Name: "gender", Type: db.IndexFieldTag},
			{Name: "city", Type: db.IndexFieldTag},
			{Name: "interests", Type: db.IndexFieldTag, Separator: interestSeparator},
		},
	}
}

// buildHashFields converts a domain Summary into a flat map[string]string for HSET.
func buildHashFields(p *domprofile.Summary) map[string]string {
	return map[string]string{
		"name":       p.DisplayName(),
		"age":        strconv.Itoa(p.Age()),
		"gender":     p.Gender(),
		"city":       p.City(),
		"bio":        p.Bio(),
		"avatar_url": p.AvatarURL(),
		"interests":  strings.Join(p.Interests(), interestSeparator),
	}
}

// parseHashFields converts a flat hash map back into a domain Summary.
func parseHashFields(id string, m map[string]string) domprofile.Summary {
	age, _ := strconv.Atoi(m["age"])
	var interests []string
	if raw := m["interests"]; raw != "" {
		interests = strings.Split(raw, interestSeparator)
	}
	return domprofile.Reconstruct(id, m["name"], age, m["gender"], m["city"], m["bio"], m["avatar_url"], interests)
}

// buildQuery renders the filters as an FT.SEARCH query string. Absent criteria
// contribute nothing; a fully empty filter set matches everything.
func buildQuery(f search.Filters) string {
	var parts []string

	if q := escapeText(f.Query()); q != "" {
		parts = append(parts, fmt.Sprintf("@name|bio:(%s)", q))
	}
	if city := f.City(); city != "" {
		parts = append(parts, fmt.Sprintf("@city:{%s}", escapeTag(city)))
	}
	if g := f.PreferredGender(); g != "" {
		parts = append(parts, fmt.Sprintf("@gender:{%s}", escapeTag(g)))
	}
	if f.MinAge() > 0 || f.MaxAge() > 0 {
		lo, hi := "-inf", "+inf"
		if f.MinAge() > 0 {
			lo = strconv.Itoa(f.MinAge())
		}
		if f.MaxAge() > 0 {
			hi = strconv.Itoa(f.MaxAge())
		}
		parts = append(parts, fmt.Sprintf("@age:[%s %s]", lo, hi))
	}
	for _, tag := range f.Interests() {
		parts = append(parts, fmt.Sprintf("@interests:{%s}", escapeTag(tag)))
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>", "{", "\\{", "}", "\\}",
	"[", "\\[", "]", "\\]", "\"", "\\\"", "'", "\\'", ":", "\\:", ";", "\\;",
	"!", "\\!", "@", "\\@", "#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)", "-", "\\-", "+", "\\+",
	"=", "\\=", "~", "\\~", "|", "\\|", "/", "\\/", " ", "\\ ",
)

// escapeTag escapes TAG query syntax characters in a user-supplied value.
func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}

var textEscaper = strings.NewReplacer(
	",", " ", ".", " ", "<", " ", ">", " ", "{", " ", "}", " ",
	"[", " ", "]", " ", "\"", " ", "'", " ", ":", " ", ";", " ",
	"!", " ", "@", " ", "#", " ", "$", " ", "%", " ", "^", " ",
	"&", " ", "*", " ", "(", " ", ")", " ", "-", " ", "+", " ",
	"=", " ", "~", " ", "|", " ", "/", " ", "\\", " ",
)

// escapeText strips TEXT query syntax characters from a free-text query so
// user input is matched as plain terms.
func escapeText(s string) string {
	return strings.TrimSpace(textEscaper.Replace(s))
}
