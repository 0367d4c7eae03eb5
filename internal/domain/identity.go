package domain

import "strings"

type IdentityKind string

const (
	IdentityKindUserID IdentityKind = "user_id"
	IdentityKindEmail  IdentityKind = "email"
)

// Identity is a person reference stored either as a stable user id or as an
// email address. Collaborator lists, notification recipients and project
// creators all use it.
type Identity struct {
	Kind  IdentityKind
	Value string
}

func ByID(id string) Identity {
	return Identity{Kind: IdentityKindUserID, Value: strings.TrimSpace(id)}
}

func ByEmail(email string) Identity {
	return Identity{Kind: IdentityKindEmail, Value: NormalizeEmail(email)}
}

// ParseIdentity classifies a raw stored value. Anything containing '@' is an
// email.
func ParseIdentity(raw string) Identity {
	if strings.Contains(raw, "@") {
		return ByEmail(raw)
	}
	return ByID(raw)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (i Identity) IsZero() bool {
	return i.Value == ""
}

func (i Identity) IsEmail() bool {
	return i.Kind == IdentityKindEmail
}

// String is the persisted form.
func (i Identity) String() string {
	return i.Value
}

// Equal compares by kind and value. An id and an email are never equal even
// when they belong to the same account.
func (i Identity) Equal(other Identity) bool {
	return i.Kind == other.Kind && i.Value == other.Value
}

// Matches reports whether the identity refers to the given actor, by id or by
// case-insensitive email.
func (i Identity) Matches(a Actor) bool {
	if i.IsZero() {
		return false
	}
	switch i.Kind {
	case IdentityKindUserID:
		return a.UserID != "" && i.Value == a.UserID
	case IdentityKindEmail:
		return a.Email != "" && i.Value == NormalizeEmail(a.Email)
	}
	return false
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

func (a Actor) IsAuthenticated() bool {
	return a.UserID != ""
}

func (a Actor) ID() Identity {
	return ByID(a.UserID)
}

// Identities returns every stored form the actor may appear under.
func (a Actor) Identities() []Identity {
	ids := make([]Identity, 0, 2)
	if a.UserID != "" {
		ids = append(ids, ByID(a.UserID))
	}
	if a.Email != "" {
		ids = append(ids, ByEmail(a.Email))
	}
	return ids
}

// IdentityStrings is Identities in persisted form, for store lookups.
func (a Actor) IdentityStrings() []string {
	ids := a.Identities()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// ContainsActor reports whether any raw stored identity refers to the actor.
func ContainsActor(raw []string, a Actor) bool {
	for _, r := range raw {
		if ParseIdentity(r).Matches(a) {
			return true
		}
	}
	return false
}

// NormalizeIdentities parses, normalizes and de-duplicates raw identity values,
// keeping first-seen order and dropping blanks.
func NormalizeIdentities(raw []string) []string {
	seen := make(map[Identity]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		id := ParseIdentity(r)
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id.String())
	}
	return out
}
