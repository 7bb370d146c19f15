package permission

import "net/http"

// Request is what a predicate sees: the HTTP method and the caller, nil when
// anonymous.
type Request struct {
	Method    string
	Principal *Principal
}

// Authenticated reports whether the request carries a principal.
func (r Request) Authenticated() bool {
	return r.Principal != nil
}

// Predicate is one collection-level permission check.
type Predicate func(r Request) bool

// IsSafeMethod reports methods that never mutate state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func AllowAny(Request) bool { return true }

func ReadOnly(r Request) bool { return IsSafeMethod(r.Method) }

func IsAuthenticated(r Request) bool { return r.Authenticated() }

// IsAnonymous passes requests that carry no principal.
var IsAnonymous = Not(IsAuthenticated)

// IsAdministrator requires an authenticated admin-equivalent principal.
func IsAdministrator(r Request) bool {
	return r.Authenticated() && r.Principal.IsAdmin()
}

// And passes when every predicate passes.
func And(ps ...Predicate) Predicate {
	return func(r Request) bool {
		for _, p := range ps {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Or passes when any predicate passes.
func Or(ps ...Predicate) Predicate {
	return func(r Request) bool {
		for _, p := range ps {
			if p(r) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(r Request) bool { return !p(r) }
}

// Endpoint group policies.
var (
	// categories, genres, titles
	AdminWriteOrReadOnly = Or(And(IsAuthenticated, IsAdministrator), ReadOnly)
	// reviews and comments; mutation is further gated per object
	AuthorContent = Or(And(ReadOnly, IsAnonymous), IsAuthenticated)
	// /users and /users/{username}
	UserAdmin = And(IsAuthenticated, IsAdministrator)
	// /users/me
	SelfProfile = IsAuthenticated
)

// CanModifyOwned is the object-level rule for reviews and comments. PATCH and
// DELETE need the author, an admin-equivalent principal or a moderator; every
// other method on an object that passed the collection gate is allowed.
func CanModifyOwned(r Request, authorID string) bool {
	if r.Method != http.MethodPatch && r.Method != http.MethodDelete {
		return true
	}
	if !r.Authenticated() {
		return false
	}
	return r.Principal.UserID == authorID ||
		r.Principal.Privilege == Admin ||
		r.Principal.Privilege == Moderator
}
