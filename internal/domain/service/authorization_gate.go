package service

// Identity is an authenticated caller.
type Identity struct {
	Subject string
}

// IsAuthenticated reports whether the identity carries a subject.
func (i Identity) IsAuthenticated() bool {
	return i.Subject != ""
}

// RejectionKind says why the gate refused a request. It is for server-side logs only.
type RejectionKind int

const (
	RejectionUnauthenticated RejectionKind = iota + 1
	RejectionMalformedCredential
	RejectionInvalidOrExpired
)

func (k RejectionKind) String() string {
	switch k {
	case RejectionUnauthenticated:
		return "unauthenticated"
	case RejectionMalformedCredential:
		return "malformed_credential"
	case RejectionInvalidOrExpired:
		return "invalid_or_expired"
	default:
		return "unknown"
	}
}

// AuthRejection is returned by AuthorizationGate.Authorize.
type AuthRejection struct {
	Kind RejectionKind
}

func (r *AuthRejection) Error() string {
	return "authorization rejected: " + r.Kind.String()
}

// AuthorizationGate turns the raw Authorization header into an Identity.
type AuthorizationGate interface {
	Authorize(header string) (Identity, error)
}
