package domain

// AdminCredential is the single privileged principal recognised by the
// credential verifier. It is configured once at startup and never mutated.
type AdminCredential struct {
	Username string
	Password string
}

// ExtractionStatus tags the outcome of reading credentials from a request.
type ExtractionStatus int

const (
	// ExtractionNone means the request carried no credential header.
	ExtractionNone ExtractionStatus = iota
	// ExtractionInvalid means a credential header was present but malformed.
	ExtractionInvalid
	// ExtractionPair means a username/password pair was decoded.
	ExtractionPair
)

// String implements fmt.Stringer.
func (s ExtractionStatus) String() string {
	switch s {
	case ExtractionNone:
		return "none"
	case ExtractionInvalid:
		return "invalid"
	case ExtractionPair:
		return "pair"
	default:
		return "unknown"
	}
}

// ExtractedCredentials is a tagged variant: Username and Password are only
// meaningful when Status is ExtractionPair.
type ExtractedCredentials struct {
	Status   ExtractionStatus
	Username string
	Password string
}

// NoCredentials returns the variant for a request without a credential header.
func NoCredentials() ExtractedCredentials {
	return ExtractedCredentials{Status: ExtractionNone}
}

// InvalidCredentials returns the variant for a malformed credential header.
func InvalidCredentials() ExtractedCredentials {
	return ExtractedCredentials{Status: ExtractionInvalid}
}

// CredentialPair returns the variant carrying a decoded username and password.
func CredentialPair(username, password string) ExtractedCredentials {
	return ExtractedCredentials{Status: ExtractionPair, Username: username, Password: password}
}

// IsPair reports whether a username/password pair was extracted.
func (e ExtractedCredentials) IsPair() bool {
	return e.Status == ExtractionPair
}
