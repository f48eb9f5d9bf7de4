package remote

import "net/http"

// Authenticator provides credentials for the share host.
type Authenticator interface {
	// Authenticate returns credentials for the given host. An empty username
	// means the request is sent anonymously.
	Authenticate(host string) (username, password string, err error)
}

// DefaultAuthenticator sends every request anonymously, which is what public
// shares expect.
type DefaultAuthenticator struct{}

// NewDefaultAuthenticator creates a default authenticator.
func NewDefaultAuthenticator() *DefaultAuthenticator {
	return &DefaultAuthenticator{}
}

func (a *DefaultAuthenticator) Authenticate(host string) (string, string, error) {
	return "", "", nil
}

// ShareAuthenticator authenticates against a password protected share. The
// share token is the username, as Nextcloud expects for public links.
type ShareAuthenticator struct {
	Token    string
	Password string
}

func (a *ShareAuthenticator) Authenticate(host string) (string, string, error) {
	return a.Token, a.Password, nil
}

func applyAuth(req *http.Request, auth Authenticator) error {
	if auth == nil {
		return nil
	}
	user, pass, err := auth.Authenticate(req.URL.Host)
	if err != nil {
		return err
	}
	if user != "" {
		req.SetBasicAuth(user, pass)
	}
	return nil
}
