package server

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const sessionSubject string = "Record Collection Session"

// issueSessionCookie stores the catalog token in a signed cookie so the
// browser session keeps working without re-reading server configuration.
func (s *Server) issueSessionCookie(w http.ResponseWriter, r *http.Request, discogsToken string) error {
	expiration := time.Now().Add(time.Hour * 24 * 7)

	_, signed, err := s.jwtAuth.Encode(map[string]interface{}{
		jwt.SubjectKey:    sessionSubject,
		jwt.IssuedAtKey:   time.Now().Unix(),
		jwt.ExpirationKey: expiration,
		"discogs_token":   discogsToken,
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    string(signed),
		Expires:  expiration,
		Secure:   r.URL.Scheme == "https",
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		MaxAge:   -1,
		Secure:   r.URL.Scheme == "https",
		HttpOnly: true,
		Path:     "/",
	})
}

// sessionToken returns the catalog token carried by a valid session
// cookie, or "".
func (s *Server) sessionToken(r *http.Request) string {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return ""
	}

	if subject, _ := token.Subject(); subject != sessionSubject {
		return ""
	}

	v, _ := claims["discogs_token"].(string)
	return v
}

// tokenFromRequest resolves the catalog token: session cookie first, then
// the configured shared token.
func (s *Server) tokenFromRequest(r *http.Request) string {
	if t := s.sessionToken(r); t != "" {
		return t
	}
	return s.discogsToken
}
