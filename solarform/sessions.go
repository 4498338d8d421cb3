package solarform

import (
	"errors"
	"net/http"
	"time"

	"github.com/solarutah/solarform/solarform/db"
	"github.com/solarutah/solarform/solarform/wizard"
)

// loadSession returns the session named by the request's cookie. Missing,
// unknown, expired or foreign-variant sessions are replaced by a new one and
// the cookie is set on w. Callers must hold srv.mu.
func (srv *Service) loadSession(w http.ResponseWriter, r *http.Request) (*db.Session, error) {
	if cookie, err := r.Cookie(srv.Config.CookieName); err == nil && cookie.Value != "" {
		sess, err := srv.db.GetSession(cookie.Value)
		switch {
		case errors.Is(err, db.ErrNotFound):
		case err != nil:
			return nil, err
		case sess.Variant != srv.variant.Name:
		case time.Since(sess.Updated) > srv.Config.SessionTTL:
			srv.log.Debug("Session expired", "session", sess.ID)
			if err := srv.db.DeleteSession(sess.ID); err != nil {
				return nil, err
			}
		default:
			return sess, nil
		}
	}

	sess := db.NewSession(srv.variant.Name)
	if err := srv.db.InsertSession(sess); err != nil {
		return nil, err
	}
	srv.log.Debug("New session", "session", sess.ID)
	srv.setCookie(w, sess.ID)
	return sess, nil
}

func (srv *Service) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     srv.Config.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (srv *Service) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     srv.Config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// restore rebuilds the wizard stored in a session.
func (srv *Service) restore(sess *db.Session) *wizard.Wizard {
	return wizard.Restore(srv.variant, wizard.State{
		Step:       sess.Step,
		Values:     sess.Values,
		Errors:     sess.Errors,
		Consent:    sess.Consent,
		Submitting: sess.Submitting,
		Submitted:  sess.Submitted,
		Failure:    sess.Failure,
		FirstName:  sess.FirstName,
	})
}

// saveSession writes the wizard state back into the session row.
func (srv *Service) saveSession(sess *db.Session, wz *wizard.Wizard) error {
	st := wz.State()
	sess.Step = st.Step
	sess.Values = st.Values
	sess.Errors = st.Errors
	sess.Consent = st.Consent
	sess.Submitting = st.Submitting
	sess.Submitted = st.Submitted
	sess.Failure = st.Failure
	sess.FirstName = st.FirstName
	return srv.db.UpdateSession(sess)
}
