package httpapi

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"qr-dine/diner-svc/internal/service"
)

const SessionCookie = "dine_session"

// session resolves the caller's diner session from its cookie, opening a new
// one when the cookie is missing, malformed or names a session that is gone.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		sess, err := h.Sessions.Get(r.Context(), cookie.Value)
		if err == nil {
			return sess, true
		}
		if !errors.Is(err, service.ErrInvalidSessionID) && !errors.Is(err, service.ErrSessionNotFound) {
			log.Printf("[diner-svc] ERROR: %v", err)
			http.Error(w, "Failed to restore session", http.StatusInternalServerError)
			return nil, false
		}
	}

	sess, err := h.Sessions.Create(r.Context())
	if err != nil {
		log.Printf("[diner-svc] ERROR: %v", err)
		http.Error(w, "Failed to open session", http.StatusInternalServerError)
		return nil, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, true
}

// endSession drops the session from the registry and expires its cookie.
func (h *Handler) endSession(w http.ResponseWriter, sess *service.Session) {
	h.Sessions.Remove(sess.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// navigate turns a pending store navigation into a response. An immediate
// redirect becomes a 303; a delayed one is advertised with a Refresh header
// while payload still goes out so the error can be shown.
func navigate(w http.ResponseWriter, r *http.Request, sess *service.Session, status int, payload interface{}) {
	redirect, ok := sess.Navigator.Take()
	if ok && redirect.Delay == 0 {
		http.Redirect(w, r, redirect.Route, http.StatusSeeOther)
		return
	}
	if ok {
		w.Header().Set("Refresh", fmt.Sprintf("%d; url=%s", int(redirect.Delay/time.Second), redirect.Route))
	}
	writeJSON(w, status, payload)
}
