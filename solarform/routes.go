// Common routes and pages
package solarform

import (
	"encoding/json"
	"errors"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/solarutah/solarform/solarform/db"
	"github.com/solarutah/solarform/solarform/relay"
	"github.com/solarutah/solarform/solarform/worker"
	"github.com/solarutah/solarform/solarform/wizard"
	"github.com/solarutah/solarform/templates"
)

const (
	timefmt   = "15:04:05 Mon Jan 2 2006"
	honeypot  = "_honey"
	actionKey = "action"
)

// setupWebRoutes sets up the routes of the service.
//
// Form (steps, processing and thank-you page), on-blur checks, restart,
// delivery log, health, metrics and static assets.
func (srv *Service) setupWebRoutes() {
	router := srv.web.Router
	router.StrictSlash(true)
	router.Use(srv.requestLogger)

	router.HandleFunc("/", srv.renderForm).Methods("GET")
	router.HandleFunc("/", srv.processForm).Methods("POST")
	router.HandleFunc("/check", srv.checkField).Methods("POST")
	router.HandleFunc("/restart", srv.restart).Methods("POST")
	router.HandleFunc("/log", srv.renderLog).Methods("GET")
	router.HandleFunc("/log/{id:[0-9]+}", srv.showDelivery).Methods("GET")
	router.HandleFunc("/health", srv.health).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(srv.registry, promhttp.HandlerOpts{})).Methods("GET")

	router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(http.Dir(srv.Config.AssetsDir))))
	router.NotFoundHandler = srv.requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.web.ErrorResponse(w, http.StatusNotFound, "The page you requested does not exist")
	}))
}

// requestLogger logs every request with a request ID, which is also returned
// in the X-Request-ID header.
func (srv *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
		srv.log.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", reqID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// render executes the layout with the given content templates.
func (srv *Service) render(w http.ResponseWriter, data map[string]interface{}, contents ...string) {
	tmpl := template.New("layout")
	tmpl, err := tmpl.Parse(templates.Layout)
	if err == nil {
		for _, c := range contents {
			if tmpl, err = tmpl.Parse(c); err != nil {
				break
			}
		}
	}
	if err != nil {
		srv.log.Error("Failed to parse templates", "error", err)
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error rendering page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		srv.log.Error("Failed to render page", "error", err)
	}
}

func pageData(wz *wizard.Wizard) map[string]interface{} {
	data := make(map[string]interface{})
	data["step"] = int(wz.Step())
	data["steps"] = wizard.NumSteps
	data["progress"] = int(math.Round(wz.Progress()))
	data["page"] = currentPage(wz)
	return data
}

func (srv *Service) renderForm(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	sess, err := srv.loadSession(w, r)
	if err != nil {
		srv.log.Error("Failed to load session", "error", err)
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error loading your session")
		return
	}
	wz := srv.restore(sess)
	if wz.Submitting() {
		srv.reconcile(sess, wz)
	}

	data := pageData(wz)
	switch {
	case wz.Submitted():
		data["firstName"] = wz.FirstName()
		srv.render(w, data, templates.Progress, templates.Thanks)
	case wz.Submitting():
		srv.render(w, data, templates.Progress, templates.Processing)
	default:
		data["failure"] = wz.Failure()
		data["first"] = wz.Step() == wizard.StepPersonal
		data["final"] = wz.Step() == wizard.StepProperty
		data["intro"] = stepIntros[wz.Step()]
		if wz.Step() == wizard.StepConsent {
			data["notes"] = consentNotes
		}
		if wz.Step() == wizard.StepProperty {
			data["summary"] = summary(wz)
		}
		srv.render(w, data, templates.Progress, templates.Form)
	}
}

// reconcile settles a submission whose delivery finished without the
// session being updated, or that was lost with the worker queue.
func (srv *Service) reconcile(sess *db.Session, wz *wizard.Wizard) {
	d, err := srv.db.GetDelivery(sess.DeliveryID)
	var settle error
	switch {
	case errors.Is(err, db.ErrNotFound):
		settle = wz.Fail(submitErrorMessage)
	case err != nil:
		srv.log.Error("Failed to load delivery", "delivery", sess.DeliveryID, "error", err)
		return
	case d.Status == db.StatusDelivered:
		settle = wz.Complete()
	case d.Status == db.StatusFailed:
		settle = wz.Fail(submitErrorMessage)
	case time.Since(d.SubmitTime) > 2*srv.Config.Relay.Timeout+time.Minute:
		srv.log.Warn("Delivery never finished", "delivery", d.ID, "session", sess.ID)
		settle = wz.Fail(submitErrorMessage)
	default:
		return
	}
	if settle != nil {
		return
	}
	if err := srv.saveSession(sess, wz); err != nil {
		srv.log.Error("Failed to save session", "session", sess.ID, "error", err)
	}
}

// applyStep copies the posted values of the current step into the wizard.
// Only fields that were posted are changed.
func applyStep(wz *wizard.Wizard, r *http.Request) {
	if wz.Step() == wizard.StepConsent {
		checked := make(map[string]bool)
		for _, id := range r.PostForm[string(wizard.FieldConsent)] {
			checked[id] = true
		}
		current := make(map[string]bool)
		for _, id := range wz.Consent() {
			current[id] = true
		}
		for _, p := range wz.Variant().Consent.Options() {
			if checked[p.ID] != current[p.ID] {
				wz.Toggle(p.ID, checked[p.ID])
			}
		}
		return
	}
	for _, f := range wz.Variant().Fields(wz.Step()) {
		if vals, ok := r.PostForm[string(f)]; ok && len(vals) > 0 {
			// invalid choices are recorded as field errors by Set
			wz.Set(f, vals[0])
		}
	}
}

func (srv *Service) processForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		srv.web.ErrorResponse(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if r.PostForm.Get(honeypot) != "" {
		srv.log.Info("Ignoring spam submission", "remote", r.RemoteAddr)
		srv.metrics.ObserveSubmission(srv.variant.Name, "spam")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess, err := srv.loadSession(w, r)
	if err != nil {
		srv.log.Error("Failed to load session", "error", err)
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error loading your session")
		return
	}
	wz := srv.restore(sess)
	if wz.Submitted() || wz.Submitting() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	step := int(wz.Step())
	applyStep(wz, r)

	switch r.PostForm.Get(actionKey) {
	case "back":
		if err := wz.Prev(); err == nil {
			srv.metrics.ObserveStep(srv.variant.Name, step, "back")
		}
	case "next":
		err = wz.Next()
		srv.observeStep(step, "next", err)
	case "submit":
		srv.submit(sess, wz)
	}

	if err := srv.saveSession(sess, wz); err != nil {
		srv.log.Error("Failed to save session", "session", sess.ID, "error", err)
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error saving your progress")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (srv *Service) observeStep(step int, direction string, err error) {
	var verr *wizard.ValidationError
	switch {
	case err == nil:
		srv.metrics.ObserveStep(srv.variant.Name, step, direction)
	case errors.As(err, &verr):
		srv.metrics.ObserveValidationFailure(srv.variant.Name, string(verr.Field))
	}
}

// submit validates the whole draft and queues its delivery.
func (srv *Service) submit(sess *db.Session, wz *wizard.Wizard) {
	draft, err := wz.BeginSubmit()
	if err != nil {
		srv.observeStep(int(wizard.StepProperty), "submit", err)
		return
	}
	if srv.relay == nil {
		srv.log.Error("Submission before service start", "session", sess.ID)
		wz.Fail(submitErrorMessage)
		return
	}
	payload := srv.relay.Payload(relay.Submission{Variant: srv.variant, Draft: draft})
	job := worker.NewJob(sess.ID, srv.variant.Name, payload)
	if err := srv.worker.Enqueue(job); err != nil {
		srv.log.Error("Failed to queue submission", "session", sess.ID, "error", err)
		srv.metrics.ObserveSubmission(srv.variant.Name, "failure")
		wz.Fail(submitErrorMessage)
		return
	}
	sess.DeliveryID = job.ID
	srv.log.Info("Submission queued", "session", sess.ID, "delivery", job.ID)
}

type checkResponse struct {
	Field string `json:"field"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// checkField validates a single value when the user leaves a field.
func (srv *Service) checkField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	field := wizard.Field(r.PostForm.Get("field"))
	w.Header().Set("Content-Type", "application/json")
	if !srv.variant.HasField(field) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(checkResponse{Field: string(field), Error: wizard.ErrUnknownField.Error()})
		return
	}
	msg := wizard.Check(field, r.PostForm.Get("value"))
	json.NewEncoder(w).Encode(checkResponse{Field: string(field), Valid: msg == "", Error: msg})
}

// restart discards the draft of the current session.
func (srv *Service) restart(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if cookie, err := r.Cookie(srv.Config.CookieName); err == nil && cookie.Value != "" {
		if err := srv.db.DeleteSession(cookie.Value); err != nil {
			srv.log.Error("Failed to delete session", "session", cookie.Value, "error", err)
		}
	}
	srv.clearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderLog lists all deliveries, or the attempts of one session when the
// session query parameter is set.
func (srv *Service) renderLog(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	var deliveries []db.Delivery
	var err error
	if session != "" {
		deliveries, err = srv.db.SessionDeliveries(session)
	} else {
		deliveries, err = srv.db.AllDeliveries()
	}
	if err != nil {
		srv.web.ErrorResponse(w, http.StatusInternalServerError, "Error reading deliveries from DB")
		return
	}
	data := make(map[string]interface{})
	data["deliveries"] = deliveries
	data["session"] = session
	data["timefmt"] = timefmt
	srv.render(w, data, templates.LogView)
}

func (srv *Service) showDelivery(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		srv.web.ErrorResponse(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	d, err := srv.db.GetDelivery(id)
	if err != nil {
		srv.web.ErrorResponse(w, http.StatusNotFound, "No such delivery")
		return
	}

	data := make(map[string]interface{})
	data["delivery"] = d
	data["submit_time"] = d.SubmitTime.Format(timefmt)
	if d.IsFinished() {
		data["end_time"] = d.EndTime.Format(timefmt)
		data["duration"] = d.Duration().Round(time.Millisecond).String()
	}
	srv.render(w, data, templates.DeliveryView)
}

func (srv *Service) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"variant": srv.variant.Name,
	})
}
