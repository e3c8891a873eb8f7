package main

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"dscheirer.com/segd/digit"
)

// largest body we look at on a store, only the first byte matters anyway
const maxStoreBody = 64

type attrResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
	Digit    int    `json:"digit"`
	Pattern  string `json:"pattern"`
	Sessions int    `json:"sessions"`
	Driver   string `json:"driver"`
}

// attrHandler serves the named attribute over HTTP
type attrHandler struct {
	rt     runtimeConfig
	attr   *digit.Attribute
	user   string
	secret string
	realm  string
	logger flogger
}

func newAttrHandler(rt runtimeConfig) *attrHandler {
	return &attrHandler{
		rt:     rt,
		attr:   rt.device.Attribute(),
		user:   rt.settings.GetString(sAttrUser),
		secret: rt.settings.GetString(sAttrSecret),
		realm:  "segd",
		logger: &ThreadLogger{name: "Attr"},
	}
}

// BasicAuth - provide a middleware to authenticate users, off when there's no secret
func (m *attrHandler) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(m.user)) != 1 || subtle.ConstantTimeCompare([]byte(pass), []byte(m.secret)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+m.realm+`"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorised.\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newAttrRouter(handler *attrHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(handler.BasicAuth)

	r.HandleFunc("/"+digit.AttrName, handler.apiShow).Methods("GET")
	r.HandleFunc("/"+digit.AttrName, handler.apiStore).Methods("PUT", "POST")
	r.HandleFunc("/api/status", handler.apiStatus).Methods("GET")
	r.HandleFunc("/api/resync", handler.apiResync).Methods("POST")
	return r
}

// errorStatus maps controller errors to HTTP
func errorStatus(err error) int {
	switch {
	case errors.Is(err, digit.ErrInvalidDigit):
		return http.StatusBadRequest
	case errors.Is(err, digit.ErrHardwareFault):
		return http.StatusBadGateway
	case errors.Is(err, digit.ErrResourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (m *attrHandler) apiShow(w http.ResponseWriter, r *http.Request) {
	out, err := m.attr.Show()
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

func (m *attrHandler) apiStore(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxStoreBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	n, err := m.attr.Store(string(body))
	if err != nil {
		m.logger.Printf("store %q: %v", body, err)
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%d\n", n)
}

func (m *attrHandler) apiResync(w http.ResponseWriter, r *http.Request) {
	if err := m.rt.device.Controller().Resync(); err != nil {
		m.logger.Printf("resync: %v", err)
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (m *attrHandler) getStatus() attrResponse {
	ctl := m.rt.device.Controller()
	status := attrResponse{
		Response: "OK",
		Digit:    ctl.Read(),
		Pattern:  ctl.Pattern().String(),
		Sessions: m.rt.device.Sessions(),
		Driver:   m.rt.driver.Name(),
	}
	if m.rt.device.Released() {
		status.Response = "BAD"
		status.Error = digit.ErrResourceUnavailable.Error()
	}
	return status
}

func writeAnswer(w http.ResponseWriter, ar attrResponse) {
	output, _ := json.Marshal(ar)
	w.Header().Set("Content-Type", "application/json")
	w.Write(output)
}

func (m *attrHandler) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeAnswer(w, m.getStatus())
}

func runAttrService(rt runtimeConfig) {
	defer wg.Done()

	handler := newAttrHandler(rt)
	rt.attrService.launch(handler, rt.settings.GetString(sAttrAddr))

	<-rt.comms.quit
	handler.logger.Println("quit from attr service")
	rt.attrService.stop()
}
