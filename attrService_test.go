package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gotest.tools/assert"

	"dscheirer.com/segd/segments"
)

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func pattern(d int) segments.Pattern {
	p, _ := segments.Encode(d)
	return p
}

func TestAttrShow(t *testing.T) {
	rt, _, _ := testRuntime(t)
	r := newAttrRouter(newAttrHandler(rt))

	rec := doRequest(r, "GET", "/digit_to_display", "")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Body.String(), "1\n")
}

func TestAttrStore(t *testing.T) {
	rt, _, ls := testRuntime(t)
	r := newAttrRouter(newAttrHandler(rt))

	rec := doRequest(r, "PUT", "/digit_to_display", "7\n")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Body.String(), "1\n")

	audit := ls.getAudit()
	assert.Equal(t, audit[len(audit)-1], pattern(7))

	rec = doRequest(r, "GET", "/digit_to_display", "")
	assert.Equal(t, rec.Body.String(), "7\n")

	rec = doRequest(r, "POST", "/digit_to_display", "0")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rt.device.Controller().Read(), 0)
}

func TestAttrStoreInvalidLenient(t *testing.T) {
	rt, _, ls := testRuntime(t)
	r := newAttrRouter(newAttrHandler(rt))

	rec := doRequest(r, "PUT", "/digit_to_display", "x")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Body.String(), "1\n")
	assert.Equal(t, rt.device.Controller().Read(), 1)
	// just the default from allocation
	assert.Equal(t, len(ls.getAudit()), 1)
}

func TestAttrStoreInvalidStrict(t *testing.T) {
	settings := testSettings()
	settings.set(sStrictWrites, true)
	rt, _, _ := testRuntimeWith(t, settings)
	r := newAttrRouter(newAttrHandler(rt))

	rec := doRequest(r, "PUT", "/digit_to_display", "x")
	assert.Equal(t, rec.Code, http.StatusBadRequest)
	assert.Equal(t, rt.device.Controller().Read(), 1)
}

func TestAttrStoreFaultAndResync(t *testing.T) {
	rt, _, ls := testRuntime(t)
	r := newAttrRouter(newAttrHandler(rt))

	ls.setFails(1)
	rec := doRequest(r, "PUT", "/digit_to_display", "3")
	assert.Equal(t, rec.Code, http.StatusBadGateway)

	// stored anyway, the display is behind
	rec = doRequest(r, "GET", "/digit_to_display", "")
	assert.Equal(t, rec.Body.String(), "3\n")
	audit := ls.getAudit()
	assert.Equal(t, audit[len(audit)-1], pattern(1))

	rec = doRequest(r, "POST", "/api/resync", "")
	assert.Equal(t, rec.Code, http.StatusNoContent)
	audit = ls.getAudit()
	assert.Equal(t, audit[len(audit)-1], pattern(3))
}

func TestAttrAuth(t *testing.T) {
	settings := testSettings()
	settings.set(sAttrSecret, "hunter2")
	rt, _, _ := testRuntimeWith(t, settings)
	r := newAttrRouter(newAttrHandler(rt))

	rec := doRequest(r, "GET", "/digit_to_display", "")
	assert.Equal(t, rec.Code, http.StatusUnauthorized)

	req := httptest.NewRequest("GET", "/digit_to_display", nil)
	req.SetBasicAuth("segd", "hunter2")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, rec.Code, http.StatusOK)

	req = httptest.NewRequest("GET", "/digit_to_display", nil)
	req.SetBasicAuth("segd", "wrong")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, rec.Code, http.StatusUnauthorized)
}

func TestAttrStatus(t *testing.T) {
	rt, _, _ := testRuntime(t)
	r := newAttrRouter(newAttrHandler(rt))
	s, _ := rt.device.Open()
	defer s.Close()

	rec := doRequest(r, "GET", "/api/status", "")
	assert.Equal(t, rec.Code, http.StatusOK)

	var status attrResponse
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.DeepEqual(t, status, attrResponse{
		Response: "OK",
		Digit:    1,
		Pattern:  "0x06",
		Sessions: 1,
		Driver:   "log",
	})
}

func TestAttrReleased(t *testing.T) {
	rt, _, ls := testRuntime(t)
	r := newAttrRouter(newAttrHandler(rt))
	assert.NilError(t, rt.device.Release(context.Background()))
	assert.Assert(t, ls.closed)

	rec := doRequest(r, "GET", "/digit_to_display", "")
	assert.Equal(t, rec.Code, http.StatusServiceUnavailable)
	rec = doRequest(r, "PUT", "/digit_to_display", "2")
	assert.Equal(t, rec.Code, http.StatusServiceUnavailable)

	handler := newAttrHandler(rt)
	assert.Equal(t, handler.getStatus().Response, "BAD")
}

func TestAttrMethods(t *testing.T) {
	rt, _, _ := testRuntime(t)
	r := newAttrRouter(newAttrHandler(rt))

	rec := doRequest(r, "DELETE", "/digit_to_display", "")
	assert.Equal(t, rec.Code, http.StatusMethodNotAllowed)
	rec = doRequest(r, "GET", "/nope", "")
	assert.Equal(t, rec.Code, http.StatusNotFound)
}

func TestRunAttrService(t *testing.T) {
	rt, _, _ := testRuntime(t)
	svc := rt.attrService.(*testAttrService)

	wg.Add(1)
	go runAttrService(rt)
	<-svc.launched
	assert.Equal(t, svc.addr, "127.0.0.1:0")

	testQuit(rt)
	assert.Assert(t, svc.stopped)
}
