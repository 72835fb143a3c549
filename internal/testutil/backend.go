package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Backend paths of the screening service.
const (
	PathFindTargets   = "/find_protien/"
	PathHitsByDisease = "/aushadhi_lelo/"
	PathHitsByTarget  = "/fetch_chambl_data/"
	PathAlternates    = "/alternate_molecule_generator/"
	PathEvaluation    = "/find_data_evaluation_report/"
)

// BackendCall is one request received by a FakeBackend.
type BackendCall struct {
	Path  string
	Param string
	Body  map[string]string
}

type cannedResponse struct {
	status int
	body   string
}

// FakeBackend is an httptest server that speaks the screening backend's
// wire format.  Responses are registered per path, optionally per request
// parameter, and a gate holds a response until released.
type FakeBackend struct {
	*httptest.Server

	t        testing.TB
	mu       sync.Mutex
	byPath   map[string]cannedResponse
	byParam  map[string]cannedResponse
	gates    map[string]chan struct{}
	arrivals map[string]chan struct{}
	calls    []BackendCall
}

// NewFakeBackend starts a fake backend that is closed with the test.
func NewFakeBackend(t testing.TB) *FakeBackend {
	f := &FakeBackend{
		t:        t,
		byPath:   make(map[string]cannedResponse),
		byParam:  make(map[string]cannedResponse),
		gates:    make(map[string]chan struct{}),
		arrivals: make(map[string]chan struct{}),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func paramKey(path, param string) string { return path + "\x00" + param }

// Respond registers the response for every request to path.
func (f *FakeBackend) Respond(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byPath[path] = cannedResponse{status: status, body: body}
}

// RespondFor registers the response for requests to path carrying param.
func (f *FakeBackend) RespondFor(path, param string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byParam[paramKey(path, param)] = cannedResponse{status: status, body: body}
}

// Gate holds responses to path for param until the returned release is
// called.  The second return value is closed once such a request arrives.
func (f *FakeBackend) Gate(path, param string) (release func(), arrived <-chan struct{}) {
	gate := make(chan struct{})
	arr := make(chan struct{})
	f.mu.Lock()
	f.gates[paramKey(path, param)] = gate
	f.arrivals[paramKey(path, param)] = arr
	f.mu.Unlock()
	var once sync.Once
	release = func() { once.Do(func() { close(gate) }) }
	// runs before the server's Close, which waits for gated handlers
	f.t.Cleanup(release)
	return release, arr
}

// Calls returns the requests received so far.
func (f *FakeBackend) Calls() []BackendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]BackendCall(nil), f.calls...)
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]string{}
	_ = json.Unmarshal(raw, &body)
	param := body["disease"]
	for _, k := range []string{"pdb_id_input", "smiles"} {
		if v, ok := body[k]; ok {
			param = v
		}
	}

	key := paramKey(r.URL.Path, param)
	f.mu.Lock()
	f.calls = append(f.calls, BackendCall{Path: r.URL.Path, Param: param, Body: body})
	resp, ok := f.byParam[key]
	if !ok {
		resp, ok = f.byPath[r.URL.Path]
	}
	gate := f.gates[key]
	if arr, found := f.arrivals[key]; found {
		close(arr)
		delete(f.arrivals, key)
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if !ok {
		http.Error(w, `{"detail":"Not Found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}
