// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package server serves a GB200 shaped Redfish tree for tests and local
// development. Resources are read from the embedded data directory; PATCHes
// are merged into an in-memory copy per server.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

//go:embed data/**
var dataFS embed.FS

const (
	redfishPrefix = "/redfish/v1"
	sessionsPath  = "SessionService/Sessions"
	accountsPath  = "AccountService/Accounts"
	tasksPath     = "TaskService/Tasks"

	// MultipartPushPath and HTTPPushPath match the UpdateService fixture.
	MultipartPushPath = "UpdateService/update-multipart"
	HTTPPushPath      = "UpdateService/update"
)

// Request is a request received by the server. Path is relative to
// /redfish/v1/.
type Request struct {
	Method string
	Path   string
	Body   []byte
	Header http.Header
}

type fault struct {
	method    string
	path      string
	status    int
	remaining int
}

type task struct {
	id    string
	polls int
	final string
}

// taskProgress is the sequence a task walks through, one step per GET.
var taskProgress = []struct {
	state   string
	percent int
}{
	{"New", 0},
	{"Running", 40},
	{"Running", 80},
}

type MockServer struct {
	log      logr.Logger
	addr     string
	handler  http.Handler
	username string
	password string

	mu         sync.Mutex
	overrides  map[string]map[string]any
	deleted    map[string]bool
	sessions   map[string]string
	tasks      map[string]*task
	taskOrder  []string
	taskFinal  string
	requests   []Request
	faults     []*fault
	nextUserID int
}

// Option configures a MockServer.
type Option func(*MockServer)

// WithCredentials requires basic auth or a session token created with the
// given credentials on every request.
func WithCredentials(username, password string) Option {
	return func(s *MockServer) {
		s.username, s.password = username, password
	}
}

func NewMockServer(log logr.Logger, addr string, opts ...Option) *MockServer {
	s := &MockServer{
		log:        log,
		addr:       addr,
		overrides:  map[string]map[string]any{},
		deleted:    map[string]bool{},
		sessions:   map[string]string{},
		tasks:      map[string]*task{},
		taskFinal:  "Completed",
		nextUserID: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	mux := http.NewServeMux()
	mux.HandleFunc(redfishPrefix+"/", s.redfishHandler)
	mux.HandleFunc(redfishPrefix, s.redfishHandler)
	s.handler = mux
	return s
}

// Handler returns the HTTP handler, for use with httptest.
func (s *MockServer) Handler() http.Handler { return s.handler }

// Requests returns the requests received so far.
func (s *MockServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// ResetRequests forgets the recorded requests.
func (s *MockServer) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Fail answers the next times requests matching method and path with status.
func (s *MockServer) Fail(method, path string, status, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &fault{method: method, path: strings.Trim(path, "/"), status: status, remaining: times})
}

// ExpireSessions invalidates every session token.
func (s *MockServer) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.sessions)
}

// SessionCount returns the number of live sessions.
func (s *MockServer) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SetTaskFinalState sets the terminal state of tasks created from now on.
func (s *MockServer) SetTaskFinalState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskFinal = state
}

// Resource returns the current state of the resource at path.
func (s *MockServer) Resource(path string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(strings.Trim(path, "/"))
}

func relative(urlPath string) string {
	return strings.Trim(strings.TrimPrefix(urlPath, redfishPrefix), "/")
}

func resolvePath(rel string) string {
	if rel == "" {
		return "data/index.json"
	}
	return path.Join("data", rel, "index.json")
}

func (s *MockServer) redfishHandler(w http.ResponseWriter, r *http.Request) {
	rel := relative(r.URL.Path)
	s.log.V(1).Info("Received request", "Method", r.Method, "Path", rel)

	var body []byte
	if r.Method != http.MethodGet && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		var err error
		if body, err = io.ReadAll(r.Body); err != nil {
			http.Error(w, "Invalid body", http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: rel, Body: body, Header: r.Header.Clone()})

	if status, ok := s.injectedFault(r.Method, rel); ok {
		writeError(w, status, "Base.1.0.GeneralError", "injected fault")
		return
	}
	if r.Method == http.MethodPost && rel == sessionsPath {
		s.handleLogin(w, body)
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Base.1.0.NoValidSession", "no valid session")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleRedfishGET(w, rel)
	case http.MethodPost:
		s.handleRedfishPOST(w, r, rel, body)
	case http.MethodPatch:
		s.handleRedfishPATCH(w, rel, body)
	case http.MethodDelete:
		s.handleRedfishDELETE(w, rel)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *MockServer) injectedFault(method, rel string) (int, bool) {
	for _, f := range s.faults {
		if f.remaining > 0 && f.method == method && f.path == rel {
			f.remaining--
			return f.status, true
		}
	}
	return 0, false
}

func (s *MockServer) authorized(r *http.Request) bool {
	if s.username == "" {
		return true
	}
	if token := r.Header.Get("X-Auth-Token"); token != "" {
		_, ok := s.sessions[token]
		return ok
	}
	user, pass, ok := r.BasicAuth()
	return ok && user == s.username && pass == s.password
}

func (s *MockServer) handleLogin(w http.ResponseWriter, body []byte) {
	var creds struct {
		UserName string `json:"UserName"`
		Password string `json:"Password"`
	}
	if err := json.Unmarshal(body, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "Base.1.0.MalformedJSON", err.Error())
		return
	}
	if s.username != "" && (creds.UserName != s.username || creds.Password != s.password) {
		writeError(w, http.StatusUnauthorized, "Base.1.0.InsufficientPrivilege", "invalid credentials")
		return
	}
	token := uuid.NewString()
	id := uuid.NewString()
	s.sessions[token] = id
	w.Header().Set("X-Auth-Token", token)
	w.Header().Set("Location", redfishPrefix+"/"+sessionsPath+"/"+id)
	writeJSON(w, http.StatusCreated, map[string]any{
		"@odata.id": redfishPrefix + "/" + sessionsPath + "/" + id,
		"Id":        id,
		"UserName":  creds.UserName,
	})
}

// load returns a copy of the resource at rel.
func (s *MockServer) load(rel string) (map[string]any, bool) {
	if s.deleted[rel] {
		return nil, false
	}
	switch rel {
	case tasksPath:
		return s.collection(rel, s.taskOrder), true
	case sessionsPath:
		return s.collection(rel, slices.Sorted(maps.Values(s.sessions))), true
	}
	if id, ok := strings.CutPrefix(rel, tasksPath+"/"); ok {
		if t, ok := s.tasks[id]; ok {
			return s.taskResource(t), true
		}
		return nil, false
	}
	if cached, ok := s.overrides[rel]; ok {
		return deepCopy(cached), true
	}
	data, err := dataFS.ReadFile(resolvePath(rel))
	if err != nil {
		return nil, false
	}
	var base map[string]any
	if err := json.Unmarshal(data, &base); err != nil {
		s.log.Error(err, "Corrupt embedded JSON", "Path", rel)
		return nil, false
	}
	return base, true
}

func (s *MockServer) collection(rel string, ids []string) map[string]any {
	members := make([]any, 0, len(ids))
	for _, id := range ids {
		members = append(members, map[string]any{"@odata.id": redfishPrefix + "/" + rel + "/" + id})
	}
	return map[string]any{
		"@odata.id":           redfishPrefix + "/" + rel,
		"Members":             members,
		"Members@odata.count": len(members),
	}
}

func (s *MockServer) handleRedfishGET(w http.ResponseWriter, rel string) {
	if id, ok := strings.CutPrefix(rel, tasksPath+"/"); ok {
		if t, ok := s.tasks[id]; ok {
			res := s.taskResource(t)
			t.polls++
			writeJSON(w, http.StatusOK, res)
			return
		}
	}
	res, ok := s.load(rel)
	if !ok {
		writeError(w, http.StatusNotFound, "Base.1.0.ResourceMissingAtURI", "resource "+rel+" not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *MockServer) handleRedfishPATCH(w http.ResponseWriter, rel string, body []byte) {
	var update map[string]any
	if err := json.Unmarshal(body, &update); err != nil || len(update) == 0 {
		writeError(w, http.StatusBadRequest, "Base.1.0.MalformedJSON", "invalid JSON")
		return
	}
	base, ok := s.load(rel)
	if !ok {
		writeError(w, http.StatusNotFound, "Base.1.0.ResourceMissingAtURI", "resource "+rel+" not found")
		return
	}
	if _, isCollection := base["Members"]; isCollection {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	mergeJSON(base, update)
	s.overrides[rel] = base
	w.WriteHeader(http.StatusNoContent)
}

func (s *MockServer) handleRedfishDELETE(w http.ResponseWriter, rel string) {
	if id, ok := strings.CutPrefix(rel, sessionsPath+"/"); ok {
		for token, sid := range s.sessions {
			if sid == id {
				delete(s.sessions, token)
			}
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if _, ok := s.load(rel); !ok {
		writeError(w, http.StatusNotFound, "Base.1.0.ResourceMissingAtURI", "resource "+rel+" not found")
		return
	}
	s.deleted[rel] = true
	w.WriteHeader(http.StatusNoContent)
}

func (s *MockServer) handleRedfishPOST(w http.ResponseWriter, r *http.Request, rel string, body []byte) {
	switch {
	case rel == accountsPath:
		s.createAccount(w, body)
	case rel == MultipartPushPath:
		s.handleMultipart(w, r)
	case rel == HTTPPushPath:
		t := s.newTask()
		writeJSON(w, http.StatusAccepted, s.taskResource(t))
	case strings.HasSuffix(rel, "UpdateService.SimpleUpdate"), strings.HasSuffix(rel, "/Certificates"):
		t := s.newTask()
		w.Header().Set("Location", redfishPrefix+"/"+tasksPath+"/"+t.id)
		w.WriteHeader(http.StatusAccepted)
	case strings.Contains(rel, "/Actions/"):
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *MockServer) createAccount(w http.ResponseWriter, body []byte) {
	var account map[string]any
	if err := json.Unmarshal(body, &account); err != nil {
		writeError(w, http.StatusBadRequest, "Base.1.0.MalformedJSON", err.Error())
		return
	}
	id := strconv.Itoa(s.nextUserID)
	s.nextUserID++
	rel := accountsPath + "/" + id
	delete(account, "Password")
	account["@odata.id"] = redfishPrefix + "/" + rel
	account["Id"] = id
	account["Locked"] = false
	s.overrides[rel] = account

	coll, _ := s.load(accountsPath)
	members, _ := coll["Members"].([]any)
	coll["Members"] = append(members, map[string]any{"@odata.id": redfishPrefix + "/" + rel})
	s.overrides[accountsPath] = coll

	w.Header().Set("Location", redfishPrefix+"/"+rel)
	writeJSON(w, http.StatusCreated, account)
}

// handleMultipart checks the UpdateParameters and UpdateFile parts and
// answers with a new task.
func (s *MockServer) handleMultipart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Base.1.0.MalformedJSON", err.Error())
		return
	}
	params := r.MultipartForm.Value["UpdateParameters"]
	if len(params) == 0 {
		if files := r.MultipartForm.File["UpdateParameters"]; len(files) > 0 {
			params = []string{files[0].Filename}
		}
	}
	if len(params) == 0 || len(r.MultipartForm.File["UpdateFile"]) == 0 {
		writeError(w, http.StatusBadRequest, "Base.1.0.ActionParameterMissing", "UpdateParameters and UpdateFile are required")
		return
	}
	t := s.newTask()
	w.Header().Set("Location", redfishPrefix+"/"+tasksPath+"/"+t.id)
	writeJSON(w, http.StatusAccepted, s.taskResource(t))
}

func (s *MockServer) newTask() *task {
	t := &task{id: strconv.Itoa(len(s.taskOrder)), final: s.taskFinal}
	s.tasks[t.id] = t
	s.taskOrder = append(s.taskOrder, t.id)
	return t
}

func (s *MockServer) taskResource(t *task) map[string]any {
	state, percent := t.final, 100
	if t.polls < len(taskProgress) {
		state, percent = taskProgress[t.polls].state, taskProgress[t.polls].percent
	}
	res := map[string]any{
		"@odata.id":       redfishPrefix + "/" + tasksPath + "/" + t.id,
		"@odata.type":     "#Task.v1_7_1.Task",
		"Id":              t.id,
		"Name":            "Task " + t.id,
		"TaskState":       state,
		"PercentComplete": percent,
		"TaskMonitor":     redfishPrefix + "/TaskService/TaskMonitors/" + t.id,
	}
	if state == "Exception" {
		res["TaskStatus"] = "Critical"
		res["Messages"] = []any{map[string]any{
			"MessageId": "Update.1.0.ApplyFailed",
			"Message":   "The update failed to apply.",
			"Severity":  "Critical",
		}}
	}
	return res
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"@Message.ExtendedInfo": []any{map[string]any{
				"MessageId": code,
				"Message":   message,
			}},
		},
	})
}

func deepCopy(m map[string]any) map[string]any {
	c := make(map[string]any, len(m))
	for k, v := range m {
		if vMap, ok := v.(map[string]any); ok {
			c[k] = deepCopy(vMap)
		} else {
			c[k] = v
		}
	}
	return c
}

func mergeJSON(base, update map[string]any) {
	for k, v := range update {
		if bv, ok := base[k]; ok {
			if bvMap, ok1 := bv.(map[string]any); ok1 {
				if vMap, ok2 := v.(map[string]any); ok2 {
					mergeJSON(bvMap, vMap)
					continue
				}
			}
		}
		base[k] = v
	}
}

// Start starts the mock server and stops on ctx cancellation.
func (s *MockServer) Start(ctx context.Context) error {
	if s.handler == nil {
		return fmt.Errorf("mock redfish handler is nil")
	}

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})

	go func() {
		s.log.Info("Started mock server", "Address", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(err, "Server failed")
		}
		close(done)
	}()

	<-ctx.Done()
	s.log.Info("Shutting down mock server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error(err, "Mock server shutdown failed")
	}
	<-done
	return nil
}
