package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
	"go.uber.org/atomic"
)

// Routes served by FakeLangflow, usable with SetStatus and Calls.
const (
	RouteLogin         = "POST /api/v1/login"
	RouteListUsers     = "GET /api/v1/users/"
	RouteCreateUser    = "POST /api/v1/users/"
	RoutePatchUser     = "PATCH /api/v1/users/{id}"
	RouteCreateAPIKey  = "POST /api/v1/api_key/"
	RouteListProjects  = "GET /api/v1/projects/"
	RouteCreateProject = "POST /api/v1/projects/"
	RouteCreateFlow    = "POST /api/v1/flows/"
	RouteUploadFlow    = "POST /api/v1/flows/upload/"
	RouteListFlows     = "GET /api/v1/flows/"
)

var allRoutes = []string{
	RouteLogin, RouteListUsers, RouteCreateUser, RoutePatchUser,
	RouteCreateAPIKey, RouteListProjects, RouteCreateProject,
	RouteCreateFlow, RouteUploadFlow, RouteListFlows,
}

// FakeUser is a user account held by FakeLangflow.
type FakeUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"-"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

// FakeProject is a project (folder) held by FakeLangflow.
type FakeProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"-"`
}

// FakeFlow is a flow held by FakeLangflow.
type FakeFlow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FolderID string `json:"folder_id,omitempty"`
	OwnerID  string `json:"-"`
}

// FakeUpload records one multipart flow upload.
type FakeUpload struct {
	Filename    string
	ContentType string
	FolderID    string
	Content     []byte
	OwnerID     string
}

// FakeLangflow is an in-memory Langflow management API served over httptest.
// Projects and flows are scoped to the authenticated user.
type FakeLangflow struct {
	server *httptest.Server

	mu            sync.Mutex
	users         []*FakeUser
	projects      []*FakeProject
	flows         []*FakeFlow
	uploads       []FakeUpload
	tokens        map[string]string
	apiKeys       map[string]string
	statuses      map[string]int
	loginFailures int
	pageLimit     int
	nextID        int

	calls map[string]*atomic.Int64
}

// NewFakeLangflow starts a fake server that is closed when the test ends.
func NewFakeLangflow(t testing.TB) *FakeLangflow {
	t.Helper()

	f := &FakeLangflow{
		tokens:   make(map[string]string),
		apiKeys:  make(map[string]string),
		statuses: make(map[string]int),
		calls:    make(map[string]*atomic.Int64, len(allRoutes)),
	}
	for _, r := range allRoutes {
		f.calls[r] = atomic.NewInt64(0)
	}

	f.server = httptest.NewServer(f.router())
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake server.
func (f *FakeLangflow) URL() string {
	return f.server.URL
}

// Close stops the server; subsequent requests fail at the transport level.
func (f *FakeLangflow) Close() {
	f.server.Close()
}

// AddUser registers an account and returns its id.
func (f *FakeLangflow) AddUser(username, password string, superuser, active bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &FakeUser{
		ID:          f.newID("user"),
		Username:    username,
		Password:    password,
		IsActive:    active,
		IsSuperuser: superuser,
	}
	f.users = append(f.users, u)
	return u.ID
}

// AddProject registers a project owned by username and returns its id.
func (f *FakeLangflow) AddProject(owner, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &FakeProject{ID: f.newID("project"), Name: name, OwnerID: f.userID(owner)}
	f.projects = append(f.projects, p)
	return p.ID
}

// AddFlow registers a flow owned by username and returns its id.
func (f *FakeLangflow) AddFlow(owner, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl := &FakeFlow{ID: f.newID("flow"), Name: name, OwnerID: f.userID(owner)}
	f.flows = append(f.flows, fl)
	return fl.ID
}

// SetStatus forces route to answer with code and an error body.
func (f *FakeLangflow) SetStatus(route string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[route] = code
}

// FailLogins makes the next n login attempts answer 503.
func (f *FakeLangflow) FailLogins(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginFailures = n
}

// SetPageLimit caps the number of users returned per listing page.
func (f *FakeLangflow) SetPageLimit(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageLimit = n
}

// Calls returns how many requests hit route.
func (f *FakeLangflow) Calls(route string) int {
	c, ok := f.calls[route]
	if !ok {
		return 0
	}
	return int(c.Load())
}

// Uploads returns the recorded flow uploads.
func (f *FakeLangflow) Uploads() []FakeUpload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeUpload(nil), f.uploads...)
}

// User returns the account named username, or nil.
func (f *FakeLangflow) User(username string) *FakeUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp
		}
	}
	return nil
}

// Projects returns all projects owned by username.
func (f *FakeLangflow) Projects(owner string) []FakeProject {
	f.mu.Lock()
	defer f.mu.Unlock()
	ownerID := f.userID(owner)
	var out []FakeProject
	for _, p := range f.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out
}

// Flows returns all flows owned by username.
func (f *FakeLangflow) Flows(owner string) []FakeFlow {
	f.mu.Lock()
	defer f.mu.Unlock()
	ownerID := f.userID(owner)
	var out []FakeFlow
	for _, fl := range f.flows {
		if fl.OwnerID == ownerID {
			out = append(out, *fl)
		}
	}
	return out
}

// APIKeyOwner returns the username owning key, or "".
func (f *FakeLangflow) APIKeyOwner(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usernameByID(f.apiKeys[key])
}

func (f *FakeLangflow) router() http.Handler {
	r := chi.NewRouter()
	r.Use(f.countCalls)
	r.Use(f.forcedStatus)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", f.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(f.authenticate)

			r.Get("/users/", f.handleListUsers)
			r.Post("/users/", f.handleCreateUser)
			r.Patch("/users/{id}", f.handlePatchUser)
			r.Post("/api_key/", f.handleCreateAPIKey)
			r.Get("/projects/", f.handleListProjects)
			r.Post("/projects/", f.handleCreateProject)
			r.Get("/flows/", f.handleListFlows)
			r.Post("/flows/", f.handleCreateFlow)
			r.Post("/flows/upload/", f.handleUploadFlow)
		})
	})
	return r
}

func routeKey(r *http.Request) string {
	p := r.URL.Path
	if strings.HasPrefix(p, "/api/v1/users/") && p != "/api/v1/users/" {
		p = "/api/v1/users/{id}"
	}
	return r.Method + " " + p
}

func (f *FakeLangflow) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := f.calls[routeKey(r)]; ok {
			c.Inc()
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeLangflow) forcedStatus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		code, ok := f.statuses[routeKey(r)]
		f.mu.Unlock()
		if ok {
			writeJSON(w, code, map[string]string{"detail": fmt.Sprintf("forced status %d", code)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxUser struct{}

func (f *FakeLangflow) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		var userID string
		if key := r.Header.Get("x-api-key"); key != "" {
			userID = f.apiKeys[key]
		} else if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			userID = f.tokens[token]
		}
		user := f.userByID(userID)
		f.mu.Unlock()

		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		r.Header.Set("X-Fake-User", user.ID)
		next.ServeHTTP(w, r)
	})
}

func (f *FakeLangflow) currentUser(r *http.Request) *FakeUser {
	return f.userByID(r.Header.Get("X-Fake-User"))
}

func (f *FakeLangflow) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loginFailures > 0 {
		f.loginFailures--
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "starting up"})
		return
	}

	if r.PostForm.Get("grant_type") != "password" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "unsupported grant_type"})
		return
	}

	for _, u := range f.users {
		if u.Username == r.PostForm.Get("username") && u.Password == r.PostForm.Get("password") {
			if !u.IsActive {
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Inactive user"})
				return
			}
			token := f.newID("token")
			f.tokens[token] = u.ID
			writeJSON(w, http.StatusOK, map[string]string{
				"access_token":  token,
				"refresh_token": token + "-refresh",
				"token_type":    "bearer",
			})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
}

func (f *FakeLangflow) handleListUsers(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.currentUser(r).IsSuperuser {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "The user doesn't have enough privileges"})
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if f.pageLimit > 0 && limit > f.pageLimit {
		limit = f.pageLimit
	}

	page := make([]FakeUser, 0, limit)
	for i := skip; i < len(f.users) && len(page) < limit; i++ {
		page = append(page, *f.users[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"total_count": len(f.users), "users": page})
}

func (f *FakeLangflow) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	username := gjson.GetBytes(body, "username").String()

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "This username is unavailable."})
			return
		}
	}

	u := &FakeUser{
		ID:          f.newID("user"),
		Username:    username,
		Password:    gjson.GetBytes(body, "password").String(),
		IsActive:    gjson.GetBytes(body, "is_active").Bool(),
		IsSuperuser: gjson.GetBytes(body, "is_superuser").Bool(),
	}
	f.users = append(f.users, u)
	writeJSON(w, http.StatusCreated, u)
}

func (f *FakeLangflow) handlePatchUser(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	u := f.userByID(chi.URLParam(r, "id"))
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
		return
	}
	if v := gjson.GetBytes(body, "is_active"); v.Exists() {
		u.IsActive = v.Bool()
	}
	writeJSON(w, http.StatusOK, u)
}

func (f *FakeLangflow) handleCreateAPIKey(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	key := "sk-" + f.newID("key")
	f.apiKeys[key] = f.currentUser(r).ID
	writeJSON(w, http.StatusOK, map[string]string{
		"id":      f.newID("apikey"),
		"name":    gjson.GetBytes(body, "name").String(),
		"api_key": key,
	})
}

func (f *FakeLangflow) handleListProjects(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	owner := f.currentUser(r).ID
	out := make([]FakeProjectView, 0)
	for _, p := range f.projects {
		if p.OwnerID == owner {
			out = append(out, FakeProjectView{ID: p.ID, Name: p.Name, Description: p.Description})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// FakeProjectView is the wire shape of a project listing entry.
type FakeProjectView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (f *FakeLangflow) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	p := &FakeProject{
		ID:          f.newID("project"),
		Name:        gjson.GetBytes(body, "name").String(),
		Description: gjson.GetBytes(body, "description").String(),
		OwnerID:     f.currentUser(r).ID,
	}
	f.projects = append(f.projects, p)
	writeJSON(w, http.StatusCreated, FakeProjectView{ID: p.ID, Name: p.Name, Description: p.Description})
}

func (f *FakeLangflow) handleListFlows(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	owner := f.currentUser(r).ID
	out := make([]FakeFlow, 0)
	for _, fl := range f.flows {
		if fl.OwnerID == owner {
			out = append(out, *fl)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeLangflow) handleCreateFlow(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	name := gjson.GetBytes(body, "name").String()
	if name == "" || !gjson.GetBytes(body, "data.nodes").IsArray() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "name and data.nodes are required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fl := &FakeFlow{
		ID:       f.newID("flow"),
		Name:     name,
		FolderID: gjson.GetBytes(body, "folder_id").String(),
		OwnerID:  f.currentUser(r).ID,
	}
	f.flows = append(f.flows, fl)
	writeJSON(w, http.StatusCreated, fl)
}

func (f *FakeLangflow) handleUploadFlow(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "missing file part"})
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil || !gjson.ValidBytes(content) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid flow document"})
		return
	}

	folderID := r.URL.Query().Get("folder_id")
	name := gjson.GetBytes(content, "name").String()
	if name == "" {
		name = strings.TrimSuffix(header.Filename, path.Ext(header.Filename))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	owner := f.currentUser(r).ID
	if folderID != "" && !f.ownsProject(owner, folderID) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Folder not found"})
		return
	}

	f.uploads = append(f.uploads, FakeUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		FolderID:    folderID,
		Content:     content,
		OwnerID:     owner,
	})
	fl := &FakeFlow{ID: f.newID("flow"), Name: name, FolderID: folderID, OwnerID: owner}
	f.flows = append(f.flows, fl)
	writeJSON(w, http.StatusCreated, []*FakeFlow{fl})
}

func (f *FakeLangflow) ownsProject(ownerID, projectID string) bool {
	for _, p := range f.projects {
		if p.ID == projectID && p.OwnerID == ownerID {
			return true
		}
	}
	return false
}

func (f *FakeLangflow) newID(kind string) string {
	f.nextID++
	return fmt.Sprintf("%s-%04d", kind, f.nextID)
}

func (f *FakeLangflow) userID(username string) string {
	for _, u := range f.users {
		if u.Username == username {
			return u.ID
		}
	}
	return ""
}

func (f *FakeLangflow) userByID(id string) *FakeUser {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *FakeLangflow) usernameByID(id string) string {
	if u := f.userByID(id); u != nil {
		return u.Username
	}
	return ""
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
