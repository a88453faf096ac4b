package langflow

import (
	"context"

	"github.com/tidwall/gjson"
)

// Project is a Langflow project (folder) that groups flows.
type Project struct {
	ID          string
	Name        string
	Description string
}

func projectFromJSON(r gjson.Result) Project {
	return Project{
		ID:          r.Get("id").String(),
		Name:        r.Get("name").String(),
		Description: r.Get("description").String(),
	}
}

func decodeProject(body []byte) (Project, error) {
	p := projectFromJSON(gjson.ParseBytes(body))
	if p.ID == "" {
		return Project{}, missingField("project", "id")
	}
	return p, nil
}

// ListProjects returns the projects visible to the session's principal.
func (c *Client) ListProjects(ctx context.Context, sess Session) ([]Project, error) {
	resp, err := c.do(ctx, request{method: "GET", path: "/projects/", session: sess})
	if err != nil {
		return nil, err
	}
	if err := resp.Expect("list projects", StatusOK); err != nil {
		return nil, err
	}

	var projects []Project
	for _, r := range gjson.ParseBytes(resp.Body).Array() {
		projects = append(projects, projectFromJSON(r))
	}
	return projects, nil
}

// ProjectCatalog returns a catalog of the session principal's projects.
func (c *Client) ProjectCatalog(sess Session) *Catalog[Project] {
	return NewCatalog(func(ctx context.Context) ([]Project, error) {
		return c.ListProjects(ctx, sess)
	}, func(p Project) string { return p.Name })
}

type createProjectRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ComponentsList []string `json:"components_list"`
	FlowsList      []string `json:"flows_list"`
}

// ProjectSpec describes a project EnsureProject resolves.
type ProjectSpec struct {
	Name        string
	Description string

	// Expect overrides the accepted create statuses (defaults to ProjectCreateStatus).
	Expect StatusPredicate
}

// EnsureProject resolves spec.Name in catalog, creating the project if absent.
func (c *Client) EnsureProject(ctx context.Context, sess Session, catalog *Catalog[Project], spec ProjectSpec) (EnsureResult[Project], error) {
	expect := spec.Expect
	if expect == nil {
		expect = ProjectCreateStatus
	}

	return (&EnsureOperation[Project]{
		Name:         spec.Name,
		ResourceType: "project",
		Catalog:      catalog,
		Create: func(ctx context.Context) (*Response, error) {
			req, err := jsonRequest("POST", "/projects/", sess, createProjectRequest{
				Name:           spec.Name,
				Description:    spec.Description,
				ComponentsList: []string{},
				FlowsList:      []string{},
			})
			if err != nil {
				return nil, err
			}
			return c.do(ctx, req)
		},
		Expect: expect,
		Decode: decodeProject,
	}).Execute(ctx)
}
