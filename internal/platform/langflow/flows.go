package langflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Flow is a Langflow flow.
type Flow struct {
	ID        string
	Name      string
	ProjectID string
}

func flowFromJSON(r gjson.Result) Flow {
	return Flow{
		ID:        r.Get("id").String(),
		Name:      r.Get("name").String(),
		ProjectID: r.Get("folder_id").String(),
	}
}

// ListFlows returns the flows visible to the session's principal.
// A response that is not a JSON array yields no flows.
func (c *Client) ListFlows(ctx context.Context, sess Session) ([]Flow, error) {
	resp, err := c.do(ctx, request{method: "GET", path: "/flows/", session: sess})
	if err != nil {
		return nil, err
	}
	if err := resp.Expect("list flows", StatusOK); err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(resp.Body)
	if !parsed.IsArray() {
		return nil, nil
	}
	var flows []Flow
	for _, r := range parsed.Array() {
		flows = append(flows, flowFromJSON(r))
	}
	return flows, nil
}

// CreateFlow creates a flow from a JSON-encodable payload and returns it.
func (c *Client) CreateFlow(ctx context.Context, sess Session, payload any) (Flow, error) {
	req, err := jsonRequest("POST", "/flows/", sess, payload)
	if err != nil {
		return Flow{}, err
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return Flow{}, err
	}
	if err := resp.Expect("create flow", FlowCreateStatus); err != nil {
		return Flow{}, err
	}

	f := flowFromJSON(gjson.ParseBytes(resp.Body))
	if f.ID == "" {
		return Flow{}, missingField("create flow", "id")
	}
	return f, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadFlow uploads a flow document as multipart field "file", optionally
// into projectID. Statuses outside UploadStatus are returned as *APIError.
func (c *Client) UploadFlow(ctx context.Context, sess Session, filename string, content io.Reader, projectID string) (*Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read flow %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var query url.Values
	if projectID != "" {
		query = url.Values{"folder_id": {projectID}}
	}

	resp, err := c.do(ctx, request{
		method:      "POST",
		path:        "/flows/upload/",
		query:       query,
		session:     sess,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	if err := resp.Expect("upload flow "+filename, UploadStatus); err != nil {
		return resp, err
	}
	return resp, nil
}
