package langflow

import (
	"context"

	"github.com/tidwall/gjson"
)

// CreateAPIKey mints a named API key for the session's principal.
func (c *Client) CreateAPIKey(ctx context.Context, sess Session, name string) (string, error) {
	req, err := jsonRequest("POST", "/api_key/", sess, map[string]string{"name": name})
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	if err := resp.Expect("create api key", APIKeyCreateStatus); err != nil {
		return "", err
	}

	key := gjson.GetBytes(resp.Body, "api_key").String()
	if key == "" {
		return "", missingField("create api key", "api_key")
	}
	return key, nil
}
