package langflow

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// usersPageSize is the page size requested when listing users.
const usersPageSize = 100

// User is a Langflow account.
type User struct {
	ID          string
	Username    string
	IsActive    bool
	IsSuperuser bool
}

func userFromJSON(r gjson.Result) User {
	return User{
		ID:          r.Get("id").String(),
		Username:    r.Get("username").String(),
		IsActive:    r.Get("is_active").Bool(),
		IsSuperuser: r.Get("is_superuser").Bool(),
	}
}

func decodeUser(body []byte) (User, error) {
	u := userFromJSON(gjson.ParseBytes(body))
	if u.ID == "" {
		return User{}, missingField("user", "id")
	}
	return u, nil
}

// ListUsers returns every account, following skip/limit pagination until
// total_count users have been read or a page comes back empty.
func (c *Client) ListUsers(ctx context.Context, sess Session) ([]User, error) {
	var users []User
	for {
		resp, err := c.do(ctx, request{
			method:  "GET",
			path:    "/users/",
			session: sess,
			query: url.Values{
				"skip":  {strconv.Itoa(len(users))},
				"limit": {strconv.Itoa(usersPageSize)},
			},
		})
		if err != nil {
			return nil, err
		}
		if err := resp.Expect("list users", StatusOK); err != nil {
			return nil, err
		}

		page := gjson.GetBytes(resp.Body, "users").Array()
		for _, r := range page {
			users = append(users, userFromJSON(r))
		}

		total := gjson.GetBytes(resp.Body, "total_count")
		if len(page) == 0 || !total.Exists() || len(users) >= int(total.Int()) {
			return users, nil
		}
	}
}

type createUserRequest struct {
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	IsSuperuser bool       `json:"is_superuser"`
	IsActive    bool       `json:"is_active"`
	Optins      userOptins `json:"optins"`
}

type userOptins struct {
	GithubStarred   bool `json:"github_starred"`
	DialogDismissed bool `json:"dialog_dismissed"`
	DiscordClicked  bool `json:"discord_clicked"`
}

func (c *Client) createUser(ctx context.Context, sess Session, username, password string) (*Response, error) {
	// New accounts start inactive and are activated explicitly afterwards.
	req, err := jsonRequest("POST", "/users/", sess, createUserRequest{
		Username: username,
		Password: password,
		Optins:   userOptins{DialogDismissed: true},
	})
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req)
}

// SetUserActive flips the account's active flag.
func (c *Client) SetUserActive(ctx context.Context, sess Session, id string, active bool) (User, error) {
	req, err := jsonRequest("PATCH", "/users/"+url.PathEscape(id), sess, map[string]bool{"is_active": active})
	if err != nil {
		return User{}, err
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return User{}, err
	}
	if err := resp.Expect("update user", StatusOK); err != nil {
		return User{}, err
	}

	u := userFromJSON(gjson.ParseBytes(resp.Body))
	if u.ID == "" {
		u.ID = id
	}
	u.IsActive = active
	return u, nil
}

// EnsureUserOptions describes the account EnsureUser resolves.
type EnsureUserOptions struct {
	Username string
	Password string

	// Expect overrides the accepted create statuses (defaults to UserCreateStatus).
	Expect StatusPredicate
}

// EnsureUser returns the account named opts.Username, creating it if absent.
// Inactive accounts, including freshly created ones, are activated.
func (c *Client) EnsureUser(ctx context.Context, sess Session, opts EnsureUserOptions) (EnsureResult[User], error) {
	expect := opts.Expect
	if expect == nil {
		expect = UserCreateStatus
	}

	catalog := NewCatalog(func(ctx context.Context) ([]User, error) {
		return c.ListUsers(ctx, sess)
	}, func(u User) string { return u.Username })

	return (&EnsureOperation[User]{
		Name:         opts.Username,
		ResourceType: "user",
		Catalog:      catalog,
		Create: func(ctx context.Context) (*Response, error) {
			return c.createUser(ctx, sess, opts.Username, opts.Password)
		},
		Expect: expect,
		Decode: decodeUser,
		Validate: func(u User) error {
			if u.ID == "" {
				return missingField("list users", "id")
			}
			return nil
		},
		Update: func(ctx context.Context, u User) (User, error) {
			if u.IsActive {
				return u, nil
			}
			return c.SetUserActive(ctx, sess, u.ID, true)
		},
	}).Execute(ctx)
}
