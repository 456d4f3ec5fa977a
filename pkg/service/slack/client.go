package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// DefaultPageLimit is the per-request page size for paginated API calls
const DefaultPageLimit = 200

// Client collects workspace state through the Slack Web API
type Client struct {
	api       *slack.Client
	apiURL    string
	pageLimit int
}

// Option is a functional option for client configuration
type Option func(*Client)

// WithPageLimit sets the per-request page size
func WithPageLimit(limit int) Option {
	return func(c *Client) {
		c.pageLimit = limit
	}
}

// WithAPIURL overrides the Slack API endpoint. Used by tests; the URL must
// end with a slash.
func WithAPIURL(url string) Option {
	return func(c *Client) {
		c.apiURL = url
	}
}

// New creates a collector with the provided bot token
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &Client{pageLimit: DefaultPageLimit}
	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)
	return c, nil
}

// Collect fetches users, channels and file metadata. The three collections
// are fetched independently; a snapshot carries no transactional guarantee.
func (c *Client) Collect(ctx context.Context) (*model.Snapshot, error) {
	var snapshot model.Snapshot

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		users, err := c.listUsers(ctx)
		if err != nil {
			return err
		}
		snapshot.Users = users
		return nil
	})
	eg.Go(func() error {
		channels, err := c.listChannels(ctx)
		if err != nil {
			return err
		}
		snapshot.Channels = channels
		return nil
	})
	eg.Go(func() error {
		files, err := c.listFiles(ctx)
		if err != nil {
			return err
		}
		snapshot.Files = files
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (c *Client) listUsers(ctx context.Context) ([]model.User, error) {
	apiUsers, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get users")
	}

	users := make([]model.User, 0, len(apiUsers))
	for _, u := range apiUsers {
		users = append(users, model.User{
			ID:                u.ID,
			Name:              u.Name,
			Deleted:           u.Deleted,
			IsBot:             u.IsBot,
			IsAdmin:           u.IsAdmin,
			IsOwner:           u.IsOwner,
			IsRestricted:      u.IsRestricted,
			IsUltraRestricted: u.IsUltraRestricted,
			Updated:           int64(u.Updated),
			Profile: model.Profile{
				RealName: u.Profile.RealName,
				Email:    u.Profile.Email,
				Title:    u.Profile.Title,
			},
		})
	}
	return users, nil
}

func (c *Client) listChannels(ctx context.Context) ([]model.Channel, error) {
	var channels []model.Channel
	var cursor string

	for {
		params := &slack.GetConversationsParameters{
			// Archived channels are included; the archive-spike check
			// depends on them.
			Types:  []string{"public_channel", "private_channel"},
			Limit:  c.pageLimit,
			Cursor: cursor,
		}

		convs, nextCursor, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get conversations")
		}

		for _, conv := range convs {
			channels = append(channels, model.Channel{
				ID:          conv.ID,
				Name:        conv.Name,
				IsArchived:  conv.IsArchived,
				IsExtShared: conv.IsExtShared,
				NumMembers:  conv.NumMembers,
				Topic:       conv.Topic.Value,
				Purpose:     conv.Purpose.Value,
			})
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	return channels, nil
}

func (c *Client) listFiles(ctx context.Context) ([]model.File, error) {
	var files []model.File
	page := 1

	for {
		apiFiles, paging, err := c.api.GetFilesContext(ctx, slack.GetFilesParameters{
			Count: c.pageLimit,
			Page:  page,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get files", goerr.V("page", page))
		}

		for _, f := range apiFiles {
			files = append(files, model.File{
				ID:   f.ID,
				Name: f.Name,
				Size: int64(f.Size),
			})
		}

		if paging == nil || paging.Page >= paging.Pages {
			break
		}
		page = paging.Page + 1
	}

	return files, nil
}
