package slack_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	slackSvc "github.com/secmon-lab/panoptes/pkg/service/slack"
)

func newStubAPI(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		switch {
		case strings.HasSuffix(r.URL.Path, "users.list"):
			fmt.Fprint(w, `{
				"ok": true,
				"members": [
					{"id": "U1", "name": "alice", "is_admin": true, "updated": 1700000000,
					 "profile": {"real_name": "Alice", "email": "alice@example.com", "title": "Engineer"}},
					{"id": "U2", "name": "deactivated", "deleted": true},
					{"id": "U3", "name": "helper-bot", "is_bot": true}
				],
				"response_metadata": {"next_cursor": ""}
			}`)

		case strings.HasSuffix(r.URL.Path, "conversations.list"):
			gt.NoError(t, r.ParseForm())
			if r.Form.Get("cursor") == "" {
				fmt.Fprint(w, `{
					"ok": true,
					"channels": [
						{"id": "C1", "name": "general", "num_members": 42,
						 "topic": {"value": "Company wide"}, "purpose": {"value": "Everything"}}
					],
					"response_metadata": {"next_cursor": "page2"}
				}`)
			} else {
				fmt.Fprint(w, `{
					"ok": true,
					"channels": [
						{"id": "C2", "name": "old-project", "is_archived": true},
						{"id": "C3", "name": "partners", "is_ext_shared": true}
					],
					"response_metadata": {"next_cursor": ""}
				}`)
			}

		case strings.HasSuffix(r.URL.Path, "files.list"):
			fmt.Fprint(w, `{
				"ok": true,
				"files": [
					{"id": "F1", "name": "report.pdf", "size": 2048},
					{"id": "F2", "name": "logo.png", "size": 512}
				],
				"paging": {"count": 100, "total": 2, "page": 1, "pages": 1}
			}`)

		default:
			t.Errorf("unexpected API call: %s", r.URL.Path)
			fmt.Fprint(w, `{"ok": false, "error": "unknown_method"}`)
		}
	}))
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := slackSvc.New("")
	gt.Value(t, err).NotNil()
}

func TestClientCollect(t *testing.T) {
	srv := newStubAPI(t)
	defer srv.Close()

	client := gt.R1(slackSvc.New("xoxb-test", slackSvc.WithAPIURL(srv.URL+"/api/"))).NoError(t)
	snapshot := gt.R1(client.Collect(context.Background())).NoError(t)

	gt.Array(t, snapshot.Users).Length(3)
	gt.Value(t, snapshot.Users[0].ID).Equal("U1")
	gt.Value(t, snapshot.Users[0].IsAdmin).Equal(true)
	gt.Value(t, snapshot.Users[0].Updated).Equal(int64(1700000000))
	gt.Value(t, snapshot.Users[0].Profile.RealName).Equal("Alice")
	gt.Value(t, snapshot.Users[1].Deleted).Equal(true)
	gt.Value(t, snapshot.Users[2].IsBot).Equal(true)

	// Cursor pagination stitches both channel pages together
	gt.Array(t, snapshot.Channels).Length(3)
	gt.Value(t, snapshot.Channels[0].Topic).Equal("Company wide")
	gt.Value(t, snapshot.Channels[1].IsArchived).Equal(true)
	gt.Value(t, snapshot.Channels[2].IsExtShared).Equal(true)

	gt.Array(t, snapshot.Files).Length(2)
	gt.Value(t, snapshot.Files[0].Size).Equal(int64(2048))
}
