package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/service/slack"
)

// fakeSlack serves the few Web API methods the client calls
type fakeSlack struct {
	mu        sync.Mutex
	userCalls int
	posted    []map[string]string
}

func (f *fakeSlack) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/auth.test", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true, "url": "https://example.slack.com/", "team_id": "T001"})
	})
	mux.HandleFunc("/users.info", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.userCalls++
		f.mu.Unlock()

		if r.Form.Get("user") != "U100" {
			writeJSON(w, map[string]any{"ok": false, "error": "user_not_found"})
			return
		}
		writeJSON(w, map[string]any{"ok": true, "user": map[string]any{
			"id":        "U100",
			"name":      "spam",
			"real_name": "Spam Mer",
			"profile":   map[string]any{"display_name": "spammer"},
		}})
	})
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form := map[string]string{}
		for k := range r.Form {
			form[k] = r.Form.Get(k)
		}
		f.mu.Lock()
		f.posted = append(f.posted, form)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"ok": true, "channel": form["channel"], "ts": "1700000000.000100"})
	})
	return mux
}

func newTestClient(t *testing.T) (*slack.Client, *fakeSlack) {
	t.Helper()
	fake := &fakeSlack{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := slack.New("xoxb-test", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()
	return client, fake
}

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token is provided", func(t *testing.T) {
		svc, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func TestClient_ResolveUser(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)

	user, err := client.ResolveUser(ctx, "U100")
	gt.NoError(t, err).Required()
	gt.Value(t, user.DisplayName).Equal("spammer")
	gt.Bool(t, user.Unknown).False()

	// cached
	_, err = client.ResolveUser(ctx, "U100")
	gt.NoError(t, err).Required()
	gt.Value(t, fake.userCalls).Equal(1)

	unknown, err := client.ResolveUser(ctx, "U404")
	gt.NoError(t, err).Required()
	gt.Bool(t, unknown.Unknown).True()
	gt.Value(t, unknown.DisplayName).Equal("Unknown#0000")
}

func TestClient_Send(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)

	receipt, err := client.Send(ctx, "C001", &model.Message{
		Content: "Case `#1` created for **spammer**",
		Embeds: []*model.Embed{{
			Title: "BAN - Case #1",
			Color: 0xcc0000,
			Fields: []*model.EmbedField{
				{Name: "User", Value: "spammer", Inline: true},
			},
			Footer: "Case created on Mar 5, 2024",
		}},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, receipt.ChannelID).Equal("C001")
	gt.Value(t, receipt.MessageID).Equal("1700000000.000100")

	gt.Array(t, fake.posted).Length(1)
	gt.Value(t, fake.posted[0]["text"]).Equal("Case `#1` created for *spammer*")

	var attachments []map[string]any
	gt.NoError(t, json.Unmarshal([]byte(fake.posted[0]["attachments"]), &attachments)).Required()
	gt.Array(t, attachments).Length(1)
	gt.Value(t, attachments[0]["color"]).Equal("#cc0000")
	gt.Value(t, attachments[0]["title"]).Equal("BAN - Case #1")

	// the workspace URL learned while sending is used for links
	gt.Value(t, client.MessageLink("T001", "C001", receipt.MessageID)).
		Equal("https://example.slack.com/archives/C001/p1700000000000100")
}

func TestClient_Markup(t *testing.T) {
	client, err := slack.New("xoxb-test")
	gt.NoError(t, err).Required()

	gt.Value(t, client.Mention("U100")).Equal("<@U100>")
	gt.Value(t, client.FormatLink("label", "https://example.com")).Equal("<https://example.com|label>")
	gt.Value(t, client.MessageLink("T001", "C001", "1700000000.000100")).
		Equal("https://slack.com/archives/C001/p1700000000000100")

	configured, err := slack.New("xoxb-test", slack.WithTeamURL("https://corp.slack.com"))
	gt.NoError(t, err).Required()
	gt.Value(t, configured.MessageLink("T001", "C001", "1.2")).Equal("https://corp.slack.com/archives/C001/p12")
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	if token == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN is not set")
	}
	userID := os.Getenv("TEST_SLACK_USER_ID")
	if userID == "" {
		t.Skip("TEST_SLACK_USER_ID is not set")
	}

	client, err := slack.New(token)
	gt.NoError(t, err).Required()

	user, err := client.ResolveUser(context.Background(), userID)
	gt.NoError(t, err).Required()
	gt.String(t, user.DisplayName).NotEqual("")
	t.Logf("Resolved user: %s (%s)", user.DisplayName, user.ID)
}
