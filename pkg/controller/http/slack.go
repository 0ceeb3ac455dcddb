package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/usecase"
	"github.com/secmon-lab/modcase/pkg/utils/async"
	"github.com/secmon-lab/modcase/pkg/utils/errutil"
	"github.com/secmon-lab/modcase/pkg/utils/logging"
	"github.com/secmon-lab/modcase/pkg/utils/safe"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// verifySlackSignature verifies the Slack request signature
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	// Reject requests older than 5 minutes to prevent replay
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	now := time.Now().Unix()
	if now-ts > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware rejects requests that do not carry a valid Slack signature.
// The verified body is restored for the next handler.
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer safe.Close(ctx, r.Body)

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewBuffer(body))
			next.ServeHTTP(w, r)
		})
	}
}

// SlackCommandHandler serves slash commands. Commands are acknowledged at once and
// executed in the background; results are posted to the invoking channel.
type SlackCommandHandler struct {
	caseUC CaseUseCase
}

func NewSlackCommandHandler(caseUC CaseUseCase) *SlackCommandHandler {
	return &SlackCommandHandler{caseUC: caseUC}
}

type slashResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

func (h *SlackCommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sc, err := slack.SlashCommandParse(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}

	logger := logging.From(ctx).With("team_id", sc.TeamID, "channel_id", sc.ChannelID, "user_id", sc.UserID)
	ctx = logging.With(ctx, logger)

	cmd, err := parseCommand(sc.Text)
	var run runner
	if err == nil {
		run, err = bindCommand(cmd)
	}
	if err != nil {
		// Malformed commands are answered privately in the acknowledgement itself
		logger.Info("rejected slash command", "text", sc.Text, "error", err.Error())
		writeSlashResponse(ctx, w, commandUsage)
		return
	}

	inv := usecase.Invocation{
		GuildID:   sc.TeamID,
		ChannelID: sc.ChannelID,
		ActorID:   sc.UserID,
	}

	w.WriteHeader(http.StatusOK)

	async.Dispatch(ctx, func(ctx context.Context) error {
		logging.From(ctx).Info("processing slash command", "command", cmd.name)
		if err := run(ctx, h.caseUC, inv); err != nil {
			h.caseUC.ReportError(ctx, inv, err)
		}
		return nil
	})
}

func writeSlashResponse(ctx context.Context, w http.ResponseWriter, text string) {
	data, err := json.Marshal(slashResponse{ResponseType: "ephemeral", Text: text})
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal slash command response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(ctx, w, data)
}

// SlackEventHandler answers the Events API URL verification. Other events are acknowledged and ignored.
type SlackEventHandler struct{}

func NewSlackEventHandler() *SlackEventHandler {
	return &SlackEventHandler{}
}

func (h *SlackEventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slack event"), http.StatusBadRequest)
		return
	}

	switch eventsAPIEvent.Type {
	case slackevents.URLVerification:
		var challenge *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to unmarshal challenge"), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		safe.Write(ctx, w, []byte(challenge.Challenge))

	default:
		logging.From(ctx).Debug("ignored slack event", "type", eventsAPIEvent.Type)
		w.WriteHeader(http.StatusOK)
	}
}
