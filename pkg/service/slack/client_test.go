package slack_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/secmon-lab/segmentor/pkg/service/slack"
	slackgo "github.com/slack-go/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("", "C123")
		gt.Value(t, err).NotNil()
	})

	t.Run("returns error when channel is empty", func(t *testing.T) {
		_, err := slack.New("xoxb-test", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token and channel are provided", func(t *testing.T) {
		svc, err := slack.New("xoxb-test", "C123")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func TestNewWebhook(t *testing.T) {
	_, err := slack.NewWebhook("https://hooks.slack.com/services/T000/B000/XXX")
	gt.NoError(t, err)

	_, err = slack.NewWebhook("http://hooks.slack.com/services/T000/B000/XXX")
	gt.Value(t, err).NotNil()

	_, err = slack.NewWebhook("")
	gt.Value(t, err).NotNil()
}

func TestBotClient_PostMessage(t *testing.T) {
	var gotChannel, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm())
		gotChannel = r.Form.Get("channel")
		gotText = r.Form.Get("text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1700000000.000100"}`))
	}))
	defer srv.Close()

	svc, err := slack.New("xoxb-test", "C123", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	n := model.DefaultNotificationPolicy().Build("VIP Users", nil, time.Now())
	gt.NoError(t, slack.NewNotifier(svc).Notify(context.Background(), n)).Required()

	gt.Value(t, gotChannel).Equal("C123")
	gt.String(t, gotText).Contains(model.DefaultSuccessMessage)
}

func TestWebhookClient_PostMessage(t *testing.T) {
	if os.Getenv("TEST_SLACK_WEBHOOK_URL") == "" {
		t.Skip("TEST_SLACK_WEBHOOK_URL is not set")
	}

	svc, err := slack.NewWebhook(os.Getenv("TEST_SLACK_WEBHOOK_URL"))
	gt.NoError(t, err).Required()

	n := model.DefaultNotificationPolicy().Build("segmentor integration test", nil, time.Now())
	gt.NoError(t, slack.NewNotifier(svc).Notify(context.Background(), n))
}

type recordingService struct {
	blocks []slackgo.Block
	text   string
	err    error
}

func (s *recordingService) PostMessage(ctx context.Context, blocks []slackgo.Block, text string) error {
	s.blocks = blocks
	s.text = text
	return s.err
}

func TestNotifier_Notify(t *testing.T) {
	now := time.Now()
	policy := model.DefaultNotificationPolicy()

	t.Run("success notification", func(t *testing.T) {
		svc := &recordingService{}
		n := policy.Build("VIP Users", nil, now)

		gt.NoError(t, slack.NewNotifier(svc).Notify(context.Background(), n)).Required()
		gt.String(t, svc.text).Contains(":white_check_mark:")
		gt.Array(t, svc.blocks).Length(2)
	})

	t.Run("failure notification carries the cause", func(t *testing.T) {
		svc := &recordingService{}
		n := policy.Build("VIP Users", errors.New("503 from endpoint"), now)
		gt.Value(t, n.Severity).Equal(types.SeverityError)

		gt.NoError(t, slack.NewNotifier(svc).Notify(context.Background(), n)).Required()
		gt.String(t, svc.text).Contains(":x:")
		gt.Array(t, svc.blocks).Length(3)

		data, err := json.Marshal(svc.blocks)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains("503 from endpoint")
	})

	t.Run("service error is returned", func(t *testing.T) {
		svc := &recordingService{err: errors.New("rate limited")}
		err := slack.NewNotifier(svc).Notify(context.Background(), policy.Build("x", nil, now))
		gt.Value(t, err).NotNil()
	})
}

func TestBuildNotificationBlocks(t *testing.T) {
	n := model.DefaultNotificationPolicy().Build("Locals", nil, time.Now())
	blocks, text := slack.BuildNotificationBlocks(n)

	gt.Value(t, text).Equal(":white_check_mark: " + model.DefaultSuccessMessage)
	data, err := json.Marshal(blocks)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("Locals")
}
