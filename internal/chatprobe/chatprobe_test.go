package chatprobe_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/crickdash/internal/adapters/http/api"
	service "github.com/okian/crickdash/internal/app"
	"github.com/okian/crickdash/internal/chatprobe"
	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newDashboard(replier conversation.Replier) (*httptest.Server, *service.Service) {
	svc := service.New(
		service.WithReplier(replier),
		service.WithWorkerCount(2),
		service.WithFallbackMessage(chatprobe.DefaultFallbackMessage),
	)
	So(svc.Start(context.Background()), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 50).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func TestRun(t *testing.T) {
	Convey("Given a dashboard with a working reply service", t, func() {
		srv, svc := newDashboard(conversation.ReplierFunc(func(_ context.Context, req conversation.Request) (string, error) {
			return "About " + req.PlayerName + ": " + req.Messages[len(req.Messages)-1].Content, nil
		}))
		defer srv.Close()
		defer svc.Stop()

		Convey("When the probe runs against another player", func() {
			stats, err := chatprobe.Run(context.Background(), &chatprobe.Config{
				BaseURL:   srv.URL,
				PlayerID:  "joe-root",
				Questions: []string{"Best innings?", "Weakness?"},
				Timeout:   5 * time.Second,
				Poll:      5 * time.Millisecond,
			})

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				So(stats.TurnsSent, ShouldEqual, 2)
				So(stats.RepliesReceived, ShouldEqual, 2)
				So(stats.Duplicates, ShouldEqual, 2)
				So(stats.Fallbacks, ShouldEqual, 0)
				So(stats.Checks, ShouldBeGreaterThan, 0)
			})

			Convey("And the dashboard holds the conversation", func() {
				snap := svc.Chat(context.Background())
				So(snap.PlayerID, ShouldEqual, "joe-root")
				So(snap.Transcript, ShouldHaveLength, 4)
				So(snap.Transcript[3].Content, ShouldEqual, "About Joe Root: Weakness?")
			})
		})

		Convey("When the probe asks for an unknown player", func() {
			_, err := chatprobe.Run(context.Background(), &chatprobe.Config{
				BaseURL:  srv.URL,
				PlayerID: "ghost",
				Timeout:  5 * time.Second,
			})

			Convey("Then it fails a check", func() {
				So(errors.Is(err, chatprobe.ErrCheckFailed), ShouldBeTrue)
			})
		})
	})

	Convey("Given a dashboard whose reply service fails", t, func() {
		srv, svc := newDashboard(conversation.ReplierFunc(func(context.Context, conversation.Request) (string, error) {
			return "", errors.New("connection refused")
		}))
		defer srv.Close()
		defer svc.Stop()

		Convey("When the probe runs", func() {
			stats, err := chatprobe.Run(context.Background(), &chatprobe.Config{
				BaseURL:   srv.URL,
				PlayerID:  "virat-kohli",
				Questions: []string{"Anything?"},
				Timeout:   5 * time.Second,
				Poll:      5 * time.Millisecond,
			})

			Convey("Then the fallback reply still completes the exchange", func() {
				So(err, ShouldBeNil)
				So(stats.Fallbacks, ShouldEqual, 1)
			})
		})
	})

	Convey("Given no dashboard", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := chatprobe.Run(context.Background(), &chatprobe.Config{
				BaseURL:  srv.URL,
				PlayerID: "virat-kohli",
				Timeout:  time.Second,
			})
			So(errors.Is(err, chatprobe.ErrUnhealthy), ShouldBeTrue)
		})
	})
}
