package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/crickdash/internal/config"
	"github.com/okian/crickdash/internal/domain/assistant"
	"github.com/okian/crickdash/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func TestReplyHandler(t *testing.T) {
	convey.Convey("Given a reply service backed by a fake model", t, func() {
		var seen struct {
			Model    string              `json:"model"`
			Messages []assistant.Message `json:"messages"`
		}
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&seen)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A modern great."}}]}`))
		}))
		defer upstream.Close()

		cfg := config.New()
		cfg.LLMBaseURL = upstream.URL
		cfg.LLMAPIKey = "test-key"
		srv := httptest.NewServer(newHandler(cfg))
		defer srv.Close()

		convey.Convey("Then GET / reports the service is running", func() {
			resp, err := http.Get(srv.URL + "/")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then a chat request is answered by the model", func() {
			body := `{"messages":[{"role":"user","content":"Who is he?"}],"playerId":"joe-root","playerName":"Joe Root"}`
			resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			var out struct {
				Reply string `json:"reply"`
			}
			convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(out.Reply, convey.ShouldEqual, "A modern great.")
			convey.So(seen.Model, convey.ShouldEqual, cfg.LLMModel)
			convey.So(seen.Messages[0].Content, convey.ShouldContainSubstring, "Joe Root")
		})

		convey.Convey("Then a request without messages is rejected", func() {
			resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{"messages":[]}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}
