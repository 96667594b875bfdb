package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/okian/crickdash/internal/adapters/http/api"
	"github.com/okian/crickdash/internal/domain/comparison"
	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/internal/domain/dedupe"
	"github.com/okian/crickdash/internal/domain/player"
	"github.com/okian/crickdash/internal/domain/selection"
	"github.com/okian/crickdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// fakeDeps backs the handlers with real domain objects and records dispatches
// instead of running workers.
type fakeDeps struct {
	dedupe.Deduper
	catalog    *player.Catalog
	session    *conversation.Session
	controller *selection.Controller

	mu         sync.Mutex
	dispatched []conversation.Exchange
}

func newFakeDeps() *fakeDeps {
	catalog := player.Default()
	session := conversation.NewSession(conversation.ReplierFunc(func(context.Context, conversation.Request) (string, error) {
		return "ok", nil
	}), conversation.Player{ID: "virat-kohli", Name: "Virat Kohli"})
	return &fakeDeps{
		Deduper:    dedupe.NewInMemoryDeduper(),
		catalog:    catalog,
		session:    session,
		controller: selection.NewController(player.FixedSource{C: catalog}, session),
	}
}

func (f *fakeDeps) ListPlayers(_ context.Context, roles ...player.Role) []player.Record {
	if len(roles) == 0 {
		return f.catalog.ListAll()
	}
	return f.catalog.FilterByRole(roles...)
}

func (f *fakeDeps) Player(_ context.Context, id string) (player.Record, error) {
	return f.catalog.FindByID(id)
}

func (f *fakeDeps) Compare(_ context.Context, sel comparison.Selection) (api.ComparisonResult, error) {
	base, err := f.catalog.FindByID(sel.BaselinePlayerID)
	if err != nil {
		return api.ComparisonResult{}, err
	}
	rows, mode := comparison.ComputeRows(base, sel, f.catalog)
	return api.ComparisonResult{PlayerID: base.ID, ComparisonPlayerID: sel.ComparisonPlayerID, Mode: mode, Rows: rows}, nil
}

func (f *fakeDeps) Leaderboard(_ context.Context, n int) []comparison.Row {
	return comparison.TopN(f.catalog, n)
}

func (f *fakeDeps) View(context.Context) api.SelectionView {
	b := f.controller.Baseline()
	return api.SelectionView{PlayerID: b.ID, PlayerName: b.Name, View: f.controller.View()}
}

func (f *fakeDeps) SelectPlayer(ctx context.Context, id, name string) error {
	return f.controller.SelectPlayer(ctx, id, name)
}

func (f *fakeDeps) SetComparisonPlayer(ctx context.Context, id string) error {
	return f.controller.SetComparisonPlayer(ctx, id)
}

func (f *fakeDeps) Chat(context.Context) conversation.Snapshot { return f.session.Snapshot() }

func (f *fakeDeps) BeginExchange(ctx context.Context, content string) (conversation.Exchange, error) {
	return f.session.Begin(ctx, content)
}

func (f *fakeDeps) DispatchExchange(_ context.Context, ex conversation.Exchange) {
	f.mu.Lock()
	f.dispatched = append(f.dispatched, ex)
	f.mu.Unlock()
}

type staticStats map[string]any

func (s staticStats) GetStats() map[string]any { return s }

func newMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, staticStats{"players": 10}, 5).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func TestServiceRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newFakeDeps())

		Convey("Then /healthz serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then /stats returns the provider's stats", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]any](w)["players"], ShouldEqual, float64(10))
		})
	})
}

func TestPlayerRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newFakeDeps())

		Convey("When listing all players", func() {
			w := do(mux, http.MethodGet, "/players", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[[]player.Record](w), ShouldHaveLength, 10)
		})

		Convey("When filtering by role", func() {
			w := do(mux, http.MethodGet, "/players?role=bowler", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[[]player.Record](w), ShouldHaveLength, 2)
		})

		Convey("When filtering by an unknown role", func() {
			w := do(mux, http.MethodGet, "/players?role=umpire", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching one player", func() {
			w := do(mux, http.MethodGet, "/players/joe-root", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			rec := decode[player.Record](w)
			So(rec.Country, ShouldEqual, "England")
			So(rec.Role, ShouldEqual, player.RoleBatsman)
		})

		Convey("When fetching a trend", func() {
			w := do(mux, http.MethodGet, "/players/joe-root/trend", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[[]player.TrendPoint](w), ShouldHaveLength, 5)
		})

		Convey("When the player does not exist", func() {
			w := do(mux, http.MethodGet, "/players/ghost", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the sub-path is unknown", func() {
			w := do(mux, http.MethodGet, "/players/joe-root/history", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestComparisonRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newFakeDeps())

		Convey("When comparing two players", func() {
			w := do(mux, http.MethodGet, "/comparison?player=virat-kohli&compare=babar-azam", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			res := decode[api.ComparisonResult](w)
			So(res.Mode, ShouldEqual, comparison.ModeHeadToHead)
			So(res.Rows[0].Name, ShouldEqual, "Virat Kohli")
			So(res.Rows[1].Name, ShouldEqual, "Babar Azam")
		})

		Convey("When no comparison player is given", func() {
			w := do(mux, http.MethodGet, "/comparison?player=pat-cummins", "")
			res := decode[api.ComparisonResult](w)
			So(res.Mode, ShouldEqual, comparison.ModeTopN)
			So(res.Rows, ShouldHaveLength, 3)
		})

		Convey("When the baseline is missing or unknown", func() {
			So(do(mux, http.MethodGet, "/comparison", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/comparison?player=ghost", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When reading the leaderboard", func() {
			So(decode[[]comparison.Row](do(mux, http.MethodGet, "/leaderboard", "")), ShouldHaveLength, 3)
			So(decode[[]comparison.Row](do(mux, http.MethodGet, "/leaderboard?limit=5", "")), ShouldHaveLength, 5)
			So(do(mux, http.MethodGet, "/leaderboard?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/leaderboard?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)

			w := do(mux, http.MethodGet, "/leaderboard?limit=6", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "limit_exceeded")
		})

		Convey("When using the wrong method", func() {
			So(do(mux, http.MethodPost, "/leaderboard", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSelectionRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newFakeDeps()
		mux := newMux(deps)

		Convey("When reading the initial selection", func() {
			v := decode[api.SelectionView](do(mux, http.MethodGet, "/selection", ""))
			So(v.PlayerID, ShouldEqual, "virat-kohli")
			So(v.View.ComparisonPlayerID, ShouldEqual, comparison.Sentinel)
		})

		Convey("When a comparison is set and a new player is selected", func() {
			w := do(mux, http.MethodPost, "/selection/comparison", `{"player_id":"joe-root"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[api.SelectionView](w).View.ComparisonMode, ShouldEqual, comparison.ModeHeadToHead)

			w = do(mux, http.MethodPost, "/selection", `{"player_id":"steve-smith"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			v := decode[api.SelectionView](w)

			Convey("Then the comparison is reset to the sentinel", func() {
				So(v.PlayerName, ShouldEqual, "Steve Smith")
				So(v.View.ComparisonPlayerID, ShouldEqual, comparison.Sentinel)
				So(v.View.Settling, ShouldBeTrue)
			})
		})

		Convey("When the baseline is chosen as its own comparison", func() {
			w := do(mux, http.MethodPost, "/selection/comparison", `{"player_id":"virat-kohli"}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(deps.controller.Selection().ComparisonPlayerID, ShouldEqual, comparison.Sentinel)
		})

		Convey("When the body is invalid", func() {
			So(do(mux, http.MethodPost, "/selection", `{"player_id":`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/selection", `{"player_id":""}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/selection", `{"id":"x"}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

type messageResponse struct {
	Status     string                `json:"status"`
	Duplicate  bool                  `json:"duplicate"`
	ExchangeID string                `json:"exchange_id"`
	Chat       conversation.Snapshot `json:"chat"`
}

func TestChatRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newFakeDeps()
		mux := newMux(deps)

		Convey("When a message is posted", func() {
			w := do(mux, http.MethodPost, "/chat/messages", `{"content":"How many runs?","client_message_id":"m-1"}`)

			Convey("Then it is accepted and the session is pending", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				res := decode[messageResponse](w)
				So(res.Status, ShouldEqual, "accepted")
				So(res.ExchangeID, ShouldNotBeEmpty)
				So(res.Chat.Pending, ShouldBeTrue)
				So(res.Chat.Transcript, ShouldHaveLength, 1)
				So(deps.dispatched, ShouldHaveLength, 1)
			})

			Convey("Then the same client id is a duplicate", func() {
				w := do(mux, http.MethodPost, "/chat/messages", `{"content":"How many runs?","client_message_id":"m-1"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[messageResponse](w).Duplicate, ShouldBeTrue)
				So(deps.session.Transcript(), ShouldHaveLength, 1)
			})

			Convey("Then another message is rejected while in flight", func() {
				w := do(mux, http.MethodPost, "/chat/messages", `{"content":"and 2022?","client_message_id":"m-2"}`)
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(deps.session.Transcript(), ShouldHaveLength, 1)

				Convey("And the rejected id can be retried once idle", func() {
					ex := deps.dispatched[0]
					So(deps.session.Dispatch(context.Background(), ex), ShouldBeTrue)
					w := do(mux, http.MethodPost, "/chat/messages", `{"content":"and 2022?","client_message_id":"m-2"}`)
					So(w.Code, ShouldEqual, http.StatusAccepted)
				})
			})

			Convey("Then GET /chat shows the transcript", func() {
				snap := decode[conversation.Snapshot](do(mux, http.MethodGet, "/chat", ""))
				So(snap.PlayerID, ShouldEqual, "virat-kohli")
				So(snap.Transcript[0].Content, ShouldEqual, "How many runs?")
			})
		})

		Convey("When a blank message is posted", func() {
			w := do(mux, http.MethodPost, "/chat/messages", `{"content":"   "}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.session.Transcript(), ShouldBeEmpty)
			So(deps.dispatched, ShouldBeEmpty)
		})

		Convey("When the method is wrong", func() {
			So(do(mux, http.MethodGet, "/chat/messages", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/chat", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
