package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/crickdash/internal/adapters/catalog"
	"github.com/okian/crickdash/internal/domain/player"
	"github.com/okian/crickdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

const twoPlayers = `
players:
  - id: a
    name: Alpha
    country: India
    role: batsman
    total_runs: 500
    total_centuries: 2
    performance_trend:
      - {year: 2022, runs: 200, average: 40, strike_rate: 88.5}
      - {year: 2023, runs: 300, average: 50.5, strike_rate: 90}
  - id: b
    name: Beta
    country: England
    role: Bowler
    total_runs: 50
    total_centuries: 0
`

const threePlayers = twoPlayers + `
  - id: c
    name: Gamma
    country: Australia
    role: All-rounder
    total_runs: 700
    total_centuries: 4
`

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "players.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	Convey("Given a catalog file", t, func() {
		path := writeFile(t, t.TempDir(), twoPlayers)

		Convey("When it is loaded", func() {
			c, err := catalog.LoadFile(path)
			So(err, ShouldBeNil)

			Convey("Then records keep file order and decoded fields", func() {
				all := c.ListAll()
				So(all, ShouldHaveLength, 2)
				So(all[0].Role, ShouldEqual, player.RoleBatsman)
				So(all[0].PerformanceTrend, ShouldResemble, []player.TrendPoint{
					{Year: 2022, Runs: 200, Average: 40, StrikeRate: 88.5},
					{Year: 2023, Runs: 300, Average: 50.5, StrikeRate: 90},
				})
				So(all[1].PerformanceTrend, ShouldBeEmpty)
			})
		})
	})

	Convey("Given invalid catalog files", t, func() {
		dir := t.TempDir()

		Convey("A missing file fails", func() {
			_, err := catalog.LoadFile(filepath.Join(dir, "nope.yaml"))
			So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
		})

		Convey("An unknown role fails", func() {
			path := writeFile(t, dir, "players:\n  - {id: x, name: X, role: Umpire}\n")
			_, err := catalog.LoadFile(path)
			So(errors.Is(err, player.ErrUnknownRole), ShouldBeTrue)
		})

		Convey("A duplicate id fails", func() {
			path := writeFile(t, dir, "players:\n  - {id: x, name: X, role: Batsman}\n  - {id: x, name: Y, role: Batsman}\n")
			_, err := catalog.LoadFile(path)
			So(errors.Is(err, player.ErrDuplicateID), ShouldBeTrue)
		})
	})
}

func TestStoreReload(t *testing.T) {
	Convey("Given a store opened from a file", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := writeFile(t, dir, twoPlayers)
		s, err := catalog.Open(path)
		So(err, ShouldBeNil)
		So(s.Catalog().Len(), ShouldEqual, 2)

		var notified atomic.Int32
		s.OnReload(func(*player.Catalog) { notified.Add(1) })

		Convey("When the file grows and is reloaded", func() {
			writeFile(t, dir, threePlayers)
			So(s.Reload(ctx), ShouldBeNil)

			Convey("Then the new snapshot is served and listeners run", func() {
				So(s.Catalog().Len(), ShouldEqual, 3)
				So(notified.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the file becomes invalid", func() {
			writeFile(t, dir, "players: [")
			err := s.Reload(ctx)

			Convey("Then the previous snapshot is kept", func() {
				So(err, ShouldNotBeNil)
				So(s.Catalog().Len(), ShouldEqual, 2)
				So(notified.Load(), ShouldEqual, 0)
			})
		})

		Convey("When the file is watched and rewritten", func() {
			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			So(s.Watch(wctx), ShouldBeNil)
			writeFile(t, dir, threePlayers)

			Convey("Then the store picks up the change", func() {
				deadline := time.Now().Add(3 * time.Second)
				for s.Catalog().Len() != 3 && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				So(s.Catalog().Len(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a store without a file", t, func() {
		s := catalog.NewStore(player.Default(), "")

		Convey("Then reload and watch are no-ops", func() {
			So(s.Reload(context.Background()), ShouldBeNil)
			So(s.Watch(context.Background()), ShouldBeNil)
			So(s.Catalog().Len(), ShouldEqual, 10)
		})
	})
}
