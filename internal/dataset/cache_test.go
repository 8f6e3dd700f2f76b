package dataset_test

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wenhuang/taxi-insights-go/internal/dataset"
	"github.com/wenhuang/taxi-insights-go/internal/models"
)

func TestCache(t *testing.T) {
	Convey("Given a fresh cache", t, func() {
		c := dataset.NewCache()

		Convey("It starts with an empty snapshot, never nil", func() {
			snap := c.Get()
			So(snap, ShouldNotBeNil)
			So(snap.Trips, ShouldBeEmpty)
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("Replace swaps in a new snapshot", func() {
			before := c.Get()
			c.Replace([]models.Trip{{ID: "a"}, {ID: "b"}})

			So(c.Len(), ShouldEqual, 2)
			So(c.Get(), ShouldNotEqual, before)
			So(c.Get().LoadedAt.Before(before.LoadedAt), ShouldBeFalse)
		})

		Convey("Replace with nil installs an empty slice", func() {
			c.Replace(nil)
			So(c.Get().Trips, ShouldNotBeNil)
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("An old snapshot stays valid after a reload", func() {
			c.Replace([]models.Trip{{ID: "a"}})
			old := c.Get()
			c.Replace([]models.Trip{{ID: "b"}, {ID: "c"}})

			So(len(old.Trips), ShouldEqual, 1)
			So(old.Trips[0].ID, ShouldEqual, "a")
			So(c.Len(), ShouldEqual, 2)
		})

		Convey("Concurrent readers and writers do not race", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						c.Replace([]models.Trip{{ID: "x"}})
					}
				}()
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						_ = c.Get().Trips
					}
				}()
			}
			wg.Wait()
			So(c.Len(), ShouldEqual, 1)
		})
	})
}
