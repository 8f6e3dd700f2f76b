package stats_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wenhuang/taxi-insights-go/internal/stats"
)

func TestDescriptive(t *testing.T) {
	Convey("Given a set of values", t, func() {
		values := []float64{4, 1, 3, 2}

		Convey("Mean averages them", func() {
			So(stats.Mean(values), ShouldAlmostEqual, 2.5, 1e-9)
		})

		Convey("Median of an even-length slice averages the middle pair", func() {
			So(stats.Median(values), ShouldAlmostEqual, 2.5, 1e-9)
		})

		Convey("Median of an odd-length slice takes the middle element", func() {
			So(stats.Median([]float64{9, 1, 5}), ShouldEqual, 5)
		})

		Convey("Median does not reorder the input", func() {
			stats.Median(values)
			So(values, ShouldResemble, []float64{4, 1, 3, 2})
		})

		Convey("Min and Max find the extremes", func() {
			So(stats.Min(values), ShouldEqual, 1)
			So(stats.Max(values), ShouldEqual, 4)
		})

		Convey("Sum adds them up", func() {
			So(stats.Sum(values), ShouldEqual, 10)
		})
	})

	Convey("Given empty input", t, func() {
		Convey("Every function returns zero", func() {
			So(stats.Mean(nil), ShouldEqual, 0)
			So(stats.Median(nil), ShouldEqual, 0)
			So(stats.Min(nil), ShouldEqual, 0)
			So(stats.Max(nil), ShouldEqual, 0)
			So(stats.Sum(nil), ShouldEqual, 0)
		})
	})
}
