package score_test

import (
	"math"
	"math/rand"
	"testing"

	score "github.com/Telakshan/LeaderBoardUsingCaching/internal/domain/score"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantize(t *testing.T) {
	Convey("Given the quantization policy", t, func() {
		Convey("When quantizing common values", func() {
			So(score.Quantize(1.23456), ShouldEqual, 1.2346)
			So(score.Quantize(1.23444), ShouldEqual, 1.2344)
			So(score.Quantize(0), ShouldEqual, 0)
			So(score.Quantize(-2.00005), ShouldEqual, -2.0001)
		})

		Convey("When converting through the scaled-integer form", func() {
			Convey("Then every quantized value round-trips exactly", func() {
				for _, s := range []float64{0, 1, 99.9999, 1234.5678, -42.5, 7e8} {
					q := score.Quantize(s)
					So(score.FromScaled(score.ToScaled(q)), ShouldEqual, q)
				}
			})
		})

		Convey("When scores stay below MaxExact", func() {
			rng := rand.New(rand.NewSource(1))

			Convey("Then quantization is idempotent and round-trips exactly", func() {
				for i := 0; i < 10_000; i++ {
					s := (rng.Float64()*2 - 1) * score.MaxExact
					q := score.Quantize(s)
					So(score.Quantize(q), ShouldEqual, q)
					So(score.FromScaled(score.ToScaled(q)), ShouldEqual, q)
					So(math.Abs(q-s), ShouldBeLessThanOrEqualTo, 0.5/score.Scale)
				}
			})
		})

		Convey("When scores exceed MaxExact", func() {
			Convey("Then the scaled form leaves float64's exact integer range", func() {
				beyond := score.MaxExact * 4
				scaled := beyond * score.Scale
				// The next representable float64 is more than 1 apart, so
				// distinct quantized scores can collapse to the same value.
				So(math.Nextafter(scaled, math.Inf(1))-scaled, ShouldBeGreaterThan, 1)
			})
		})
	})
}
