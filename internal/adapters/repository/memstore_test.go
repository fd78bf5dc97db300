package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/scoutops/internal/domain/picklist"
	. "github.com/smartystreets/goconvey/convey"
)

func sample(teams ...int) picklist.Persisted {
	return picklist.Persisted{
		Lists:  []picklist.PersistedList{{Name: "first", Teams: teams}},
		Struck: []int{},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	Convey("Given an empty store", t, func() {
		s := NewMemoryStore(WithClock(func() time.Time { return fixed }))
		So(s.Count(ctx), ShouldEqual, 0)

		Convey("Loading an unknown key fails with ErrNotFound", func() {
			_, err := s.Load(ctx, "2026casj")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("A blank key is rejected", func() {
			_, err := s.SaveIfNewer(ctx, " ", 1, sample(1))
			So(errors.Is(err, ErrInvalidKey), ShouldBeTrue)
		})

		Convey("When a revision is saved", func() {
			ok, err := s.SaveIfNewer(ctx, "2026casj", 2, sample(254, 1678))
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			Convey("Then it loads back unchanged", func() {
				rec, err := s.Load(ctx, "2026casj")
				So(err, ShouldBeNil)
				So(rec.Revision, ShouldEqual, 2)
				So(rec.SavedAt, ShouldEqual, fixed)
				So(cmp.Diff(sample(254, 1678), rec.Picklist), ShouldBeEmpty)
			})

			Convey("Then older and equal revisions are ignored", func() {
				for _, rev := range []int64{1, 2} {
					ok, err := s.SaveIfNewer(ctx, "2026casj", rev, sample(9))
					So(err, ShouldBeNil)
					So(ok, ShouldBeFalse)
				}
				rec, _ := s.Load(ctx, "2026casj")
				So(rec.Picklist.Lists[0].Teams, ShouldResemble, []int{254, 1678})
			})

			Convey("Then a newer revision replaces it", func() {
				ok, err := s.SaveIfNewer(ctx, "2026casj", 3, sample(971))
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				rec, _ := s.Load(ctx, "2026casj")
				So(rec.Picklist.Lists[0].Teams, ShouldResemble, []int{971})
			})

			Convey("Then callers cannot mutate stored slices", func() {
				rec, _ := s.Load(ctx, "2026casj")
				rec.Picklist.Lists[0].Teams[0] = -1
				again, _ := s.Load(ctx, "2026casj")
				So(again.Picklist.Lists[0].Teams[0], ShouldEqual, 254)
			})

			Convey("Then keys and delete behave", func() {
				_, _ = s.SaveIfNewer(ctx, "2026azva", 1, sample())
				So(s.Keys(ctx), ShouldResemble, []string{"2026azva", "2026casj"})
				So(s.Delete(ctx, "2026casj"), ShouldBeNil)
				So(s.Delete(ctx, "missing"), ShouldBeNil)
				So(s.Count(ctx), ShouldEqual, 1)
			})
		})
	})

	Convey("Given concurrent writers with interleaved revisions", t, func() {
		s := NewMemoryStore()
		var wg sync.WaitGroup
		for rev := int64(1); rev <= 100; rev++ {
			wg.Add(1)
			go func(rev int64) {
				defer wg.Done()
				_, _ = s.SaveIfNewer(ctx, "k", rev, sample(int(rev)))
			}(rev)
		}
		wg.Wait()

		Convey("Then the highest revision wins", func() {
			rec, err := s.Load(ctx, "k")
			So(err, ShouldBeNil)
			So(rec.Revision, ShouldEqual, 100)
			So(rec.Picklist.Lists[0].Teams, ShouldResemble, []int{100})
		})
	})
}
