package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/scoutops/internal/adapters/repository"
	service "github.com/okian/scoutops/internal/app"
	"github.com/okian/scoutops/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service writing into a shared store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc, _ := startService(service.WithStore(store), service.WithPersistWorkers(4))
		const key = "2026txhou"

		_, err := svc.AddList(ctx, key, types.AddListRequest{Name: "first"})
		So(err, ShouldBeNil)
		_, err = svc.AddList(ctx, key, types.AddListRequest{Name: "second"})
		So(err, ShouldBeNil)
		var ids []string
		for _, team := range []int{118, 148, 2468, 3310} {
			_, e, err := svc.AddEntry(ctx, key, types.AddEntryRequest{List: "first", Team: team})
			So(err, ShouldBeNil)
			ids = append(ids, e.ID)
		}
		_, err = svc.MoveEntry(ctx, key, types.MoveRequest{Entry: ids[3], List: "second"})
		So(err, ShouldBeNil)
		_, err = svc.SetStruck(ctx, key, types.StruckRequest{Team: 148, Struck: true})
		So(err, ShouldBeNil)
		before, err := svc.Export(ctx, key)
		So(err, ShouldBeNil)

		Convey("When the service stops the store holds the last revision", func() {
			svc.Stop()

			rec, err := store.Load(ctx, key)
			So(err, ShouldBeNil)
			So(rec.Revision, ShouldEqual, 8)
			So(cmp.Diff(before, rec.Picklist), ShouldBeEmpty)

			Convey("And a fresh service rehydrates the same group", func() {
				next, _ := startService(service.WithStore(store))
				defer next.Stop()

				view, err := next.Picklist(ctx, key)
				So(err, ShouldBeNil)
				So(view.Revision, ShouldEqual, 8)
				So(teams(view.Lists[0]), ShouldResemble, []int{118, 148, 2468})
				So(view.Lists[1].Entries[0].ID, ShouldEqual, ids[3])
				So(view.Struck, ShouldResemble, []int{148})

				Convey("And keeps persisting from that revision", func() {
					_, err := next.MoveEntry(ctx, key, types.MoveRequest{Entry: ids[0], After: ids[2]})
					So(err, ShouldBeNil)
					next.Stop()

					rec, err := store.Load(ctx, key)
					So(err, ShouldBeNil)
					So(rec.Revision, ShouldEqual, 9)
					So(rec.Picklist.Lists[0].Teams, ShouldResemble, []int{148, 2468, 118})
				})
			})
		})

		Convey("When an entry is removed the move is refused before and after a restart", func() {
			_, err := svc.RemoveEntry(ctx, key, "", ids[1])
			So(err, ShouldBeNil)
			move := types.MoveRequest{Entry: ids[1], After: ids[0]}

			_, err = svc.MoveEntry(ctx, key, move)
			So(errors.Is(err, service.ErrEntryNotFound), ShouldBeTrue)
			svc.Stop()

			next, _ := startService(service.WithStore(store))
			defer next.Stop()
			_, err = next.MoveEntry(ctx, key, move)
			So(errors.Is(err, service.ErrEntryNotFound), ShouldBeTrue)

			view, err := next.Picklist(ctx, key)
			So(err, ShouldBeNil)
			So(view.Revision, ShouldEqual, 9)
			So(teams(view.Lists[0]), ShouldResemble, []int{118, 2468})
		})

		Reset(func() { svc.Stop() })
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given many writers on one group", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc, _ := startService(service.WithStore(store), service.WithQueueSize(1), service.WithPersistWorkers(1))
		const key = "2026mimil"

		_, err := svc.AddList(ctx, key, types.AddListRequest{Name: "first"})
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		errs := make(chan error, 200)
		for w := 0; w < 10; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					_, _, err := svc.AddEntry(ctx, key, types.AddEntryRequest{
						RequestID: fmt.Sprintf("w%d-%d", w, i),
						List:      "first",
						Team:      w*100 + i + 1,
					})
					if err != nil {
						errs <- err
					}
				}
			}(w)
		}
		wg.Wait()
		close(errs)
		So(len(errs), ShouldEqual, 0)

		Convey("Every mutation lands and a saturated queue still ends in the store", func() {
			view, err := svc.Picklist(ctx, key)
			So(err, ShouldBeNil)
			So(view.Revision, ShouldEqual, 201)
			So(len(view.Lists[0].Entries), ShouldEqual, 200)

			svc.Stop()
			rec, err := store.Load(ctx, key)
			So(err, ShouldBeNil)
			So(rec.Revision, ShouldEqual, 201)
			So(len(rec.Picklist.Lists[0].Teams), ShouldEqual, 200)
		})

		Reset(func() { svc.Stop() })
	})
}
