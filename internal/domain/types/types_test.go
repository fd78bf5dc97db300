package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/scoutops/internal/domain/picklist"
	types "github.com/okian/scoutops/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewPicklist(t *testing.T) {
	Convey("Given a group with two lists and a struck team", t, func() {
		g, err := picklist.Rehydrate(picklist.Persisted{
			Lists: []picklist.PersistedList{
				{Name: "first", Teams: []int{254, 1678}},
				{Name: "second", Teams: []int{}},
			},
			Struck: []int{1678},
		}, nil, nil)
		So(err, ShouldBeNil)

		view := types.NewPicklist("2026casj", 4, g)

		Convey("Then the view mirrors list order and membership", func() {
			So(view.Key, ShouldEqual, "2026casj")
			So(view.Revision, ShouldEqual, 4)
			So(len(view.Lists), ShouldEqual, 2)
			So(view.Lists[0].Entries[1].Team, ShouldEqual, 1678)
			So(view.Lists[0].Entries[1].List, ShouldEqual, "first")
			So(view.Lists[1].Index, ShouldEqual, 1)
			So(view.Lists[1].Entries, ShouldBeEmpty)
			So(view.Struck, ShouldResemble, []int{1678})
		})

		Convey("Then entries serialize with ids but without arena refs", func() {
			raw, err := json.Marshal(view.Lists[0].Entries[0])
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"team":254`)
			So(string(raw), ShouldContainSubstring, `"id":"`)
			So(string(raw), ShouldNotContainSubstring, "Ref")
		})
	})
}
