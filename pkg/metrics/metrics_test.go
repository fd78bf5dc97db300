package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithConstLabels(map[string]string{"event": "2026casj"}),
			WithPrometheusRegistry(registry),
		)

		Convey("Then metrics are registered under the namespace", func() {
			m.schedulesGenerated.Inc()
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			names := map[string]bool{}
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["test_unit_schedules_generated_total"], ShouldBeTrue)
		})

		Convey("Then const labels are attached", func() {
			m.persistWritten.Inc()
			So(testutil.ToFloat64(m.persistWritten), ShouldEqual, 1)
			n, err := testutil.GatherAndCount(registry, "test_unit_persist_written_total")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})

		Convey("Then a second manager on the same registry panics on duplicate registration", func() {
			So(func() { NewManager(WithNamespace("test"), WithSubsystem("unit"), WithPrometheusRegistry(registry)) }, ShouldPanic)
		})
	})
}

func TestRecorders(t *testing.T) {
	Convey("Given the global recorders", t, func() {
		Convey("Schedule metrics accumulate", func() {
			before := testutil.ToFloat64(globalManager.matchesScheduled)
			RecordSchedule(8, 1, 0, 0.2)
			So(testutil.ToFloat64(globalManager.matchesScheduled)-before, ShouldEqual, 8)
		})

		Convey("Persist writes split by outcome", func() {
			ok := testutil.ToFloat64(globalManager.persistWritten)
			bad := testutil.ToFloat64(globalManager.persistErrors)
			RecordPersistWrite(1, nil)
			RecordPersistWrite(1, errors.New("boom"))
			So(testutil.ToFloat64(globalManager.persistWritten)-ok, ShouldEqual, 1)
			So(testutil.ToFloat64(globalManager.persistErrors)-bad, ShouldEqual, 1)
		})

		Convey("The remaining recorders do not panic", func() {
			So(func() {
				RecordPicklistMutation("move", 0.1)
				RecordPicklistMutationError("move", "invalid_ref")
				RecordDuplicateRequest()
				UpdateGroupsLoaded(2)
				UpdateGroupsStored(2)
				UpdatePersistQueueSize(3)
				UpdatePersistQueueCapacity(10)
				RecordPersistEnqueue()
				RecordPersistEnqueueError("full")
				UpdatePersistWorkers(4)
				RecordHTTPRequest("schedule", "POST", "200", 1.5)
				RecordHTTPError("schedule", "POST", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
