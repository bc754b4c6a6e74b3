// Package jobs provides scheduled background tasks for parceltrack.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules
// and are driven through JobManager:
//
//	manager := jobs.NewJobManager(logger)
//	manager.Add("parcel_stats", jobs.NewParcelStatsJob(statsHandler, metrics, "", logger))
//	if err := manager.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer manager.StopAll()
//
// # Available Jobs
//
// ParcelStatsJob recounts parcels per status and feeds the
// parceltrack_parcels_by_status gauge. A failed run is logged and retried on
// the next tick.
package jobs
