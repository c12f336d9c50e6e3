package config

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. Packages under cron/jobs
// register themselves through cron.Register from init() instead, so
// this map stays empty unless a deployment pins extra schedules here.
var CronJobs = map[string]CronJob{}
