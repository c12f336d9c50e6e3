package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"souq.GO/config"
)

// StartCron builds the scheduler from the statically configured jobs
// plus everything packages registered through Register, then starts it.
// Panicking jobs are recovered so a bad reprice run cannot take the
// scheduler down with it.
func StartCron() *cron.Cron {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))

	mount := func(name, schedule string, run func(...string)) {
		if _, err := c.AddFunc(schedule, func() { run() }); err != nil {
			log.Fatalf("Failed to register job %s: %v", name, err)
		}
		log.Printf("cron: scheduled %s (%s)", name, schedule)
	}

	for name, j := range config.CronJobs {
		mount(name, j.Schedule, j.Job)
	}
	for name, j := range Jobs() {
		mount(name, j.Schedule, j.Run)
	}

	c.Start()
	return c
}
