package bot

import (
	"log"

	"github.com/robfig/cron/v3"
)

// startScheduler begins the periodic forum batch pass. The gateway
// session only sees messages while the bot is up; the scheduled pass
// sweeps up anything delivered in between.
func (b *Bot) startScheduler() {
	if b.RunBatch == nil {
		log.Println("No batch pass configured, scheduler disabled.")
		return
	}

	log.Println("Initializing scheduler...")
	b.cron = cron.New()
	if _, err := b.cron.AddFunc(b.cfg.WatchCron, func() {
		log.Println("Running scheduled batch pass...")
		b.batch()
	}); err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	b.cron.Start()
	log.Printf("Batch pass scheduled (%s).", b.cfg.WatchCron)

	if b.cfg.ScanAtStartup {
		go func() {
			log.Println("Performing initial batch pass on startup...")
			b.batch()
		}()
	} else {
		log.Println("Skipping initial batch pass as per configuration.")
	}
}

// batch runs one batch pass while holding runMu, so a pass never
// overlaps the live message handler writing the same record file.
func (b *Bot) batch() {
	b.runMu.Lock()
	defer b.runMu.Unlock()
	b.RunBatch()
}

// stopScheduler stops the cron jobs.
func (b *Bot) stopScheduler() {
	if b.cron != nil {
		b.cron.Stop()
		log.Println("Scheduler stopped.")
	}
}
