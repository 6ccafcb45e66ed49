package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// RoomReconciler repairs room statuses that drifted from the booking ledger
type RoomReconciler interface {
	Run() (int, error)
}

var roomReconciler RoomReconciler

// SetRoomReconciler injects the reconciliation implementation
func SetRoomReconciler(r RoomReconciler) {
	roomReconciler = r
}

// InitCronJobs schedules the background jobs
func InitCronJobs(c *cron.Cron) error {
	// Reconcile every 10 minutes
	_, err := c.AddFunc("*/10 * * * *", func() {
		if roomReconciler == nil {
			log.Printf("Error: RoomReconciler is not set")
			return
		}
		start := time.Now()
		corrected, err := roomReconciler.Run()
		if err != nil {
			log.Printf("Error reconciling room statuses: %v", err)
			return
		}
		if corrected > 0 {
			log.Printf("Reconciled %d room status(es) in %v", corrected, time.Since(start))
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
