package service

import (
	"context"
	"log"
	"time"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/repository"
	"room-rental-backend/internal/state"
)

// Gas alert thresholds (percent). The clear level sits below the raise
// level so a reading hovering at the boundary does not flap the alert.
const (
	gasAlertRaiseLevel = 70
	gasAlertClearLevel = 60
)

// AlertService is the background worker that keeps each room's gasAlert
// flag consistent with its gas level reading.
type AlertService struct {
	provider *state.RoomsProvider
	roomRepo *repository.RoomRepository
	interval time.Duration
}

func NewAlertService(provider *state.RoomsProvider, roomRepo *repository.RoomRepository) *AlertService {
	return &AlertService{
		provider: provider,
		roomRepo: roomRepo,
		interval: 5 * time.Second,
	}
}

// Start begins the background worker that reconciles gas alerts
func (w *AlertService) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("Gas alert worker started - checking every %s", w.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Gas alert worker stopped")
			return
		case <-ticker.C:
			w.reconcileAlerts(ctx)
		}
	}
}

// reconcileAlerts flags rooms whose gas level crossed the raise threshold
// and clears alerts once readings drop back under the clear threshold.
func (w *AlertService) reconcileAlerts(ctx context.Context) {
	for _, room := range w.provider.Rooms() {
		var want *bool
		switch {
		case room.GasLevel >= gasAlertRaiseLevel && !room.GasAlert:
			v := true
			want = &v
		case room.GasLevel < gasAlertClearLevel && room.GasAlert:
			v := false
			want = &v
		}
		if want == nil {
			continue
		}

		patch := models.RoomPatch{GasAlert: want}
		if _, err := w.roomRepo.Update(ctx, room.ID, patch); err != nil {
			log.Printf("Error updating gas alert for room %s: %v", room.ID, err)
		} else if *want {
			log.Printf("Gas alert raised for room %s (level %d)", room.ID, room.GasLevel)
		}
	}
}
