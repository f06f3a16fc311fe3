// cron/worker.go
package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gatherly/config"
	bookingRepo "gatherly/database/repository/booking"
	"gatherly/services/notification"
	"gatherly/services/promotion"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// Task types handled by the background worker.
const (
	TypeBookingCompleteSweep = "booking:complete_sweep"
	TypePromotionSweep       = "promotion:sweep"
	TypeBookingReminderSweep = "booking:reminder_sweep"
	TypeBookingReminder      = "booking:reminder"
)

// ReminderPayload is the per-booking reminder task body.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Start     string `json:"start"` // RFC3339
}

func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisJobQueueDB,
	}
}

// InitWorker starts the asynq server, its handlers, and the periodic
// scheduler that enqueues the sweeps.
func InitWorker(
	bookings bookingRepo.BookingRepository,
	promotions promotion.PromotionService,
	notifSvc notification.NotificationService,
) {
	srv := asynq.NewServer(
		redisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	client := asynq.NewClient(redisOpt())

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingCompleteSweep, handleBookingCompleteSweep(bookings))
	mux.HandleFunc(TypePromotionSweep, handlePromotionSweep(promotions))
	mux.HandleFunc(TypeBookingReminderSweep, handleReminderSweep(bookings, client))
	mux.HandleFunc(TypeBookingReminder, handleReminder(notifSvc))

	go monitorRedisConnection()
	go runScheduler()

	go func() {
		log.Println("[Worker] starting async worker...")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[Worker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// runScheduler enqueues the periodic sweeps.
func runScheduler() {
	scheduler := asynq.NewScheduler(redisOpt(), &asynq.SchedulerOpts{Location: time.UTC})

	entries := []struct {
		spec string
		task *asynq.Task
	}{
		{"@every 5m", asynq.NewTask(TypeBookingCompleteSweep, nil)},
		{"@every 5m", asynq.NewTask(TypePromotionSweep, nil)},
		{"@every 15m", asynq.NewTask(TypeBookingReminderSweep, nil)},
	}
	for _, e := range entries {
		if _, err := scheduler.Register(e.spec, e.task); err != nil {
			log.Printf("[Worker] failed to register %s: %v", e.task.Type(), err)
		}
	}

	if err := scheduler.Run(); err != nil {
		log.Printf("[Worker] scheduler stopped: %v", err)
	}
}

// handleBookingCompleteSweep moves confirmed bookings whose end has passed to
// completed.
func handleBookingCompleteSweep(bookings bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		n, err := bookings.CompleteElapsed(time.Now().UTC())
		if err != nil {
			log.Printf("[CompleteSweep] sweep failed: %v", err)
			return err
		}
		if n > 0 {
			log.Printf("[CompleteSweep] completed %d elapsed bookings", n)
		}
		return nil
	}
}

// handlePromotionSweep activates due hot deals and expires elapsed ones.
func handlePromotionSweep(promotions promotion.PromotionService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		now := time.Now().UTC()
		activated, err := promotions.ActivateDue(ctx, now)
		if err != nil {
			log.Printf("[PromotionSweep] activation failed: %v", err)
			return err
		}
		expired, err := promotions.ExpireElapsed(ctx, now)
		if err != nil {
			log.Printf("[PromotionSweep] expiry failed: %v", err)
			return err
		}
		if activated > 0 || expired > 0 {
			log.Printf("[PromotionSweep] activated %d, expired %d promotions", activated, expired)
		}
		return nil
	}
}

// handleReminderSweep fans out one reminder task per confirmed booking that
// starts inside the upcoming lead window.
func handleReminderSweep(bookings bookingRepo.BookingRepository, client *asynq.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		lead := time.Duration(config.AppConfig.BookingReminderLeadHours) * time.Hour
		if lead <= 0 {
			lead = 24 * time.Hour
		}
		now := time.Now().UTC()
		upcoming, err := bookings.GetStartingBetween(now.Add(lead), now.Add(lead+15*time.Minute))
		if err != nil {
			log.Printf("[ReminderSweep] fetch failed: %v", err)
			return err
		}

		for _, b := range upcoming {
			payload, err := json.Marshal(ReminderPayload{
				BookingID: b.ID,
				UserID:    b.UserID,
				Start:     b.Start.Format(time.RFC3339),
			})
			if err != nil {
				continue
			}
			// TaskID dedupes across overlapping sweep windows.
			_, err = client.EnqueueContext(ctx, asynq.NewTask(TypeBookingReminder, payload),
				asynq.TaskID("reminder:"+b.ID))
			if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
				log.Printf("[ReminderSweep] enqueue failed for booking %s: %v", b.ID, err)
			}
		}
		return nil
	}
}

// handleReminder pushes the upcoming-booking reminder to the consumer.
func handleReminder(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[Reminder] invalid payload: %v", err)
			return err
		}

		body := fmt.Sprintf("Your booking starts at %s.", p.Start)
		data := map[string]string{"bookingId": p.BookingID, "start": p.Start}
		if err := notifSvc.SendUserPush(ctx, p.UserID, "Upcoming booking", body, data); err != nil {
			log.Printf("[Reminder] push failed for booking %s: %v", p.BookingID, err)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisJobQueueDB,
	})

	ctx := context.Background()
	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
