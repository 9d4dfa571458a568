package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"

	"nivesh_pathshala/services"
	"nivesh_pathshala/services/ipo"
	"nivesh_pathshala/services/marketdata"
	"nivesh_pathshala/services/news"
)

// jobTimeout bounds one refresh tick.
const jobTimeout = 2 * time.Minute

// chatRetention is how long archived chat messages are kept.
const chatRetention = 90 * 24 * time.Hour

// ist is the exchange timezone, falling back to a fixed offset when
// the zone database is unavailable.
var ist = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron   *gocron.Scheduler
	db     *gorm.DB
	quotes *marketdata.QuoteService
	ipos   *ipo.Service
	news   *news.Service
	otp    *services.OtpService
}

// NewScheduler creates a new scheduler instance
func NewScheduler(db *gorm.DB, quotes *marketdata.QuoteService, ipos *ipo.Service, newsService *news.Service, otp *services.OtpService) *Scheduler {
	return &Scheduler{
		cron:   gocron.NewScheduler(ist),
		db:     db,
		quotes: quotes,
		ipos:   ipos,
		news:   newsService,
		otp:    otp,
	}
}

// Start starts all scheduled jobs
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	// Warm the live quote basket every minute during trading hours
	s.cron.Every(1).Minute().Do(func() {
		if isMarketOpen() {
			s.refreshLiveQuotes()
		}
	})

	// Refresh the IPO list every 15 minutes
	s.cron.Every(15).Minutes().Do(func() {
		s.refreshIPOs()
	})

	// Refresh news every 10 minutes
	s.cron.Every(10).Minutes().Do(func() {
		s.refreshNews()
	})

	// Refresh the economic calendar every 30 minutes
	s.cron.Every(30).Minutes().Do(func() {
		s.refreshCalendar()
	})

	// Delete expired OTP rows hourly
	s.cron.Every(1).Hour().Do(func() {
		s.cleanupOtps()
	})

	// Prune the chat archive weekly on Sunday at 01:00
	s.cron.Every(1).Week().Sunday().At("01:00").Do(func() {
		s.cleanupChatArchive()
	})

	s.cron.StartAsync()
	log.Println("Scheduler started successfully")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}

// refreshLiveQuotes re-warms the website quote basket
func (s *Scheduler) refreshLiveQuotes() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.quotes.RefreshLive(ctx)
}

// refreshIPOs refetches the IPO list past the cache
func (s *Scheduler) refreshIPOs() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	list := s.ipos.Refresh(ctx)
	log.Printf("IPO refresh complete: %d listings from %s", len(list.IPOs), list.Source)
}

// refreshNews refetches the article list past the cache
func (s *Scheduler) refreshNews() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.news.Refresh(ctx)
}

// refreshCalendar refetches the economic calendar past the cache
func (s *Scheduler) refreshCalendar() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.news.RefreshCalendar(ctx)
}

// cleanupOtps deletes expired OTP rows
func (s *Scheduler) cleanupOtps() {
	if s.otp == nil {
		return
	}
	deleted, err := s.otp.CleanupExpired()
	if err != nil {
		log.Printf("Error cleaning up OTPs: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Cleaned up %d expired OTPs", deleted)
	}
}

// cleanupChatArchive prunes old archived chat messages
func (s *Scheduler) cleanupChatArchive() {
	archive := services.GlobalChatArchive
	if archive == nil || !archive.IsConfigured() {
		return
	}

	cutoff := time.Now().Add(-chatRetention)
	deleted, err := archive.DeleteOlderThan(cutoff)
	if err != nil {
		log.Printf("Error pruning chat archive: %v", err)
		return
	}
	log.Printf("Pruned %d archived chat messages", deleted)
}

// isMarketOpen checks if the Indian stock market is currently open
func isMarketOpen() bool {
	return isMarketOpenAt(time.Now())
}

func isMarketOpenAt(t time.Time) bool {
	now := t.In(ist)

	// Check if weekend
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}

	// NSE trading hours: 09:15 - 15:30 IST
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= 9*60+15 && minutes <= 15*60+30
}
