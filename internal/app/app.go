// Package app wires configuration into the services shared by the API server
// and jobsctl.
package app

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/justsurfingit/medstaff/internal/auth"
	"github.com/justsurfingit/medstaff/internal/config"
	"github.com/justsurfingit/medstaff/internal/database"
	"github.com/justsurfingit/medstaff/internal/notify"
	"github.com/justsurfingit/medstaff/internal/services"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB

	LLM          *services.LLMService
	Matcher      *services.MatcherService
	Applications *services.ApplicationService
	Facilities   *services.FacilityService
	Jobs         *services.JobService
	Notes        *services.NoteService
	Resumes      *services.ResumeService
	Dashboard    *services.DashboardService
	Enrichment   *services.EnrichmentService

	closers []io.Closer
}

// New connects everything cfg describes. A database that cannot be reached
// leaves DB nil: reads then return empty results and writes fail with
// services.ErrDatabaseUnavailable.
func New(ctx context.Context, cfg *config.Config) *App {
	a := &App{Config: cfg}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Printf("⚠️ Database unavailable, running degraded: %v", err)
	} else {
		a.DB = db
	}

	a.LLM, err = services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("⚠️ AI features disabled: %v", err)
		a.LLM = &services.LLMService{}
	}

	ttl := time.Duration(cfg.JobTTLDays) * 24 * time.Hour
	a.Matcher = services.NewMatcherService(a.DB, cfg.MatchLimit)
	a.Facilities = services.NewFacilityService(a.DB)
	a.Jobs = services.NewJobService(a.DB, ttl)
	a.Notes = services.NewNoteService(a.DB)
	a.Resumes = services.NewResumeService(a.DB)
	a.Dashboard = services.NewDashboardService(a.DB)

	var researcher services.FacilityResearcher
	if a.LLM.Enabled() {
		researcher = services.NewLLMResearcher(a.LLM, cfg.Enrichment.RequestsPerMinute)
	}
	a.Enrichment = services.NewEnrichmentService(a.DB, researcher, ttl)

	a.Applications = services.NewApplicationService(a.DB, a.Matcher, a.ownerNotifier(ctx), cfg.WhatsAppNumber)
	return a
}

// ownerNotifier publishes to RabbitMQ when configured so a worker delivers
// with retries; otherwise it delivers directly.
func (a *App) ownerNotifier(ctx context.Context) notify.Notifier {
	if a.Config.RabbitMQ.URL != "" {
		q, _, err := notify.DialQueue(a.Config.RabbitMQ.URL, a.Config.RabbitMQ.Queue)
		if err == nil {
			a.closers = append(a.closers, q)
			return q
		}
		log.Printf("⚠️ RabbitMQ unavailable, notifying directly: %v", err)
	}
	return a.DirectNotifier(ctx)
}

// DirectNotifier returns every configured delivery channel, falling back to
// the log.
func (a *App) DirectNotifier(ctx context.Context) notify.Notifier {
	var channels notify.Multi

	if tg := a.Config.Telegram; tg.Token != "" {
		t, err := notify.NewTelegram(tg.Token, tg.ChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			channels = append(channels, t)
		}
	}

	if gm := a.Config.Gmail; gm.OwnerEmail != "" {
		if g, err := a.gmailNotifier(ctx); err != nil {
			log.Printf("⚠️ Gmail disabled: %v", err)
		} else {
			channels = append(channels, g)
		}
	}

	if len(channels) == 0 {
		return notify.Log{}
	}
	return channels
}

func (a *App) gmailNotifier(ctx context.Context) (*notify.Gmail, error) {
	gm := a.Config.Gmail
	client, err := auth.GmailClient(ctx, gm.CredentialsPath, gm.TokenPath)
	if errors.Is(err, auth.ErrNoToken) {
		log.Println("⚠️ No Gmail token yet, run `jobsctl gmail-login`")
	}
	if err != nil {
		return nil, err
	}
	return notify.NewGmail(ctx, client, gm.OwnerEmail)
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Printf("⚠️ close: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
