package cron

import (
	"context"
	"log"

	"creditly-backend/internal/usecase/loan"
	"creditly-backend/internal/usecase/subscription"

	"github.com/robfig/cron/v3"
)

// Sweeps schedules the two idempotent maintenance passes: persisting derived
// subscription expiry and flipping past-due loans to overdue. Read paths
// never depend on either having run.
type Sweeps struct {
	c    *cron.Cron
	subs *subscription.Usecase
	lns  *loan.Usecase
}

func NewSweeps(subs *subscription.Usecase, lns *loan.Usecase) *Sweeps {
	return &Sweeps{c: cron.New(), subs: subs, lns: lns}
}

func (s *Sweeps) Start(subscriptionSpec, overdueSpec string) error {
	if subscriptionSpec != "" {
		if _, err := s.c.AddFunc(subscriptionSpec, s.expireSubscriptions); err != nil {
			return err
		}
	}
	if overdueSpec != "" {
		if _, err := s.c.AddFunc(overdueSpec, s.markOverdueLoans); err != nil {
			return err
		}
	}
	s.c.Start()
	return nil
}

func (s *Sweeps) Stop() { s.c.Stop() }

func (s *Sweeps) expireSubscriptions() {
	n, err := s.subs.ExpireStale(context.Background())
	if err != nil {
		log.Printf("cron: expire subscriptions: %v", err)
		return
	}
	if n > 0 {
		log.Printf("cron: expired %d subscriptions", n)
	}
}

func (s *Sweeps) markOverdueLoans() {
	n, err := s.lns.MarkOverdue(context.Background())
	if err != nil {
		log.Printf("cron: mark overdue loans: %v", err)
		return
	}
	if n > 0 {
		log.Printf("cron: marked %d loans overdue", n)
	}
}
