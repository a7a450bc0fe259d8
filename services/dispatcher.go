package services

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/yeremiapane/projectflow/mailer"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/realtime"
	"github.com/yeremiapane/projectflow/utils"
)

const mailTimeout = 30 * time.Second

// Dispatcher delivers stored notifications to their recipients: a websocket
// push to connected users and, when a mail sender is set, an email copy.
// Delivery runs on the worker pool and never reports errors to the caller.
type Dispatcher struct {
	pool   *ants.Pool
	pusher Pusher
	mail   mailer.Sender
	users  UserStore
}

// NewDispatcher wires the delivery channels. pool may be nil to deliver
// inline; pusher or sender may be nil to disable that channel.
func NewDispatcher(pool *ants.Pool, pusher Pusher, sender mailer.Sender, users UserStore) *Dispatcher {
	return &Dispatcher{pool: pool, pusher: pusher, mail: sender, users: users}
}

func (d *Dispatcher) Dispatch(notifs []models.Notification) {
	if d == nil || len(notifs) == 0 {
		return
	}
	batch := append([]models.Notification(nil), notifs...)
	d.submit(func() { d.deliver(batch) })
}

func (d *Dispatcher) submit(job func()) {
	if d.pool == nil {
		job()
		return
	}
	if err := d.pool.Submit(job); err != nil {
		utils.ErrorLogger.Printf("Notification delivery rejected by worker pool: %v", err)
	}
}

func (d *Dispatcher) deliver(notifs []models.Notification) {
	if d.pusher != nil {
		for _, n := range notifs {
			d.pusher.Push(n.UserID, realtime.EventNotification, n)
		}
	}
	if d.mail == nil || d.users == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	ids := make([]uint, 0, len(notifs))
	for _, n := range notifs {
		ids = append(ids, n.UserID)
	}
	users, err := d.users.FindByIDs(ctx, ids)
	if err != nil {
		utils.ErrorLogger.Printf("Notification email lookup failed: %v", err)
		return
	}
	emails := make(map[uint]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	for _, n := range notifs {
		to, ok := emails[n.UserID]
		if !ok {
			continue
		}
		body := fmt.Sprintf("%s\n\n%s", n.Title, n.Content)
		if err := d.mail.Send(ctx, to, n.Title, body); err != nil {
			utils.ErrorLogger.Printf("Notification email to user %d failed: %v", n.UserID, err)
		}
	}
}
