package covidbot

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ilyalavrinov/covidboard/internal/dashboard"
	"github.com/ilyalavrinov/covidboard/pkg/tgbotbase"
)

func (h *Handler) startWatch(ctx context.Context, chatID int64, sess *session, interval time.Duration) {
	gen := sess.startWatch(interval)
	log.WithFields(log.Fields{"chat": chatID, "interval": interval, "watch": gen}).Info("Watch started")
	h.cron.AddJob(time.Now().Add(interval), &tgbotbase.Every{
		Interval: interval,
		Fn: func(time.Time) bool {
			return h.watchTick(ctx, chatID, sess, gen)
		},
	})
}

// watchTick refreshes the chat's dashboard and resends the counters.
// It returns false once the watch is replaced, switched off or the bot stops.
func (h *Handler) watchTick(ctx context.Context, chatID int64, sess *session, gen uint64) bool {
	if ctx.Err() != nil || !sess.watching(gen) {
		return false
	}
	st, err := sess.dash.Refresh(ctx)
	if !sess.watching(gen) {
		return false
	}
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
	case err != nil:
		log.WithFields(log.Fields{"chat": chatID, "region": st.Region, "err": err}).Warn("Watch refresh failed")
		h.sendText(chatID, statusText(st))
	default:
		h.sendMarkdown(chatID, countersMarkdown(st.Region, st.Data.Snapshot))
	}
	return true
}
