package covidbot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/ilyalavrinov/covidboard/internal/dashboard"
	"github.com/ilyalavrinov/covidboard/pkg/covid"
	"github.com/ilyalavrinov/covidboard/pkg/covidreport"
	"github.com/ilyalavrinov/covidboard/pkg/tgbotbase"
)

// Source is where dashboards load their data from.
type Source interface {
	dashboard.RegionLoader
	Countries(ctx context.Context) (covid.CountryList, error)
}

type Handler struct {
	out      tgbotbase.Outbox
	source   Source
	cron     tgbotbase.Cron
	watch    WatchSettings
	sessions *sessions
}

var _ tgbotbase.Handler = &Handler{}

func NewHandler(out tgbotbase.Outbox, source Source, cron tgbotbase.Cron, watch WatchSettings) *Handler {
	return &Handler{
		out:      out,
		source:   source,
		cron:     cron,
		watch:    watch,
		sessions: newSessions(source),
	}
}

func (h *Handler) Name() string {
	return "covid dashboard"
}

func (h *Handler) Trigger() tgbotbase.HandlerTrigger {
	return tgbotbase.NewHandlerTrigger(nil, []string{"start", "help", "covid", "daily", "countries", "export", "watch"})
}

func (h *Handler) HandleOne(ctx context.Context, msg tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	cmd := strings.ToLower(msg.Command())
	args := strings.TrimSpace(msg.CommandArguments())
	log.WithFields(log.Fields{"chat": chatID, "command": cmd, "args": args}).Debug("Handling command")

	switch cmd {
	case "start", "help":
		h.sendText(chatID, helpText)
	case "covid":
		h.selectRegion(ctx, chatID, args)
	case "daily":
		h.daily(chatID, args)
	case "countries":
		h.countries(ctx, chatID)
	case "export":
		h.export(chatID)
	case "watch":
		h.watchCommand(ctx, chatID, args)
	}
}

func (h *Handler) sendText(chatID int64, text string) {
	h.out.Send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	h.out.Send(msg)
}

// resolve accepts region codes directly and country names through the country list.
func (h *Handler) resolve(ctx context.Context, sess *session, input string) (covid.Region, error) {
	if region, err := covid.ParseRegion(input); err == nil {
		return region, nil
	}
	list := sess.dash.State().Data.Countries
	if len(list) == 0 {
		var err error
		list, err = h.source.Countries(ctx)
		if err != nil {
			return "", err
		}
	}
	return list.ResolveRegion(input)
}

func (h *Handler) selectRegion(ctx context.Context, chatID int64, args string) {
	sess := h.sessions.get(chatID)
	region, err := h.resolve(ctx, sess, args)
	if err != nil {
		if errors.Is(err, covid.ErrInvalidRegion) {
			h.sendText(chatID, fmt.Sprintf("Unknown region %q, see /countries", args))
		} else {
			h.sendText(chatID, fmt.Sprintf("❌ Could not load the country list: %s", err))
		}
		return
	}

	h.sendText(chatID, statusText(dashboard.State{Status: dashboard.StatusLoading, Region: region}))
	st, err := sess.dash.Select(ctx, region)
	if errors.Is(err, dashboard.ErrSuperseded) {
		return
	}
	if err != nil {
		h.sendText(chatID, statusText(st))
		return
	}
	h.sendDashboard(chatID, st)
}

func (h *Handler) sendDashboard(chatID int64, st dashboard.State) {
	h.sendMarkdown(chatID, countersMarkdown(st.Region, st.Data.Snapshot))

	var buf bytes.Buffer
	err := covidreport.RenderChart(&buf, st.Region, st.Daily)
	if errors.Is(err, covidreport.ErrNotEnoughData) {
		h.sendText(chatID, "Not enough daily data for a chart")
		return
	}
	if err != nil {
		log.WithFields(log.Fields{"chat": chatID, "region": st.Region, "err": err}).Error("Could not render chart")
		h.sendText(chatID, "❌ Could not draw the chart")
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("covid-%s.png", strings.ToLower(st.Region.String())),
		Bytes: buf.Bytes(),
	})
	if covidreport.ChartKindFor(st.Region) == covidreport.ChartLine {
		photo.Caption = covidreport.LineChartTitle
	} else {
		photo.Caption = fmt.Sprintf("Daily infected (blue), deaths (red) and recovered (green) in %s, last %d days", covidreport.Title(st.Region, st.Data.Snapshot), covid.DefaultPageSize)
	}
	h.out.Send(photo)
}

// readyState returns the chat's dashboard state or tells the user why there is none.
// The last good data of the selected region is served after a failed refresh too.
func (h *Handler) readyState(chatID int64) (dashboard.State, bool) {
	st := h.sessions.get(chatID).dash.State()
	switch {
	case st.Status == dashboard.StatusReady:
		return st, true
	case st.HasData():
		if st.Status == dashboard.StatusFailed {
			h.sendText(chatID, staleText(st))
		}
		return st, true
	}
	h.sendText(chatID, statusText(st))
	return st, false
}

func (h *Handler) daily(chatID int64, args string) {
	st, ok := h.readyState(chatID)
	if !ok {
		return
	}
	_, pages := covid.Page(st.Daily, 0, covid.DefaultPageSize)
	if pages == 0 {
		h.sendText(chatID, "No daily data yet")
		return
	}

	page := pages - 1
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 || n > pages {
			h.sendText(chatID, fmt.Sprintf("Page must be a number from 1 to %d", pages))
			return
		}
		page = n - 1
	}
	points, _ := covid.Page(st.Daily, page, covid.DefaultPageSize)
	table := covidreport.DailyTable(nil, points, page, pages)
	for _, chunk := range splitLines(table, messageLimit-8) {
		h.sendMarkdown(chatID, codeBlock(chunk))
	}
}

func (h *Handler) countries(ctx context.Context, chatID int64) {
	list := h.sessions.get(chatID).dash.State().Data.Countries
	if len(list) == 0 {
		var err error
		list, err = h.source.Countries(ctx)
		if err != nil {
			h.sendText(chatID, fmt.Sprintf("❌ Could not load the country list: %s", err))
			return
		}
	}
	table := covidreport.CountriesTable(nil, list)
	for _, chunk := range splitLines(table, messageLimit-8) {
		h.sendMarkdown(chatID, codeBlock(chunk))
	}
}

func (h *Handler) export(chatID int64) {
	st, ok := h.readyState(chatID)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := covidreport.WriteXlsx(&buf, st.Data, st.Daily); err != nil {
		log.WithFields(log.Fields{"chat": chatID, "region": st.Region, "err": err}).Error("Could not export xlsx")
		h.sendText(chatID, "❌ Could not prepare the spreadsheet")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("covid-%s-%s.xlsx", strings.ToLower(st.Region.String()), st.LoadedAt.Format("20060102")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = covidreport.Title(st.Region, st.Data.Snapshot)
	h.out.Send(doc)
}

func (h *Handler) watchCommand(ctx context.Context, chatID int64, args string) {
	sess := h.sessions.get(chatID)
	if strings.EqualFold(args, "off") {
		if sess.stopWatch() {
			h.sendText(chatID, "Watch is off")
		} else {
			h.sendText(chatID, "Watch was not running")
		}
		return
	}

	interval := h.watch.Interval
	if args != "" {
		d, err := time.ParseDuration(args)
		if err != nil {
			h.sendText(chatID, fmt.Sprintf("Could not understand interval %q, try something like 6h or 30m", args))
			return
		}
		interval = d
	}
	if interval < h.watch.MinInterval {
		h.sendText(chatID, fmt.Sprintf("Interval must be at least %s", h.watch.MinInterval))
		return
	}

	region := sess.dash.State().Region
	if region == "" {
		h.sendText(chatID, statusText(dashboard.State{}))
		return
	}

	h.startWatch(ctx, chatID, sess, interval)
	h.sendText(chatID, fmt.Sprintf("Refreshing %s every %s, /watch off to stop", region, interval))
}
