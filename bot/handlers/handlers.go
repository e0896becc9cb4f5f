// Package handlers binds the conversation engine and the stats services
// to Telegram endpoints. Handlers translate updates into engine events,
// render the resulting replies, and register themselves on the shared
// command/callback registry.
package handlers

import (
	"strings"
	"time"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/flow"
	"github.com/ojakoo/springbot/bot/service"
	tg "github.com/ojakoo/springbot/core/telegram"
	"github.com/ojakoo/springbot/core/telegram/callbacks"
	"github.com/ojakoo/springbot/core/telegram/commands"
	tghelpers "github.com/ojakoo/springbot/core/telegram/helpers"
	"github.com/ojakoo/springbot/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// Callback keys shared between keyboards and the callback registry.
const (
	cbGuild = "guild"
	cbSport = "sport"
	cbDaily = "daily"
)

// Config carries handler-level settings.
type Config struct {
	// AdminIDs gates /daily and /all.
	AdminIDs []int64
	// Contact is shown when persistence fails, e.g. "@Ojakoo".
	Contact string
}

// Handlers owns every bot-facing endpoint.
type Handlers struct {
	cfg    Config
	engine *flow.Engine
	users  *service.Users
	stats  *service.Stats
}

// New wires the handler set.
func New(cfg Config, engine *flow.Engine, users *service.Users, stats *service.Stats) *Handlers {
	return &Handlers{cfg: cfg, engine: engine, users: users, stats: stats}
}

// Register adds all commands and callbacks to the registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.handleStart,
		Description: "Join the battle or see the intro again",
	})
	reg.RegisterCommand("/status", commands.Command{
		Handler:     h.handleStatus,
		Description: "Current standing between the guilds",
	})
	reg.RegisterCommand("/personal", commands.Command{
		Handler:     h.handlePersonal,
		Description: "Your own contributed kilometers",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.handleCancel,
		Description: "Stop the ongoing logging event",
	})
	reg.RegisterCommand("/daily", commands.Command{
		Handler:     h.handleDaily,
		Description: "Per-day summary with top contributors",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/all", commands.Command{
		Handler:     h.handleAll,
		Description: "All-time totals with entry counts",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbGuild, h.callbackGuild)
	_ = reg.RegisterCallback(cbSport, h.callbackSport)
	_ = reg.RegisterCallback(cbDaily, h.callbackDaily)
}

// Routes builds the full route table: commands, the callback entry
// point, text routing through the conversation, and the photo trigger.
func (h *Handlers) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs: h.cfg.AdminIDs,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(h, reg, router.TextOptions{})...)
	routes = append(routes, tg.Route{Endpoint: tele.OnPhoto, Handler: h.handlePhoto})
	return routes
}

// InProgress reports whether free text from the user belongs to an
// ongoing logging conversation.
func (h *Handlers) InProgress(userID int64) bool {
	return h.engine.AwaitingDistance(userID)
}

// ManagerHandler consumes free text as distance input.
func (h *Handlers) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "flow.distance")
	reply, _ := h.engine.SubmitDistance(ctx, c.Sender().ID, strings.TrimSpace(c.Text()))
	return h.render(c, reply)
}

func (h *Handlers) handleStart(c tele.Context) error {
	if !isPrivate(c) {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "start")
	reply, _ := h.engine.Start(ctx, c.Sender().ID, displayName(c.Sender()))
	return h.render(c, reply)
}

func (h *Handlers) handlePhoto(c tele.Context) error {
	if !isPrivate(c) {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "photo")
	reply, _ := h.engine.BeginLog(ctx, c.Sender().ID)
	return h.render(c, reply)
}

func (h *Handlers) handleCancel(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cancel")
	reply, _ := h.engine.Cancel(ctx, c.Sender().ID)
	return h.render(c, reply)
}

func (h *Handlers) callbackGuild(c tele.Context) error {
	removeInlineKeyboard(c)
	guild, ok := domain.ParseGuild(callbacks.CallbackPayload(c))
	if !ok {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "callback.guild")
	reply, _ := h.engine.SelectGuild(ctx, c.Sender().ID, guild)
	return h.render(c, reply)
}

func (h *Handlers) callbackSport(c tele.Context) error {
	removeInlineKeyboard(c)
	sport, ok := domain.ParseSport(callbacks.CallbackPayload(c))
	if !ok {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "callback.sport")
	reply, _ := h.engine.SelectSport(ctx, c.Sender().ID, sport)
	return h.render(c, reply)
}

func (h *Handlers) handleStatus(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "status")
	report, err := h.stats.Status(ctx)
	if err != nil {
		return tghelpers.SendText(c, h.storeFailedText())
	}
	return tghelpers.SendText(c, renderStatus(report))
}

func (h *Handlers) handlePersonal(c tele.Context) error {
	if !isPrivate(c) {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "personal")

	user, err := tghelpers.CurrentUser(ctx, h.users, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, h.storeFailedText())
	}
	report, err := h.stats.Personal(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendText(c, h.storeFailedText())
	}
	return tghelpers.SendText(c, renderPersonal(user, report))
}

// handleDaily answers with a day picker, or a direct summary when the
// admin passes an explicit date ("/daily 2026-04-01").
func (h *Handlers) handleDaily(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "daily")

	var arg string
	if msg := c.Message(); msg != nil {
		arg = strings.TrimSpace(msg.Payload)
	}
	if arg != "" {
		day, ok := tghelpers.ParseFlexibleDate(arg)
		if !ok {
			return tghelpers.SendText(c, "Could not read that date, try for example 2026-04-01.")
		}
		report, err := h.stats.Daily(ctx, day)
		if err != nil {
			return tghelpers.SendText(c, h.storeFailedText())
		}
		return tghelpers.SendMD(c, renderDaily(report))
	}

	return tghelpers.SendText(c, "Please choose the day:", &tele.SendOptions{
		ReplyMarkup: dayKeyboard(),
	})
}

func (h *Handlers) callbackDaily(c tele.Context) error {
	offset, err := callbacks.PayloadInt(c)
	if err != nil {
		return nil
	}
	ctx := tghelpers.WithHandler(c, "callback.daily")
	report, err := h.stats.Daily(ctx, time.Now().AddDate(0, 0, offset))
	if err != nil {
		return tghelpers.SendText(c, h.storeFailedText())
	}
	return tghelpers.EditOrSendMD(c, renderDaily(report))
}

func (h *Handlers) handleAll(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "all")
	report, err := h.stats.AllTime(ctx)
	if err != nil {
		return tghelpers.SendText(c, h.storeFailedText())
	}
	return tghelpers.SendMD(c, renderAllTime(report))
}

func isPrivate(c tele.Context) bool {
	chat := c.Chat()
	return chat != nil && chat.Type == tele.ChatPrivate
}

// displayName mirrors Telegram's own presentation: first name, plus the
// last name when present.
func displayName(sender *tele.User) string {
	if sender == nil {
		return ""
	}
	if sender.LastName != "" {
		return sender.FirstName + " " + sender.LastName
	}
	return sender.FirstName
}

// removeInlineKeyboard clears the buttons under the tapped message so a
// second tap cannot replay the choice. Edit failures are harmless: the
// engine ignores stale presses anyway.
func removeInlineKeyboard(c tele.Context) {
	_ = c.Edit(&tele.ReplyMarkup{})
}
