package handlers

import (
	"fmt"
	"strings"

	"github.com/ojakoo/springbot/bot/domain"
	"github.com/ojakoo/springbot/bot/flow"
	"github.com/ojakoo/springbot/bot/service"
	"github.com/ojakoo/springbot/bot/storage"
	"github.com/ojakoo/springbot/core/telegram/format"
	tghelpers "github.com/ojakoo/springbot/core/telegram/helpers"
	"github.com/ojakoo/springbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

const welcomeBase = "Hello there, welcome to the KIK-SIK Spring Battle!\n\n" +
	"To record kilometers for your guild send me a picture of your achievement, " +
	"this can be for example a screenshot of your daily steps or a Strava log " +
	"showing the exercise amount and route. After this I'll ask a few questions " +
	"regarding the exercise.\n\n" +
	"You can check how many kilometers you have contributed with /personal. " +
	"Additionally you can check the current status of the battle with /status, " +
	"this command also works in the group chat!\n\n" +
	"If you have any questions about the battle you can ask in the main group " +
	"and the organizers will answer you!"

// render turns an engine decision into an outgoing message.
func (h *Handlers) render(c tele.Context, reply flow.Reply) error {
	switch reply.Kind {
	case flow.ReplyNone:
		return nil

	case flow.ReplyWelcomeBack:
		text := h.welcomeText() + fmt.Sprintf("\n\nYou are competing with %s.", reply.Guild)
		return tghelpers.SendText(c, text)

	case flow.ReplyChooseGuild:
		text := h.welcomeText() + "\n\nTo register choose the guild you are going to " +
			"represent, after this just send me a picture to log your kilometers!"
		return tghelpers.SendText(c, text, &tele.SendOptions{ReplyMarkup: guildKeyboard()})

	case flow.ReplyGuildConfirmed:
		text := fmt.Sprintf("Thanks! You chose %s as your guild.\n\n"+
			"To start logging kilometers just send me a picture of your accomplishment!", reply.Guild)
		return tghelpers.SendText(c, text)

	case flow.ReplyChooseSport:
		return tghelpers.SendText(c, "Please choose the sport:", &tele.SendOptions{
			ReplyMarkup: sportKeyboard(),
		})

	case flow.ReplyAskDistance:
		return tghelpers.SendText(c, distancePrompt(reply.Sport))

	case flow.ReplyLogSaved:
		return tghelpers.SendText(c, "Thanks for participating!")

	case flow.ReplyNotRegistered:
		return tghelpers.SendText(c, "Please register with /start before recording kilometers.")

	case flow.ReplyCancelled:
		return tghelpers.SendText(c, "Successfully stopped the logging event.")

	case flow.ReplyBadDistance:
		return tghelpers.SendText(c, distanceErrorText(reply.Sport))

	case flow.ReplyStoreFailed:
		return tghelpers.SendText(c, h.storeFailedText())
	}
	return nil
}

func (h *Handlers) welcomeText() string {
	if h.cfg.Contact == "" {
		return welcomeBase
	}
	return welcomeBase + fmt.Sprintf(" If some technical problems appear with me, you can contact %s.", h.cfg.Contact)
}

func (h *Handlers) storeFailedText() string {
	if h.cfg.Contact == "" {
		return "Something went wrong please try again."
	}
	return fmt.Sprintf("Encountered an error with logging data please contact %s", h.cfg.Contact)
}

func distancePrompt(sport domain.Sport) string {
	if sport.InputRules().Steps {
		return "Type the number of steps that you have walked. These are converted to kilometers automatically"
	}
	return "Type the number of kilometers using '.' as a separator, for example: 5.5"
}

func distanceErrorText(sport domain.Sport) string {
	if sport.InputRules().Steps {
		return "Something went wrong with your input. Make sure you use whole numbers for steps. Please try again."
	}
	return "Something went wrong with your input. Make sure you use . as separator for kilometers and meters, " +
		"also the minimum distance is 1km. Please try again."
}

func guildKeyboard() *tele.ReplyMarkup {
	row := make([]keyboard.InlineBtn, 0, len(domain.Guilds()))
	for _, guild := range domain.Guilds() {
		row = append(row, keyboard.InlineBtn{
			Text:   string(guild),
			Unique: cbGuild,
			Data:   string(guild),
		})
	}
	return keyboard.InlineButtonsRows(row)
}

func sportKeyboard() *tele.ReplyMarkup {
	row := make([]keyboard.InlineBtn, 0, len(domain.Sports()))
	for _, sport := range domain.Sports() {
		row = append(row, keyboard.InlineBtn{
			Text:   string(sport),
			Unique: cbSport,
			Data:   string(sport),
		})
	}
	return keyboard.InlineButtonsRows(row)
}

func dayKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Today", Unique: cbDaily, Data: "0"},
		{Text: "Yesterday", Unique: cbDaily, Data: "-1"},
	})
}

func renderStatus(report service.StatusReport) string {
	var b strings.Builder

	switch report.Leader() {
	case domain.GuildSIK:
		fmt.Fprintf(&b, "JAPPADAIDA! SIK has the lead by winning %d categories.\n\n", report.SIKWins)
	case domain.GuildKIK:
		fmt.Fprintf(&b, "Yy-Kaa-Kone! KIK has the lead by winning %d categories.\n\n", report.KIKWins)
	default:
		fmt.Fprintf(&b, "It seems to be even with %d category wins for both guilds.\n\n", report.SIKWins)
	}

	b.WriteString("KIK:\n")
	for _, row := range report.Rows {
		trophy := ""
		if row.KIK > row.SIK {
			trophy = " \U0001F3C6"
		}
		fmt.Fprintf(&b, " - %s: %.1f km%s\n", row.Sport, row.KIK, trophy)
	}

	b.WriteString("\nSIK:\n")
	for _, row := range report.Rows {
		trophy := ""
		if row.SIK > row.KIK {
			trophy = " \U0001F3C6"
		}
		fmt.Fprintf(&b, " - %s: %.1f km%s\n", row.Sport, row.SIK, trophy)
	}

	return b.String()
}

func renderPersonal(user domain.User, report service.PersonalReport) string {
	var b strings.Builder
	if user.HasGuild() {
		fmt.Fprintf(&b, "Your personal stats for %s are:\n\n", *user.Guild)
	} else {
		b.WriteString("Your personal stats are:\n\n")
	}
	for _, total := range report.Totals {
		fmt.Fprintf(&b, "%s: %.1fkm\n", total.Sport, total.Total)
	}
	return b.String()
}

func renderDaily(report service.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily stats for %s\n\n", report.Day.Format("2006-01-02"))

	b.WriteString("KIK:\n")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, " - %s: %.1f km\n", row.Sport, row.KIK)
	}
	b.WriteString("\nSIK:\n")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, " - %s: %.1f km\n", row.Sport, row.SIK)
	}

	b.WriteString("\nKIK top 10\n")
	writeContributors(&b, report.TopKIK)
	b.WriteString("\nSIK top 10\n")
	writeContributors(&b, report.TopSIK)

	return b.String()
}

func renderAllTime(report service.TotalReport) string {
	type key struct {
		guild domain.Guild
		sport domain.Sport
	}
	rows := make(map[key]storage.GuildSportTotal, len(report.Totals))
	for _, row := range report.Totals {
		rows[key{row.Guild, row.Sport}] = row
	}

	var b strings.Builder
	for _, guild := range domain.Guilds() {
		for _, sport := range domain.Sports() {
			row := rows[key{guild, sport}]
			fmt.Fprintf(&b, "%s %s: %.1fkm and %d entries\n", guild, sport, row.Total, row.Entries)
		}
		b.WriteString("\n")
	}

	b.WriteString("KIK top 5\n")
	writeContributors(&b, report.TopKIK)
	b.WriteString("\nSIK top 5\n")
	writeContributors(&b, report.TopSIK)

	return b.String()
}

func writeContributors(b *strings.Builder, contributors []storage.Contributor) {
	for i, contributor := range contributors {
		fmt.Fprintf(b, "  %d. %s: %.1f km\n", i+1, format.EscapeMarkdown(contributor.UserName), contributor.Total)
	}
}
