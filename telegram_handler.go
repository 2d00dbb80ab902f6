package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/mozillazg/go-unidecode"

	"github.com/vamsi260801-bit/nhfs/domain/models"
	"github.com/vamsi260801-bit/nhfs/explorer"
	"github.com/vamsi260801-bit/nhfs/plot"
)

// telegram messages are limited to 4096 characters
const maxMessageLen = 4000

const welcomeText = `Hi! I answer questions about the National Family Health Survey.

Commands:
/domains - states, survey rounds and areas
/indicators - numbered list of indicators
/kpi <state>; <area>; <indicator> - latest value
/trend <state>; <area>; <indicator> - value across survey rounds
/compare <survey>; <area>; <indicator> - all states for one survey round

The indicator can be its name or its number from /indicators.
Example: /trend Kerala; Total; 3`

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramBot struct {
	api botSender
	ex  *explorer.Explorer
}

func newTelegramBot(api botSender, ex *explorer.Explorer) *telegramBot {
	return &telegramBot{api: api, ex: ex}
}

func runBot(ctx context.Context, api *tgbotapi.BotAPI, b *telegramBot) error {
	log.Printf("Authorized on account %s", api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("get updates: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go b.handleMessage(update.Message)
		}
	}
}

func (b *telegramBot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := splitArgs(message.CommandArguments())

	switch message.Command() {
	case "start", "help", "":
		b.reply(chatID, welcomeText)
	case "domains":
		b.handleDomains(chatID)
	case "indicators":
		b.handleIndicators(chatID)
	case "kpi":
		b.handleKPI(chatID, args)
	case "trend":
		b.handleTrend(chatID, args)
	case "compare":
		b.handleCompare(chatID, args)
	default:
		b.reply(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (b *telegramBot) handleDomains(chatID int64) {
	d := b.ex.Domains()
	text := fmt.Sprintf("States (%d): %s\n\nSurveys: %s\n\nAreas: %s\n\nIndicators: %d, see /indicators",
		len(d.Regions), strings.Join(d.Regions, ", "),
		strings.Join(d.Surveys, ", "),
		strings.Join(d.Areas, ", "),
		len(d.Indicators))
	b.reply(chatID, text)
}

func (b *telegramBot) handleIndicators(chatID int64) {
	lines := make([]string, 0, len(b.ex.Domains().Indicators))
	for i, name := range b.ex.Domains().Indicators {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, name))
	}
	for _, chunk := range chunkLines(lines, maxMessageLen) {
		b.reply(chatID, chunk)
	}
}

func (b *telegramBot) handleKPI(chatID int64, args []string) {
	d, err := b.dashboardFor(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if d.KPI == nil {
		b.reply(chatID, msgNoSelectionData)
		return
	}
	b.reply(chatID, fmt.Sprintf("%s: %s\n%s, %s", d.KPI.Label, formatKPIValue(d.KPI.Value), d.Selection.Region, d.Selection.Area))
}

func (b *telegramBot) handleTrend(chatID int64, args []string) {
	d, err := b.dashboardFor(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	png, err := plot.DrawTrendLine(d.Trend, d.TrendTitle)
	if errors.Is(err, plot.ErrNoData) {
		b.reply(chatID, msgNoChartData)
		return
	}
	if err != nil {
		log.Printf("render trend chart: %v", err)
		b.reply(chatID, "Cannot draw the chart, try again later.")
		return
	}
	sendGraphVisualization(b.api, chatID, png, "trend", d.Selection.Region, d.TrendTitle)
}

func (b *telegramBot) handleCompare(chatID int64, args []string) {
	if len(args) != 3 {
		b.reply(chatID, "Usage: /compare <survey>; <area>; <indicator>")
		return
	}
	d := b.ex.Domains()
	survey, ok := matchValue(d.Surveys, args[0])
	if !ok {
		b.reply(chatID, unknownValue("survey", args[0], d.Surveys))
		return
	}
	area, ok := matchValue(d.Areas, args[1])
	if !ok {
		b.reply(chatID, unknownValue("area", args[1], d.Areas))
		return
	}
	name, ok := matchIndicator(d.Indicators, args[2])
	if !ok {
		b.reply(chatID, fmt.Sprintf("Unknown indicator %q, see /indicators", args[2]))
		return
	}

	ind, _ := b.ex.Dataset().Indicator(name)
	rows := explorer.ComputeComparison(b.ex.Dataset().Records, survey, area, ind)
	title := fmt.Sprintf("%s - %s", ind.Name, survey)
	png, err := plot.DrawComparisonBar(rows, title)
	if errors.Is(err, plot.ErrNoData) {
		b.reply(chatID, msgNoChartData)
		return
	}
	if err != nil {
		log.Printf("render comparison chart: %v", err)
		b.reply(chatID, "Cannot draw the chart, try again later.")
		return
	}
	sendGraphVisualization(b.api, chatID, png, "comparison", area, title,
		formatComparisonStats(explorer.SummarizeComparison(rows)))
}

// dashboardFor resolves "<state>; <area>; <indicator>" over every survey round.
func (b *telegramBot) dashboardFor(args []string) (*models.Dashboard, error) {
	if len(args) != 3 {
		return nil, errors.New("Usage: <state>; <area>; <indicator>, for example: Kerala; Total; 1")
	}
	d := b.ex.Domains()
	sel := b.ex.DefaultSelection()

	var ok bool
	if sel.Region, ok = matchValue(d.Regions, args[0]); !ok {
		return nil, errors.New(unknownValue("state", args[0], nil) + ", see /domains")
	}
	if sel.Area, ok = matchValue(d.Areas, args[1]); !ok {
		return nil, errors.New(unknownValue("area", args[1], d.Areas))
	}
	if sel.Indicator, ok = matchIndicator(d.Indicators, args[2]); !ok {
		return nil, fmt.Errorf("Unknown indicator %q, see /indicators", args[2])
	}
	return b.ex.Build(sel)
}

func (b *telegramBot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to %d: %v", chatID, err)
	}
}

func formatComparisonStats(s *models.ComparisonStats) string {
	if s == nil {
		return ""
	}
	text := fmt.Sprintf("%d states, median %.2f, range %.2f - %.2f", s.Count, s.Median, s.Min, s.Max)
	if len(s.Outliers) > 0 {
		text += ", outliers: " + strings.Join(s.Outliers, ", ")
	}
	return text
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(unidecode.Unidecode(s)), " "))
}

// matchValue finds input in values ignoring case, spacing and diacritics.
func matchValue(values []string, input string) (string, bool) {
	want := normalize(input)
	for _, v := range values {
		if normalize(v) == want {
			return v, true
		}
	}
	return "", false
}

// matchIndicator accepts an indicator name or its 1-based number.
func matchIndicator(indicators []string, input string) (string, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(input)); err == nil {
		if n >= 1 && n <= len(indicators) {
			return indicators[n-1], true
		}
		return "", false
	}
	return matchValue(indicators, input)
}

func unknownValue(field, input string, allowed []string) string {
	msg := fmt.Sprintf("Unknown %s %q", field, input)
	if len(allowed) > 0 {
		msg += ". Allowed: " + strings.Join(allowed, ", ")
	}
	return msg
}

func chunkLines(lines []string, limit int) []string {
	var chunks []string
	var sb strings.Builder
	for _, line := range lines {
		if sb.Len() > 0 && sb.Len()+len(line)+1 > limit {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}
