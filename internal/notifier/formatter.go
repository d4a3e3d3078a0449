package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// FormatSignalAlert formats one BUY signal into a Telegram message.
func FormatSignalAlert(s model.Signal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚀 <b>%s</b> %s | %s\n\n", html.EscapeString(s.Symbol), s.Action, s.Timeframe))
	b.WriteString(fmt.Sprintf("Entry: %.2f\n", s.BuyPrice))
	b.WriteString(fmt.Sprintf("Stop: %.2f | Target: %.2f\n", s.StopLoss, s.Target))
	b.WriteString(fmt.Sprintf("Confidence: %.2f\n", s.Confidence))
	b.WriteString(fmt.Sprintf("Holding: %s (%s)\n", s.HoldingDuration, html.EscapeString(s.HoldingReason)))
	if s.Reasons != "" {
		b.WriteString("\n📈 <b>Reasons:</b>\n")
		for _, r := range strings.Split(s.Reasons, model.ReasonSeparator) {
			b.WriteString("  • " + html.EscapeString(r) + "\n")
		}
	}
	b.WriteString(fmt.Sprintf("\n<i>%s UTC</i>", s.SignalTime.UTC().Format("2006-01-02 15:04")))
	return b.String()
}

// FormatRunSummary formats the outcome of one scan.
func FormatRunSummary(signals []model.Signal, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Breakout scan</b> | %s\n\n", at.UTC().Format("2006-01-02 15:04")))
	if len(signals) == 0 {
		b.WriteString("No qualifying signals.")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%d signal(s):\n", len(signals)))
	for _, s := range signals {
		b.WriteString(fmt.Sprintf("  %s @ %.2f  conf %.2f  %s\n",
			html.EscapeString(s.Symbol), s.BuyPrice, s.Confidence, s.HoldingDuration))
	}
	return b.String()
}

// FormatTestAlert is the message sent by the alert self-test.
func FormatTestAlert(at time.Time) string {
	return fmt.Sprintf("✅ <b>BreakoutSentinel</b> test alert | %s", at.UTC().Format("2006-01-02 15:04:05"))
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🤖 <b>Commands</b>\n\n")
	b.WriteString("/signals - latest snapshot\n")
	b.WriteString("/run - scan the universe now\n")
	b.WriteString("/help - this message\n")
	return b.String()
}
