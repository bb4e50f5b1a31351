// Package notify pushes payment alerts to the operator's Telegram
// chat. Optional: the app runs fine with no token configured.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/ledger"
	"github.com/z2hlabs/edudesk/internal/domain/report"
)

type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// SendOutstanding messages the admin chat with every student that
// still owes money, one line each with the remaining balance.
func (n *Notifier) SendOutstanding(st core.State) error {
	students := report.OutstandingStudents(st)
	if len(students) == 0 {
		msg := tgbotapi.NewMessage(n.chatID, "All balances settled ✅")
		_, err := n.bot.Send(msg)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Outstanding balances (%d):\n", len(students))
	for _, s := range students {
		bal := report.StudentBalance(st, s.ID)
		fmt.Fprintf(&b, "• %s — %s\n", s.Name, ledger.Format(bal.Remaining, st.Settings.Currency))
	}
	msg := tgbotapi.NewMessage(n.chatID, b.String())
	_, err := n.bot.Send(msg)
	return err
}
