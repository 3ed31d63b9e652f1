package events

import (
	"fmt"

	tbapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/prandsen/telebot/lib/trigger"
)

var todayRoles = []string{
	"главный либераха чата",
	"тайный фанат 1984",
	"бот, который притворяется человеком",
	"скрытый гений",
	"тот, кто опять не смотрел видос",
	"просто даун",
}

// jokes makes two inline results about the user, texts are random on every call
func jokes(user string, picker trigger.Picker) []interface{} {
	percent := tbapi.NewInlineQueryResultArticle("percent", "Насколько я даун?",
		fmt.Sprintf("%s даун на %d%%", user, picker.IntN(101)))
	percent.Description = "Узнай правду"

	role := tbapi.NewInlineQueryResultArticle("role", "Кто я сегодня?",
		fmt.Sprintf("%s сегодня %s", user, todayRoles[picker.IntN(len(todayRoles))]))
	role.Description = "Гороскоп на сегодня"

	return []interface{}{percent, role}
}
