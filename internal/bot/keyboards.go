package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	CallbackDeal      = "deal"
	CallbackHit       = "hit"
	CallbackStand     = "stand"
	CallbackDouble    = "double"
	CallbackSplit     = "split"
	CallbackNextRound = "next_round"
	CallbackStats     = "stats"

	betCallbackPrefix = "bet:"
)

// BettingKeyboard offers the chip buttons and the deal.
func BettingKeyboard(chips []int) tgbotapi.InlineKeyboardMarkup {
	var chipRow []tgbotapi.InlineKeyboardButton
	for _, chip := range chips {
		chipRow = append(chipRow, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("+%d", chip),
			fmt.Sprintf("%s%d", betCallbackPrefix, chip),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		chipRow,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎴 Deal", CallbackDeal),
		),
	)
}

type GameKeyboardOptions struct {
	CanDouble bool
	CanSplit  bool
}

func GameKeyboard(opts GameKeyboardOptions) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("👊 Hit", CallbackHit),
		tgbotapi.NewInlineKeyboardButtonData("✋ Stand", CallbackStand),
	}

	if opts.CanDouble {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("💰 Double", CallbackDouble))
	}
	if opts.CanSplit {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✂️ Split", CallbackSplit))
	}

	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func EndRoundKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Next round", CallbackNextRound),
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", CallbackStats),
		),
	)
}
