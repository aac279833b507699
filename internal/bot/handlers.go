package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"twentyone/internal/config"
	"twentyone/internal/game"
	"twentyone/internal/player"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Handler struct {
	bot      *tgbotapi.BotAPI
	cfg      *config.Config
	players  player.Repository
	sessions *Sessions
}

func NewHandler(bot *tgbotapi.BotAPI, cfg *config.Config, repo player.Repository) *Handler {
	return &Handler{
		bot:      bot,
		cfg:      cfg,
		players:  repo,
		sessions: NewSessions(),
	}
}

// ============== HELPERS ==============

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	h.bot.Request(tgbotapi.NewCallback(id, text))
}

// getSession returns the chat's running session, opening a fresh table with
// the configured bank when the chat has none yet.
func (h *Handler) getSession(chatID int64) (*Session, error) {
	if s := h.sessions.Get(chatID); s != nil {
		return s, nil
	}

	p, err := h.players.GetOrCreate(chatID)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Table:  game.NewTable(h.cfg.StartBank, h.cfg.MinBet, game.StdRNG),
		Player: p,
	}
	s.Table.SetObserver(func(snap game.Snapshot) {
		s.Last = snap
	})
	s.Last = s.Table.Snapshot()

	h.sessions.Set(chatID, s)
	return s, nil
}

func (h *Handler) savePlayer(p *player.Player) {
	if err := h.players.Save(p); err != nil {
		log.Printf("Failed to save player: %v", err)
	}
}

// ============== FORMATTING ==============

func formatCards(cards []game.Card) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}

func resultText(tag string, r game.Result) string {
	switch r {
	case game.ResultWin:
		return fmt.Sprintf("🎉 %s hand wins!", tag)
	case game.ResultLoss:
		return fmt.Sprintf("😔 %s hand loses!", tag)
	case game.ResultPush:
		return fmt.Sprintf("🤝 %s hand pushes!", tag)
	}
	return ""
}

func renderSnapshot(s game.Snapshot) string {
	var sb strings.Builder

	if s.RoundID == "" {
		sb.WriteString("🎰 Place your bets!\n\n")
		sb.WriteString(fmt.Sprintf("💰 Bet: %d\n💵 Bank: %d", s.Main.Bet, s.Bank))
		return sb.String()
	}

	if s.HoleHidden {
		up := s.Dealer.Cards[0]
		sb.WriteString(fmt.Sprintf("🃏 Dealer: %s 🂠 (%d + ?)\n", up, game.Score([]game.Card{up})))
	} else {
		sb.WriteString(fmt.Sprintf("🃏 Dealer: %s (%d)\n", formatCards(s.Dealer.Cards), s.Dealer.Score))
	}

	mainMark := ""
	splitMark := ""
	if s.Split != nil && s.Phase == game.PhasePlayerTurn {
		if s.Active == game.MainHand {
			mainMark = " 👈"
		} else {
			splitMark = " 👈"
		}
	}

	sb.WriteString(fmt.Sprintf("🎴 You: %s (%d) — bet %d%s\n",
		formatCards(s.Main.Cards), s.Main.Score, s.Main.Bet, mainMark))
	if s.Split != nil {
		sb.WriteString(fmt.Sprintf("✂️ Split: %s (%d) — bet %d%s\n",
			formatCards(s.Split.Cards), s.Split.Score, s.Split.Bet, splitMark))
	}

	if s.Phase == game.PhaseSettled {
		sb.WriteString("\n" + resultText("Main", s.Main.Result))
		if s.Split != nil {
			sb.WriteString("\n" + resultText("Split", s.Split.Result))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n💵 Bank: %d", s.Bank))
	return sb.String()
}

// keyboardFor picks the keyboard matching the snapshot's phase. Button
// availability is cosmetic; the engine enforces every precondition itself.
func (h *Handler) keyboardFor(s game.Snapshot) tgbotapi.InlineKeyboardMarkup {
	switch s.Phase {
	case game.PhaseBetting:
		return BettingKeyboard(h.cfg.BetChips)
	case game.PhasePlayerTurn:
		active := s.Main
		if s.Active == game.SplitHand && s.Split != nil {
			active = *s.Split
		}
		canSplit := s.Active == game.MainHand && s.Split == nil &&
			len(s.Main.Cards) == 2 &&
			s.Main.Cards[0].Rank == s.Main.Cards[1].Rank &&
			s.Bank >= s.Main.Bet
		return GameKeyboard(GameKeyboardOptions{
			CanDouble: s.Bank >= active.Bet,
			CanSplit:  canSplit,
		})
	default:
		return EndRoundKeyboard()
	}
}

func (h *Handler) renderState(chatID int64, s *Session) {
	// No buttons while the dealer draws; every action is rejected anyway.
	if s.Last.Phase == game.PhaseDealerTurn {
		h.send(chatID, renderSnapshot(s.Last))
		return
	}
	h.sendWithKeyboard(chatID, renderSnapshot(s.Last), h.keyboardFor(s.Last))
}

func errorText(err error) string {
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		return "Not enough funds!"
	case errors.Is(err, game.ErrSplitNotAllowed):
		return "This hand cannot be split"
	case errors.Is(err, game.ErrIllegalAction):
		return "Not now"
	}
	return "Error"
}

// ============== COMMAND HANDLERS ==============

func (h *Handler) HandleStart(chatID int64) {
	if _, err := h.getSession(chatID); err != nil {
		h.send(chatID, "❌ Something went wrong. Try again later.")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"🎰 Welcome to the blackjack table!\n\n"+
			"💵 Your bank: %d (minimum bet %d)\n\n"+
			"/play — sit down\n"+
			"/stats — your record\n"+
			"/top — leaderboard\n"+
			"/help — rules",
		h.cfg.StartBank, h.cfg.MinBet))
}

func (h *Handler) HandleHelp(chatID int64) {
	h.send(chatID,
		"📖 Rules:\n\n"+
			"🎯 Beat the dealer without going over 21\n\n"+
			"📊 Card values:\n"+
			"• 2-10 — face value\n"+
			"• J, Q, K — 10\n"+
			"• A — 11 or 1\n\n"+
			"🎮 Actions:\n"+
			"• Hit — take a card\n"+
			"• Stand — stop\n"+
			"• Double — double the bet, one card, forced stand\n"+
			"• Split — split a pair into two hands\n\n"+
			"🃏 Dealer draws to 17. Wins pay 1:1.")
}

func (h *Handler) HandleStats(chatID int64) {
	s, err := h.getSession(chatID)
	if err != nil {
		h.send(chatID, "❌ Error")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"📊 Your record:\n\n"+
			"🎮 Hands: %d\n"+
			"✅ Wins: %d (%.1f%%)\n"+
			"❌ Losses: %d\n"+
			"🤝 Pushes: %d\n\n"+
			"💵 Bank this session: %d",
		s.Player.Rounds, s.Player.Wins, s.Player.WinRate(),
		s.Player.Losses, s.Player.Pushes, s.Last.Bank))
}

func (h *Handler) HandleTop(chatID int64) {
	stats, err := h.players.GetTopByWins(10)
	if err != nil {
		h.send(chatID, "❌ Error")
		return
	}

	if len(stats) == 0 {
		h.send(chatID, "🏆 Nobody has played yet!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top players:\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, s := range stats {
		medal := fmt.Sprintf("%d.", i+1)
		if i < 3 {
			medal = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s %d wins | %d hands (%.0f%%)\n",
			medal, s.Wins, s.Rounds, s.WinRate))
	}

	h.send(chatID, sb.String())
}

func (h *Handler) HandlePlay(chatID int64) {
	s, err := h.getSession(chatID)
	if err != nil {
		h.send(chatID, "❌ Error")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h.renderState(chatID, s)
}

// ============== CALLBACK HANDLERS ==============

func (h *Handler) HandleCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	s, err := h.getSession(chatID)
	if err != nil {
		h.answerCallback(callback.ID, "Error")
		return
	}

	if data == CallbackStats {
		h.answerCallback(callback.ID, "")
		h.HandleStats(chatID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := h.dispatch(chatID, s, data); err != nil {
		h.answerCallback(callback.ID, errorText(err))
		return
	}

	h.answerCallback(callback.ID, "")
}

// dispatch runs one table command and renders the outcome. A rejected
// command renders nothing: the table state did not change.
func (h *Handler) dispatch(chatID int64, s *Session, data string) error {
	if amount, ok := strings.CutPrefix(data, betCallbackPrefix); ok {
		chip, err := strconv.Atoi(amount)
		if err != nil {
			return game.ErrIllegalAction
		}
		if err := s.Table.PlaceBet(chip); err != nil {
			return err
		}
		h.renderState(chatID, s)
		return nil
	}

	var err error
	switch data {
	case CallbackDeal:
		err = s.Table.Deal()
	case CallbackHit:
		err = s.Table.Hit()
	case CallbackStand:
		err = s.Table.Stand()
	case CallbackDouble:
		err = s.Table.Double()
	case CallbackSplit:
		err = s.Table.Split()
	case CallbackNextRound:
		err = s.Table.NextRound()
		if errors.Is(err, game.ErrInsufficientFunds) {
			// Betting reopened but the bank is short of the minimum.
			h.send(chatID, "💸 The bank cannot cover the minimum bet. /start for a fresh table.")
			h.sessions.Delete(chatID)
			return nil
		}
	default:
		err = game.ErrIllegalAction
	}
	if err != nil {
		return err
	}

	h.renderState(chatID, s)

	if s.Table.Phase() == game.PhaseDealerTurn {
		h.runDealer(chatID, s)
	}
	if s.Table.Phase() == game.PhaseSettled {
		h.recordResults(s)
	}
	return nil
}

// runDealer paces the dealer's draws, one discrete step per delay. Pacing is
// purely presentational; the engine orders the draws.
func (h *Handler) runDealer(chatID int64, s *Session) {
	for {
		time.Sleep(h.cfg.DealerDelay)

		done, err := s.Table.DealerStep()
		if err != nil {
			log.Printf("dealer step: %v", err)
			return
		}

		h.renderState(chatID, s)
		if done {
			return
		}
	}
}

// recordResults folds the settled round into the player's lifetime record,
// one result per played hand.
func (h *Handler) recordResults(s *Session) {
	record := func(r game.Result) {
		switch r {
		case game.ResultWin:
			s.Player.AddWin()
		case game.ResultLoss:
			s.Player.AddLoss()
		case game.ResultPush:
			s.Player.AddPush()
		}
	}

	record(s.Last.Main.Result)
	if s.Last.Split != nil {
		record(s.Last.Split.Result)
	}

	h.savePlayer(s.Player)
}

// ============== MESSAGE HANDLER ==============

func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	parts := strings.Fields(msg.Text)

	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case "/start":
		h.HandleStart(chatID)
	case "/help":
		h.HandleHelp(chatID)
	case "/play":
		h.HandlePlay(chatID)
	case "/stats":
		h.HandleStats(chatID)
	case "/top":
		h.HandleTop(chatID)
	}
}
