package player

import (
	"database/sql"
	"fmt"
)

// Player holds a chat's lifetime results. The bank is deliberately absent:
// it lives in the session's ledger and resets with the process.
type Player struct {
	ChatID int64
	Wins   int
	Losses int
	Pushes int
	Rounds int
}

type Stats struct {
	ChatID  int64
	Wins    int
	Rounds  int
	WinRate float64
}

type Repository interface {
	GetOrCreate(chatID int64) (*Player, error)
	Save(player *Player) error
	GetTopByWins(limit int) ([]Stats, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetOrCreate(chatID int64) (*Player, error) {
	player := &Player{ChatID: chatID}

	err := r.db.QueryRow(`
		SELECT wins, losses, pushes, rounds
		FROM players WHERE chat_id = ?
	`, chatID).Scan(
		&player.Wins, &player.Losses, &player.Pushes, &player.Rounds,
	)

	if err == sql.ErrNoRows {
		_, err = r.db.Exec(`
			INSERT INTO players (chat_id) VALUES (?)
		`, chatID)

		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return player, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (r *SQLiteRepository) Save(player *Player) error {
	_, err := r.db.Exec(`
		UPDATE players SET
			wins = ?, losses = ?, pushes = ?, rounds = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE chat_id = ?
	`, player.Wins, player.Losses, player.Pushes, player.Rounds, player.ChatID)

	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTopByWins(limit int) ([]Stats, error) {
	rows, err := r.db.Query(`
		SELECT chat_id, wins, rounds
		FROM players
		WHERE rounds > 0
		ORDER BY wins DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.ChatID, &s.Wins, &s.Rounds); err != nil {
			return nil, err
		}
		if s.Rounds > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Rounds) * 100
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (p *Player) AddWin() {
	p.Wins++
	p.Rounds++
}

func (p *Player) AddLoss() {
	p.Losses++
	p.Rounds++
}

func (p *Player) AddPush() {
	p.Pushes++
	p.Rounds++
}

func (p *Player) WinRate() float64 {
	if p.Rounds == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Rounds) * 100
}
