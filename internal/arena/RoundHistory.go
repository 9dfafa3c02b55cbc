package arena

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

const roundsTable = "rounds"

// RoundHistory persists finished rounds in SQLite.
type RoundHistory struct {
	db     *sql.DB
	logger *log.Logger
}

type RecordedRound struct {
	ID        int
	RedName   string
	BlueName  string
	RedScore  int
	BlueScore int
	Turns     int
	Winner    string
	CreatedAt time.Time
}

// Standing aggregates every recorded round of one strategy.
type Standing struct {
	StrategyName string
	Rounds       int
	Wins         int
	TotalPoints  int
}

func OpenRoundHistory(path string, logger *log.Logger) (*RoundHistory, error) {
	if logger == nil {
		logger = log.Default()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	history := &RoundHistory{db: db, logger: logger}
	if err := history.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return history, nil
}

func (h *RoundHistory) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + roundsTable + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		red_name TEXT NOT NULL,
		blue_name TEXT NOT NULL,
		red_score INTEGER NOT NULL,
		blue_score INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		winner TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := h.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	h.logger.Debug("Rounds table ensured")
	return nil
}

func (h *RoundHistory) SaveRound(result RoundResult) error {
	const insertSQL = `
	INSERT INTO ` + roundsTable + ` (red_name, blue_name, red_score, blue_score, turns, winner)
	VALUES (?, ?, ?, ?, ?, ?);`

	_, err := h.db.Exec(insertSQL, result.RedName, result.BlueName,
		result.RedScore, result.BlueScore, result.Turns, result.Winner)
	if err != nil {
		return fmt.Errorf("failed to insert round %d: %w", result.Round, err)
	}
	return nil
}

// GetLeaderboard ranks strategies by wins, then by total points.
func (h *RoundHistory) GetLeaderboard(limit, offset int) ([]Standing, error) {
	const selectSQL = `
	SELECT name, COUNT(*), SUM(won), SUM(points)
	FROM (
		SELECT red_name AS name, red_score AS points, winner = 'red' AS won FROM ` + roundsTable + `
		UNION ALL
		SELECT blue_name AS name, blue_score AS points, winner = 'blue' AS won FROM ` + roundsTable + `
	)
	GROUP BY name
	ORDER BY SUM(won) DESC, SUM(points) DESC, name ASC
	LIMIT ? OFFSET ?;`

	rows, err := h.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var standings []Standing
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.StrategyName, &s.Rounds, &s.Wins, &s.TotalPoints); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		standings = append(standings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return standings, nil
}

// GetRecentRounds returns rounds newest first.
func (h *RoundHistory) GetRecentRounds(limit int) ([]RecordedRound, error) {
	const selectSQL = `
	SELECT id, red_name, blue_name, red_score, blue_score, turns, winner, created_at
	FROM ` + roundsTable + `
	ORDER BY id DESC
	LIMIT ?;`

	rows, err := h.db.Query(selectSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []RecordedRound
	for rows.Next() {
		var r RecordedRound
		var createdAt string
		err := rows.Scan(&r.ID, &r.RedName, &r.BlueName, &r.RedScore, &r.BlueScore,
			&r.Turns, &r.Winner, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = parsed
		} else {
			h.logger.Debug("Could not parse round timestamp", "id", r.ID, "raw", createdAt, "error", err)
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return rounds, nil
}

func (h *RoundHistory) GetTotalRoundCount() (int, error) {
	const countSQL = `SELECT COUNT(*) FROM ` + roundsTable + `;`
	var count int
	if err := h.db.QueryRow(countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get total round count: %w", err)
	}
	return count, nil
}

func (h *RoundHistory) Close() error {
	return h.db.Close()
}
