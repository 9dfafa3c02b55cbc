package arena

import (
	"path/filepath"
	"sync"
	"testing"
)

func openTestHistory(t *testing.T) *RoundHistory {
	t.Helper()
	history, err := OpenRoundHistory(filepath.Join(t.TempDir(), "rounds.db"), quietLogger)
	if err != nil {
		t.Fatalf("OpenRoundHistory: %v", err)
	}
	t.Cleanup(func() { history.Close() })
	return history
}

func TestLeaderboardRanksByWinsThenPoints(t *testing.T) {
	history := openTestHistory(t)
	rounds := []RoundResult{
		{Round: 1, RedName: "Gunnerside", BlueName: "lazy", RedScore: 300, BlueScore: 100, Turns: 80, Winner: "red"},
		{Round: 2, RedName: "lazy", BlueName: "Gunnerside", RedScore: 0, BlueScore: 50, Turns: 90, Winner: "blue"},
		{Round: 3, RedName: "greedy", BlueName: "lazy", RedScore: 400, BlueScore: 400, Turns: 100, Winner: "draw"},
	}
	for _, r := range rounds {
		if err := history.SaveRound(r); err != nil {
			t.Fatalf("SaveRound: %v", err)
		}
	}

	count, err := history.GetTotalRoundCount()
	if err != nil || count != 3 {
		t.Fatalf("count %d err %v", count, err)
	}

	board, err := history.GetLeaderboard(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []Standing{
		{StrategyName: "Gunnerside", Rounds: 2, Wins: 2, TotalPoints: 350},
		{StrategyName: "lazy", Rounds: 3, Wins: 0, TotalPoints: 500},
		{StrategyName: "greedy", Rounds: 1, Wins: 0, TotalPoints: 400},
	}
	if len(board) != len(want) {
		t.Fatalf("leaderboard %+v", board)
	}
	for i := range want {
		if board[i] != want[i] {
			t.Errorf("rank %d: got %+v, want %+v", i+1, board[i], want[i])
		}
	}

	page, err := history.GetLeaderboard(1, 1)
	if err != nil || len(page) != 1 || page[0].StrategyName != "lazy" {
		t.Fatalf("second page %+v err %v", page, err)
	}
}

func TestRecentRoundsNewestFirst(t *testing.T) {
	history := openTestHistory(t)
	for i := 1; i <= 3; i++ {
		if err := history.SaveRound(RoundResult{Round: i, RedName: "a", BlueName: "b", Turns: i, Winner: "draw"}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := history.GetRecentRounds(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Turns != 3 || recent[1].Turns != 2 {
		t.Fatalf("recent rounds %+v", recent)
	}
}

func TestResultRecorderFlushesOnClose(t *testing.T) {
	history := openTestHistory(t)
	recorder := NewResultRecorder(history, quietLogger)
	for i := 1; i <= 5; i++ {
		recorder.Record(RoundResult{Round: i, RedName: "a", BlueName: "b", Winner: "draw"})
	}
	recorder.Close()
	recorder.Close()

	count, err := history.GetTotalRoundCount()
	if err != nil || count != 5 {
		t.Fatalf("count %d err %v", count, err)
	}
}

func TestResultRecorderDropsResultsAfterClose(t *testing.T) {
	history := openTestHistory(t)
	recorder := NewResultRecorder(history, quietLogger)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(round int) {
			defer wg.Done()
			recorder.Record(RoundResult{Round: round, RedName: "a", BlueName: "b", Winner: "draw"})
		}(i)
	}
	recorder.Close()
	wg.Wait()
	recorder.Record(RoundResult{Round: 21, RedName: "a", BlueName: "b", Winner: "draw"})

	count, err := history.GetTotalRoundCount()
	if err != nil || count > 20 {
		t.Fatalf("count %d err %v", count, err)
	}
}
