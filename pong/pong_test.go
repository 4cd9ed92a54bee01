// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package pong

import (
	"image"
	"image/color"
	"slices"
	"testing"
)

// recorder captures draw calls.
type recorder struct {
	cleared int
	fills   []image.Rectangle
	lines   []string
}

func (r *recorder) Clear() {
	r.cleared++
}

func (r *recorder) Fill(rect image.Rectangle, _ color.Color) {
	r.fills = append(r.fills, rect)
}

func (r *recorder) DrawStringCentered(_ int, _ color.Color, str string) {
	r.lines = append(r.lines, str)
}

func testGame() *Game {
	return New(Config{Width: 640, Height: 480})
}

func TestNewDefaults(t *testing.T) {
	g := testGame()

	if g.cfg.PaddleHeight != DefaultPaddleHeight ||
		g.cfg.BallStep != DefaultBallStep ||
		g.cfg.PaddleStep != DefaultPaddleStep ||
		g.cfg.WinScore != DefaultWinScore {
		t.Errorf("defaults not applied: %+v", g.cfg)
	}

	if g.Mode() != Menu {
		t.Errorf("initial mode %v", g.Mode())
	}

	if g.ballX != 320 || g.ballY != 240 || g.p1Y != 240 || g.p2Y != 240 {
		t.Errorf("not centered: ball %d,%d paddles %d %d", g.ballX, g.ballY, g.p1Y, g.p2Y)
	}
}

func TestResize(t *testing.T) {
	g := New(Config{})
	g.Resize(800, 600)

	if g.cfg.Width != 800 || g.cfg.Height != 600 {
		t.Errorf("dimensions %dx%d", g.cfg.Width, g.cfg.Height)
	}

	if g.ballX != 400 || g.ballY != 300 {
		t.Errorf("ball not recentered: %d,%d", g.ballX, g.ballY)
	}
}

func TestModeString(t *testing.T) {
	for m, s := range map[Mode]string{
		Menu:      "menu",
		OnePlayer: "one player",
		TwoPlayer: "two player",
		GameOver:  "game over",
		Mode(99):  "unknown",
	} {
		if m.String() != s {
			t.Errorf("Mode(%d) is %q, expected %q", m, m.String(), s)
		}
	}
}

func TestMenuSelection(t *testing.T) {
	rec := &recorder{}

	g := testGame()
	g.HandleKey('1', rec)

	if g.Mode() != OnePlayer {
		t.Errorf("mode %v after 1", g.Mode())
	}

	g = testGame()
	g.HandleKey('2', rec)

	if g.Mode() != TwoPlayer {
		t.Errorf("mode %v after 2", g.Mode())
	}

	// selection keys are menu only, replay keys game over only
	g.HandleKey('1', rec)

	if g.Mode() != TwoPlayer {
		t.Errorf("mode %v after 1 while playing", g.Mode())
	}

	g = testGame()

	for _, k := range []rune{'r', 'p', 'x'} {
		g.HandleKey(k, rec)

		if g.Mode() != Menu {
			t.Errorf("mode %v after %q in menu", g.Mode(), k)
		}
	}
}

func TestWallBounce(t *testing.T) {
	g := testGame()
	g.mode = TwoPlayer

	// crossing the top edge forces the ball down
	g.ballX, g.ballY = 320, 30
	g.ballDX, g.ballDY = 1, -1

	g.update()

	if g.ballDY != 1 {
		t.Errorf("ballDY %d after top bounce", g.ballDY)
	}

	// crossing the bottom edge forces the ball up
	g.ballX, g.ballY = 320, 450
	g.ballDX, g.ballDY = 1, 1

	g.update()

	if g.ballDY != -1 {
		t.Errorf("ballDY %d after bottom bounce", g.ballDY)
	}

	// a ball still behind the edge keeps the forced direction
	g.ballX, g.ballY = 320, 0
	g.ballDX, g.ballDY = 1, -1

	g.update()

	if g.ballDY != 1 {
		t.Errorf("ballDY %d while behind the top edge", g.ballDY)
	}

	g.update()

	if g.ballDY != 1 {
		t.Errorf("ballDY %d flipped without reaching the bottom", g.ballDY)
	}
}

func TestPaddleBounce(t *testing.T) {
	g := testGame()
	g.mode = TwoPlayer

	// lands at 8,136 inside the left contact band
	g.ballX, g.ballY = 44, 100
	g.ballDX, g.ballDY = -1, 1
	g.p1Y = 100

	g.update()

	if g.ballDX != 1 {
		t.Errorf("ballDX %d after left paddle hit", g.ballDX)
	}

	if g.p1Score != 0 || g.p2Score != 0 {
		t.Errorf("score %d - %d after left paddle hit", g.p1Score, g.p2Score)
	}

	// lands at 630,136 inside the right contact band
	g.ballX, g.ballY = 594, 100
	g.ballDX, g.ballDY = 1, 1
	g.p2Y = 100

	g.update()

	if g.ballDX != -1 {
		t.Errorf("ballDX %d after right paddle hit", g.ballDX)
	}

	// missing the paddle leaves the direction alone
	g.ballX, g.ballY = 44, 300
	g.ballDX, g.ballDY = -1, 1
	g.p1Y = 100

	g.update()

	if g.ballDX != -1 {
		t.Errorf("ballDX %d after miss", g.ballDX)
	}
}

func TestScoring(t *testing.T) {
	g := testGame()
	g.mode = TwoPlayer

	g.ballX, g.ballY = 10, 300
	g.ballDX, g.ballDY = -1, 0

	g.update()

	if g.p2Score != 1 || g.p1Score != 0 {
		t.Errorf("score %d - %d after left exit", g.p1Score, g.p2Score)
	}

	if g.ballX != 320 || g.ballY != 240 {
		t.Errorf("ball %d,%d not recentered", g.ballX, g.ballY)
	}

	if g.ballDX != 1 && g.ballDX != -1 {
		t.Errorf("ballDX %d after serve", g.ballDX)
	}

	if g.mode != GameOver {
		t.Errorf("mode %v at winning score", g.mode)
	}

	g = testGame()
	g.mode = TwoPlayer

	g.ballX, g.ballY = 630, 300
	g.ballDX, g.ballDY = 1, 0

	g.update()

	if g.p1Score != 1 || g.p2Score != 0 {
		t.Errorf("score %d - %d after right exit", g.p1Score, g.p2Score)
	}
}

func TestWinScore(t *testing.T) {
	g := New(Config{Width: 640, Height: 480, WinScore: 3})
	g.mode = TwoPlayer

	for i := 1; i <= 3; i++ {
		g.ballX, g.ballY = 10, 300
		g.ballDX, g.ballDY = -1, 0

		g.update()

		if g.p2Score != i {
			t.Fatalf("score %d after %d exits", g.p2Score, i)
		}

		if i < 3 && g.mode != TwoPlayer {
			t.Fatalf("mode %v at score %d", g.mode, i)
		}
	}

	if g.mode != GameOver {
		t.Errorf("mode %v at winning score", g.mode)
	}

	// an ended game no longer updates
	ballX, ballY := g.ballX, g.ballY
	p1Y, p2Y := g.p1Y, g.p2Y

	for i := 0; i < 5; i++ {
		g.update()
	}

	if g.mode != GameOver {
		t.Errorf("mode %v after game over", g.mode)
	}

	if g.ballX != ballX || g.ballY != ballY {
		t.Errorf("ball moved to %d,%d after game over", g.ballX, g.ballY)
	}

	if g.p1Y != p1Y || g.p2Y != p2Y {
		t.Errorf("paddles moved to %d,%d after game over", g.p1Y, g.p2Y)
	}

	if g.p1Score != 0 || g.p2Score != 3 {
		t.Errorf("score %d - %d after game over", g.p1Score, g.p2Score)
	}
}

func TestReplayKeepsMode(t *testing.T) {
	rec := &recorder{}

	g := testGame()
	g.HandleKey('2', rec)

	g.p2Score = 1
	g.mode = GameOver

	g.HandleKey('p', rec)

	if g.Mode() != TwoPlayer {
		t.Errorf("mode %v after replay", g.Mode())
	}

	if g.p1Score != 0 || g.p2Score != 0 {
		t.Errorf("score %d - %d after replay", g.p1Score, g.p2Score)
	}

	// the single player mode is restored even when the machine won
	g = testGame()
	g.HandleKey('1', rec)

	g.p2Score = 1
	g.mode = GameOver

	g.HandleKey('p', rec)

	if g.Mode() != OnePlayer {
		t.Errorf("mode %v after replay", g.Mode())
	}

	g.p1Score = 1
	g.mode = GameOver

	g.HandleKey('r', rec)

	if g.Mode() != Menu {
		t.Errorf("mode %v after return to menu", g.Mode())
	}

	if g.p1Score != 0 {
		t.Errorf("score %d - %d after return to menu", g.p1Score, g.p2Score)
	}
}

func TestMovePaddle(t *testing.T) {
	rec := &recorder{}
	g := testGame()

	g.HandleKey('w', rec)

	if g.p1Y != 215 {
		t.Errorf("p1Y %d after w", g.p1Y)
	}

	g.HandleKey('s', rec)

	if g.p1Y != 240 {
		t.Errorf("p1Y %d after s", g.p1Y)
	}

	g.p1Y = 10
	g.HandleKey('w', rec)

	if g.p1Y != 0 {
		t.Errorf("p1Y %d not clamped at the top", g.p1Y)
	}

	g.p1Y = 420
	g.HandleKey('s', rec)
	g.HandleKey('s', rec)

	if g.p1Y != 430 {
		t.Errorf("p1Y %d not clamped at the bottom", g.p1Y)
	}
}

func TestSecondPaddleKeys(t *testing.T) {
	rec := &recorder{}

	g := testGame()
	g.HandleKey('1', rec)
	g.HandleKey('i', rec)

	if g.p2Y != 240 {
		t.Errorf("p2Y %d, the machine paddle took a key", g.p2Y)
	}

	g = testGame()
	g.HandleKey('2', rec)
	g.HandleKey('i', rec)

	if g.p2Y != 215 {
		t.Errorf("p2Y %d after i", g.p2Y)
	}

	g.HandleKey('k', rec)

	if g.p2Y != 240 {
		t.Errorf("p2Y %d after k", g.p2Y)
	}
}

func TestMachinePaddle(t *testing.T) {
	g := testGame()
	g.mode = OnePlayer

	// ball below the machine paddle center, one step down
	g.ballX, g.ballY = 320, 240
	g.ballDX, g.ballDY = 1, 1
	g.p2Y = 100

	g.update()

	if g.p2Y != 125 {
		t.Errorf("p2Y %d, expected one step down", g.p2Y)
	}

	// ball above, one step up
	g.ballX, g.ballY = 320, 240
	g.ballDX, g.ballDY = 1, 1
	g.p2Y = 400

	g.update()

	if g.p2Y != 375 {
		t.Errorf("p2Y %d, expected one step up", g.p2Y)
	}

	// ball level with the center, no movement
	g.ballX, g.ballY = 320, 240
	g.ballDX, g.ballDY = 1, 1
	g.p2Y = 226

	g.update()

	if g.p2Y != 226 {
		t.Errorf("p2Y %d, expected no movement", g.p2Y)
	}
}

func TestRender(t *testing.T) {
	rec := &recorder{}

	g := testGame()
	g.Render(rec)

	if rec.cleared != 1 {
		t.Errorf("cleared %d times", rec.cleared)
	}

	if !slices.Contains(rec.lines, "PONG GAME") ||
		!slices.Contains(rec.lines, "Press 1: 1 Player") {
		t.Errorf("menu lines %q", rec.lines)
	}

	if len(rec.fills) != 0 {
		t.Errorf("menu drew %d rectangles", len(rec.fills))
	}

	rec = &recorder{}
	g.HandleKey('1', rec)

	if len(rec.fills) != 3 {
		t.Fatalf("game drew %d rectangles", len(rec.fills))
	}

	if !slices.Contains(rec.fills, image.Rect(10, 240, 11, 290)) {
		t.Errorf("left paddle not drawn: %v", rec.fills)
	}

	if !slices.Contains(rec.fills, image.Rect(630, 240, 631, 290)) {
		t.Errorf("right paddle not drawn: %v", rec.fills)
	}

	if !slices.Contains(rec.fills, image.Rect(314, 234, 327, 247)) {
		t.Errorf("ball not drawn: %v", rec.fills)
	}

	if !slices.Contains(rec.lines, "0 - 0") {
		t.Errorf("score not drawn: %q", rec.lines)
	}

	rec = &recorder{}

	g.p1Score = 1
	g.mode = GameOver
	g.Render(rec)

	if !slices.Contains(rec.lines, "Player 1 Wins!") {
		t.Errorf("winner not drawn: %q", rec.lines)
	}

	rec = &recorder{}

	g.p1Score, g.p2Score = 0, 1
	g.Render(rec)

	if !slices.Contains(rec.lines, "Player 2 Wins!") {
		t.Errorf("winner not drawn: %q", rec.lines)
	}
}

func TestTickMenu(t *testing.T) {
	rec := &recorder{}
	g := testGame()

	g.Tick(rec)

	if g.ballX != 320 || g.ballY != 240 {
		t.Errorf("ball moved in menu: %d,%d", g.ballX, g.ballY)
	}

	if rec.cleared != 1 {
		t.Errorf("cleared %d times", rec.cleared)
	}
}

func TestLockReleased(t *testing.T) {
	rec := &recorder{}
	g := testGame()

	g.Tick(rec)
	g.HandleKey('w', rec)
	g.Render(rec)
	g.Resize(640, 480)
	g.Mode()

	if !g.mu.TryToAcquire() {
		t.Fatal("lock still held")
	}

	g.mu.Release()
}
