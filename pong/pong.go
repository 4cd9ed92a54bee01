// Copyright (c) The pong authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package pong implements the state machine of a two paddle arcade game,
// designed to be driven entirely from interrupt callbacks, with paddle
// movement on key events and ball movement on timer ticks.
package pong

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golCMKL/pong/spin"
)

// Mode represents a game state.
type Mode int

// Game states
const (
	// Menu waits for a player count selection.
	Menu Mode = iota
	// OnePlayer plays the right paddle automatically.
	OnePlayer
	// TwoPlayer serves both paddles to the keyboard.
	TwoPlayer
	// GameOver waits for a replay or menu selection.
	GameOver
)

// String returns the game state name.
func (m Mode) String() string {
	switch m {
	case Menu:
		return "menu"
	case OnePlayer:
		return "one player"
	case TwoPlayer:
		return "two player"
	case GameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Defaults applied by New to zero Config fields.
const (
	DefaultPaddleHeight = 50
	DefaultBallStep     = 36
	DefaultPaddleStep   = 25
	DefaultWinScore     = 1
)

const (
	// paddleInset is the distance of each paddle from its field edge.
	paddleInset = 10
	// paddleReach is the horizontal contact band around a paddle.
	paddleReach = 3
	// ballRadius extends the drawn ball around its position.
	ballRadius = 6

	randSeed = 123456789
)

// Config tunes a game instance, zero fields assume defaults, except for the
// field dimensions which typically track the screen and remain zero until
// Resize is called.
type Config struct {
	// Width is the field width in pixels.
	Width int
	// Height is the field height in pixels.
	Height int
	// PaddleHeight is the paddle size in pixels.
	PaddleHeight int
	// BallStep is the ball movement per tick in pixels.
	BallStep int
	// PaddleStep is the paddle movement per key event in pixels.
	PaddleStep int
	// WinScore is the score ending the game.
	WinScore int
}

// Renderer is the drawing surface of a game.
type Renderer interface {
	// Clear paints the whole surface black.
	Clear()
	// Fill paints a rectangle in the argument color.
	Fill(r image.Rectangle, c color.Color)
	// DrawStringCentered draws a horizontally centered string with its
	// baseline at row y.
	DrawStringCentered(y int, c color.Color, str string)
}

// Game is a single game instance, its entry points serialize against each
// other and therefore may be invoked from concurrent interrupt handlers.
type Game struct {
	mu  spin.Mutex
	cfg Config

	mode     Mode
	lastMode Mode

	ballX, ballY   int
	ballDX, ballDY int

	p1Y, p2Y         int
	p1Score, p2Score int

	seed uint32
}

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	green = color.RGBA{R: 0xaa, G: 0xff, B: 0xaa, A: 0xff}
	blue  = color.RGBA{R: 0xaa, G: 0xaa, B: 0xff, A: 0xff}
)

// New returns a game in menu state.
func New(cfg Config) *Game {
	if cfg.PaddleHeight == 0 {
		cfg.PaddleHeight = DefaultPaddleHeight
	}

	if cfg.BallStep == 0 {
		cfg.BallStep = DefaultBallStep
	}

	if cfg.PaddleStep == 0 {
		cfg.PaddleStep = DefaultPaddleStep
	}

	if cfg.WinScore == 0 {
		cfg.WinScore = DefaultWinScore
	}

	g := &Game{
		cfg:      cfg,
		lastMode: OnePlayer,
		ballDX:   1,
		ballDY:   1,
		seed:     randSeed,
	}

	g.center()

	return g
}

// Resize adjusts the field dimensions, recentering the ball and paddles.
func (g *Game) Resize(w int, h int) {
	g.mu.Acquire()
	defer g.mu.Release()

	g.cfg.Width = w
	g.cfg.Height = h

	g.center()
}

// Tick advances the game by one timer period and redraws it.
func (g *Game) Tick(r Renderer) {
	g.mu.Acquire()
	defer g.mu.Release()

	g.update()
	g.render(r)
}

// HandleKey applies a key press and redraws the game.
func (g *Game) HandleKey(k rune, r Renderer) {
	g.mu.Acquire()
	defer g.mu.Release()

	g.handleKey(k)
	g.render(r)
}

// Render redraws the game.
func (g *Game) Render(r Renderer) {
	g.mu.Acquire()
	defer g.mu.Release()

	g.render(r)
}

// Mode returns the current game state.
func (g *Game) Mode() (m Mode) {
	g.mu.Acquire()
	defer g.mu.Release()

	return g.mode
}

// rand returns a pseudo random number (xorshift32).
func (g *Game) rand() uint32 {
	x := g.seed

	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5

	g.seed = x

	return x
}

func (g *Game) center() {
	g.ballX = g.cfg.Width / 2
	g.ballY = g.cfg.Height / 2

	g.p1Y = g.cfg.Height / 2
	g.p2Y = g.cfg.Height / 2
}

// reset recenters the ball and paddles and serves the ball in a random
// direction, scores are left alone.
func (g *Game) reset() {
	g.center()

	g.ballDX = 1
	g.ballDY = 1

	if g.rand()%2 != 0 {
		g.ballDX = -1
	}

	if g.rand()%2 != 0 {
		g.ballDY = -1
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// paddleHit reports ball contact with a paddle at the argument position.
func (g *Game) paddleHit(x int, y int) bool {
	return g.ballX >= x-paddleReach && g.ballX <= x+paddleReach &&
		g.ballY >= y && g.ballY <= y+g.cfg.PaddleHeight
}

// update advances ball movement, collisions and scoring by one tick, it is
// a no-op outside the playing states.
func (g *Game) update() {
	if g.mode != OnePlayer && g.mode != TwoPlayer {
		return
	}

	g.ballX += g.ballDX * g.cfg.BallStep
	g.ballY += g.ballDY * g.cfg.BallStep

	// walls force the vertical direction, a ball overshooting the edge
	// must not bounce back and forth behind it
	if g.ballY <= 1 {
		g.ballDY = abs(g.ballDY)
	} else if g.ballY >= g.cfg.Height-2 {
		g.ballDY = -abs(g.ballDY)
	}

	if g.paddleHit(paddleInset, g.p1Y) {
		g.ballDX = abs(g.ballDX)
	}

	if g.paddleHit(g.cfg.Width-paddleInset, g.p2Y) {
		g.ballDX = -abs(g.ballDX)
	}

	switch {
	case g.ballX <= 0:
		g.p2Score++
		g.reset()
	case g.ballX >= g.cfg.Width:
		g.p1Score++
		g.reset()
	}

	if g.p1Score >= g.cfg.WinScore || g.p2Score >= g.cfg.WinScore {
		g.mode = GameOver
	}

	if g.mode == OnePlayer {
		target := max(g.ballY-g.cfg.PaddleHeight/2, 0)

		if center := g.p2Y + g.cfg.PaddleHeight/2; center < target {
			g.movePaddle(false, false)
		} else if center > target {
			g.movePaddle(false, true)
		}
	}
}

// movePaddle moves a paddle one step, clamped to the field.
func (g *Game) movePaddle(p1 bool, up bool) {
	y := &g.p2Y

	if p1 {
		y = &g.p1Y
	}

	if up {
		*y = max(*y-g.cfg.PaddleStep, 0)
	} else {
		*y = min(*y+g.cfg.PaddleStep, g.cfg.Height-g.cfg.PaddleHeight)
	}
}

func (g *Game) handleKey(k rune) {
	switch k {
	case '1':
		if g.mode == Menu {
			g.reset()
			g.mode = OnePlayer
			g.lastMode = OnePlayer
		}
	case '2':
		if g.mode == Menu {
			g.reset()
			g.mode = TwoPlayer
			g.lastMode = TwoPlayer
		}
	case 'r':
		if g.mode == GameOver {
			g.p1Score = 0
			g.p2Score = 0
			g.mode = Menu
		}
	case 'p':
		if g.mode == GameOver {
			g.reset()
			g.p1Score = 0
			g.p2Score = 0
			g.mode = g.lastMode
		}
	case 'w':
		g.movePaddle(true, true)
	case 's':
		g.movePaddle(true, false)
	case 'i':
		if g.mode == TwoPlayer {
			g.movePaddle(false, true)
		}
	case 'k':
		if g.mode == TwoPlayer {
			g.movePaddle(false, false)
		}
	}
}

func (g *Game) render(r Renderer) {
	r.Clear()

	switch g.mode {
	case Menu:
		r.DrawStringCentered(100, white, "PONG GAME")
		r.DrawStringCentered(130, green, "Press 1: 1 Player")
		r.DrawStringCentered(150, blue, "Press 2: 2 Player")
		r.DrawStringCentered(180, white, "Controls:")
		r.DrawStringCentered(200, green, "Player 1: W/S to move")
		r.DrawStringCentered(220, blue, "Player 2: I/K to move")
	case GameOver:
		winner := "Player 2 Wins!"

		if g.p1Score > g.p2Score {
			winner = "Player 1 Wins!"
		}

		r.DrawStringCentered(100, white, winner)
		r.DrawStringCentered(130, white, "Press P to play again")
		r.DrawStringCentered(150, white, "Press R to return to menu")
	default:
		g.renderGame(r)
	}
}

func (g *Game) renderGame(r Renderer) {
	h := g.cfg.PaddleHeight

	r.Fill(image.Rect(paddleInset, g.p1Y, paddleInset+1, g.p1Y+h), white)
	r.Fill(image.Rect(g.cfg.Width-paddleInset, g.p2Y, g.cfg.Width-paddleInset+1, g.p2Y+h), white)

	r.Fill(image.Rect(
		g.ballX-ballRadius, g.ballY-ballRadius,
		g.ballX+ballRadius+1, g.ballY+ballRadius+1), white)

	r.DrawStringCentered(20, white, fmt.Sprintf("%d - %d", g.p1Score, g.p2Score))
}
