package console

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/arena/internal/game"
)

// Play steps the session once per frame and redraws after every tick. It
// returns when the match is over, after maxTicks ticks (0 means no limit),
// when ctx is cancelled or when the user quits with Escape, q or Ctrl-C.
//
// The caller owns the screen: it must be initialised before and finalised
// after Play.
func Play(ctx context.Context, screen tcell.Screen, g *game.Session, maxTicks uint64, frame time.Duration) error {
	r := NewRenderer(screen)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(max(frame, time.Millisecond))
	defer ticker.Stop()

	draw := func() {
		r.Draw(g.Simulation(), leader(g))
		screen.Show()
	}
	draw()

	var played uint64
	for !g.Done() && (maxTicks == 0 || played < maxTicks) {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					g.Simulation().Stop()
				}
			case *tcell.EventResize:
				screen.Sync()
				draw()
			}

		case <-ticker.C:
			if err := g.Step(); err != nil {
				return err
			}
			played++
			draw()
		}
	}
	return nil
}

func leader(g *game.Session) string {
	standings := g.Standings()
	if len(standings) == 0 {
		return ""
	}
	top := standings[0]
	return fmt.Sprintf("leader %s (%d)", top.Name, top.Points)
}
