package sim

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cory-johannsen/rogue/internal/game/combat"
	"github.com/cory-johannsen/rogue/internal/game/command"
	"github.com/cory-johannsen/rogue/internal/game/inventory"
)

// Console returns a Driver that reads player commands line by line from in
// and writes prompts, replies and rejected commands to out. End of input
// abandons the battle.
func Console(in io.Reader, out io.Writer) Driver {
	sc := bufio.NewScanner(in)
	reg := command.DefaultRegistry()
	return func(b *combat.Battle, bp *inventory.Backpack) error {
		s := command.NewSession(reg, b, bp)
		for {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return err
				}
				fmt.Fprintln(out)
				_, err := b.Abort()
				return err
			}
			reply, err := s.Execute(sc.Text())
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if reply.Text != "" {
				fmt.Fprint(out, reply.Text)
			}
			if reply.Result != nil {
				return nil
			}
		}
	}
}
