// bgtree - enumerate the legal plays of a backgammon roll
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgplaytree/pkg/engine"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "moves":
		err = cmdMoves(args)
	case "legal":
		err = cmdLegal(args)
	case "summary":
		err = cmdSummary(args)
	case "revert":
		err = cmdRevert(args)
	case "id":
		err = cmdID(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bgtree - Backgammon play tree explorer

Usage: bgtree <command> [options]

Commands:
  moves     List the plays of a roll
  legal     Check a single checker move
  summary   Play statistics for one roll or all 21
  revert    Show a position from the opponent's side
  id        Convert between position IDs and slot arrays

Use "bgtree <command> -h" for command-specific help.

Position ID Format:
  Positions use gnubg's position ID format, e.g. "4HPwATDgc/ABMA".
  A trailing ":matchID" part is ignored.`)
}

// common holds the flags shared by every subcommand.
type common struct {
	position *string
	rules    *string
	verbose  *bool
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		position: fs.String("p", "4HPwATDgc/ABMA", "Position ID (gnubg format)"),
		rules:    fs.String("rules", "standard", "Rule set: "+strings.Join(engine.RuleNames(), ", ")),
		verbose:  fs.Bool("v", false, "Debug logging"),
	}
}

func (c common) resolve() (engine.Position, engine.RuleSet, error) {
	if *c.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	rules, err := engine.RulesByName(*c.rules)
	if err != nil {
		return engine.Position{}, engine.RuleSet{}, err
	}
	pos, err := engine.PositionFromID(*c.position)
	if err != nil {
		return engine.Position{}, engine.RuleSet{}, fmt.Errorf("position %q: %w", *c.position, err)
	}
	return pos, rules, nil
}

func cmdMoves(args []string) error {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	c := commonFlags(fs)
	dice := fs.String("d", "", "Dice, e.g. 3,1")
	all := fs.Bool("all", false, "Include redundant plays")
	fs.Parse(args)

	pos, rules, err := c.resolve()
	if err != nil {
		return err
	}
	roll, err := engine.ParseRoll(*dice)
	if err != nil {
		return err
	}

	start := time.Now()
	root := engine.BuildTree(rules, pos, roll)
	log.Debug().Dur("elapsed", time.Since(start)).Int("plays", len(root.Plays())).Msg("tree built")

	plays := root.CanonicalPlays()
	if *all {
		plays = root.Plays()
	}

	fmt.Printf("Roll %s, %d dice to play (%s rules)\n", roll, root.Usage(), rules.Name)
	for _, d := range root.Dice() {
		if d.Used {
			fmt.Printf("  die %d cannot be played\n", d.Pip)
		}
	}
	fmt.Println()
	for i, p := range plays {
		fmt.Printf("%3d. %-28s pips %3d", i+1, p.String(), p.Position.PipCount())
		if p.Redundant {
			fmt.Print("  (redundant)")
		}
		if p.EOG != engine.NotEnded {
			fmt.Printf("  wins %s", p.EOG)
		}
		fmt.Println()
	}
	return nil
}

func cmdLegal(args []string) error {
	fs := flag.NewFlagSet("legal", flag.ExitOnError)
	c := commonFlags(fs)
	from := fs.Int("from", -1, "Origin slot (0 = bar)")
	pip := fs.Int("pip", 0, "Distance to move")
	fs.Parse(args)

	pos, rules, err := c.resolve()
	if err != nil {
		return err
	}

	after, m, ok := rules.Move(pos, *from, *pip)
	if !ok {
		fmt.Printf("%d by %d is not legal\n", *from, *pip)
		return nil
	}
	fmt.Printf("%s is legal\n", m)
	printPosition(after)
	return nil
}

func cmdSummary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	c := commonFlags(fs)
	dice := fs.String("d", "", "Dice (default: all 21 rolls)")
	fs.Parse(args)

	pos, rules, err := c.resolve()
	if err != nil {
		return err
	}

	var roots []engine.RootNode
	if *dice != "" {
		roll, err := engine.ParseRoll(*dice)
		if err != nil {
			return err
		}
		roots = []engine.RootNode{engine.BuildTree(rules, pos, roll)}
	} else {
		roots, err = engine.BuildAllRolls(context.Background(), rules, pos)
		if err != nil {
			return err
		}
	}

	fmt.Printf("%-5s %5s %6s %9s %8s %8s %7s\n", "Roll", "Usage", "Plays", "Redundant", "Distinct", "PipMean", "StdDev")
	for _, r := range roots {
		s := engine.Summarize(r)
		fmt.Printf("%-5s %5d %6d %9d %8d %8.1f %7.2f\n",
			s.Roll, s.Usage, s.Plays, s.Redundant, s.Distinct, s.PipMean, s.PipStdDev)
	}
	return nil
}

func cmdRevert(args []string) error {
	fs := flag.NewFlagSet("revert", flag.ExitOnError)
	c := commonFlags(fs)
	fs.Parse(args)

	pos, _, err := c.resolve()
	if err != nil {
		return err
	}
	printPosition(pos.Revert())
	return nil
}

func cmdID(args []string) error {
	fs := flag.NewFlagSet("id", flag.ExitOnError)
	c := commonFlags(fs)
	points := fs.String("points", "", "Comma separated slot array of 26 counts")
	fs.Parse(args)

	if *points == "" {
		pos, _, err := c.resolve()
		if err != nil {
			return err
		}
		printPosition(pos)
		return nil
	}

	slots, err := parseSlots(*points)
	if err != nil {
		return err
	}
	pos, err := engine.NewPosition(slots, 0, 0)
	if err != nil {
		return err
	}
	printPosition(pos)
	return nil
}

func parseSlots(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	if len(fields) != engine.NumPoints+2 {
		return nil, fmt.Errorf("need %d slots, got %d", engine.NumPoints+2, len(fields))
	}
	slots := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		slots[i] = n
	}
	return slots, nil
}

func printPosition(p engine.Position) {
	if id, err := p.ID(); err == nil {
		fmt.Printf("Position ID: %s\n", id)
	} else {
		fmt.Printf("Position ID: unavailable (%v)\n", err)
	}
	fmt.Printf("Slots:       %v\n", p.Points())
	fmt.Printf("Pips:        %d - %d\n", p.PipCount(), p.OpponentPipCount())
	if eog := p.EOGStatus(); eog != engine.NotEnded {
		fmt.Printf("Game over:   %s\n", eog)
	}
}
