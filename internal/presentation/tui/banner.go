package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for JobAtlas.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient from teal to violet
	s1 := termenv.String("     _       _          _   _ _            ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String("    | | ___ | |__      / \\ | |_| | __ _ ___").Foreground(p.Color("#38bdf8"))
	s3 := termenv.String(" _  | |/ _ \\| '_ \\    / _ \\| __| |/ _` / __|").Foreground(p.Color("#60a5fa"))
	s4 := termenv.String("| |_| | (_) | |_) |  / ___ \\ |_| | (_| \\__ \\").Foreground(p.Color("#818cf8"))
	s5 := termenv.String(" \\___/ \\___/|_.__/  /_/   \\_\\__|_|\\__,_|___/").Foreground(p.Color("#a78bfa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
