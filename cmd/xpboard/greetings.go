package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
)

var greetings = [...]string{
	"Your XP is on the server. Your dashboard is not. Yet.",
	"Checkpoints don't check themselves.",
	"The audit ratio waits for no one.",
	"Piscine-Go, Piscine-JS, module. Three bars, zero of them yours so far.",
	"Every day you don't log in, the line chart stays flat.",
	"Skills are scored server-side. Reading them is on you.",
}

func printGreeting(w io.Writer) {
	msg := greetings[rand.Intn(len(greetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ff69b4")).
		Bold(true).
		Render("XPBOARD")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To sign in: xpboard login")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}
