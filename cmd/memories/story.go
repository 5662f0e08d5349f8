package main

import (
	"bufio"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"memories/pkg/screens"
)

func (a *app) quiz(args []string) error {
	fs := flag.NewFlagSet("quiz", flag.ContinueOnError)
	file := fs.String("file", "data/quiz.json", "questions file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q, err := screens.LoadQuizFile(*file)
	if err != nil {
		return err
	}
	in := bufio.NewScanner(a.in)
	for !q.Done() {
		question, idx, _ := q.Current()
		_, total := q.Score()
		fmt.Fprintf(a.out, "\n%d/%d  %s\n", idx+1, total, question.Question)
		for i, o := range question.Options {
			fmt.Fprintf(a.out, "  %d) %s\n", i+1, o.Text)
		}
		fmt.Fprint(a.out, "> ")
		if !in.Scan() {
			return in.Err()
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil {
			continue
		}
		if _, err := q.Answer(n - 1); err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		fmt.Fprintln(a.out, q.Feedback())
		_ = q.Next()
	}
	score, total := q.Score()
	fmt.Fprintf(a.out, "\nVocê acertou %d de %d perguntas!\n%s\n", score, total, q.Result())
	return nil
}

// timeline reveals one section per Enter, the terminal stand-in for scrolling.
// Typing a section id toggles it.
func (a *app) timeline(args []string) error {
	fs := flag.NewFlagSet("timeline", flag.ContinueOnError)
	file := fs.String("file", "data/timeline.json", "sections file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tl, err := screens.LoadTimelineFile(*file)
	if err != nil {
		return err
	}
	sections := tl.Sections()
	in := bufio.NewScanner(a.in)
	next := 0
	for {
		for _, s := range sections {
			mark := "🔒"
			if unlocked, expanded := tl.State(s.ID); expanded {
				mark = "📂"
			} else if unlocked {
				mark = "📁"
			}
			fmt.Fprintf(a.out, "%s %s %s\n", mark, s.ID, tl.Header(s.ID))
			if _, expanded := tl.State(s.ID); expanded {
				fmt.Fprintf(a.out, "    %s\n", s.Story)
			}
		}
		fmt.Fprint(a.out, "[Enter] rolar  [id] abrir/fechar  [q] sair > ")
		if !in.Scan() {
			return in.Err()
		}
		switch cmd := strings.TrimSpace(in.Text()); cmd {
		case "q":
			return nil
		case "":
			if next < len(sections) {
				tl.Observe(sections[next].ID, 1)
				next++
			}
		default:
			tl.Toggle(cmd)
		}
	}
}
