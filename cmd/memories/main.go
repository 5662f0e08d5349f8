// Command memories is the terminal front-end of the memories service.
//
//	memories [global flags] places|travel|goals list|add|edit|delete [flags]
//	memories [global flags] quiz [-file data/quiz.json]
//	memories [global flags] timeline [-file data/timeline.json]
//	memories [global flags] upload <image>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"memories/pkg/client"
)

const usage = `usage: memories [-server URL] [-password P] [-timeout D] <command>

commands:
  places   list [-category C] | add | edit <id> | delete <id> [-yes]
  travel   list | add | edit <id> | delete <id> [-yes]
  goals    list | add | edit <id> | delete <id> [-yes]
  quiz     [-file path]
  timeline [-file path]
  upload   <image>
`

type app struct {
	client *client.Client
	in     io.Reader
	out    io.Writer
}

func main() {
	server := flag.String("server", envOr("MEMORIES_SERVER", "http://localhost:5000"), "service base URL")
	password := flag.String("password", os.Getenv("MEMORIES_PASSWORD"), "access password, when the service requires one")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	a := &app{
		client: client.New(*server, &http.Client{Timeout: *timeout}),
		in:     os.Stdin,
		out:    os.Stdout,
	}
	if *password != "" {
		if _, err := a.client.Login(ctx, *password); err != nil {
			fatal(err)
		}
	}
	if err := a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fatal(err)
	}
}

var errUsage = errors.New("usage")

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "places":
		return a.places(ctx, rest)
	case "travel":
		return a.travel(ctx, rest)
	case "goals":
		return a.goals(ctx, rest)
	case "quiz":
		return a.quiz(rest)
	case "timeline":
		return a.timeline(rest)
	case "upload":
		if len(rest) != 1 {
			return errUsage
		}
		url, err := a.client.UploadImage(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, url)
		return nil
	}
	return errUsage
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "memories: %v\n", err)
	os.Exit(1)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
