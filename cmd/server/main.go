package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/taxdesk/internal/buildinfo"
	"github.com/dmitrijs2005/taxdesk/internal/flagx"
	"github.com/dmitrijs2005/taxdesk/internal/server"
	"github.com/dmitrijs2005/taxdesk/internal/server/config"
)

// issueTokenSubject reads -issue-token from the process arguments.
func issueTokenSubject() string {
	var subject string
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	fs.StringVar(&subject, "issue-token", "", "print a bearer token for this subject and exit")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-issue-token"}))
	return subject
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if subject := issueTokenSubject(); subject != "" {
		tok, err := server.IssueToken(cfg, subject)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println(tok)
		return
	}

	buildinfo.PrintBuildData(os.Stdout)

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
