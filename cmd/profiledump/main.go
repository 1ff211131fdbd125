package main

import (
	"context"
	"flag"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/poll-profile/internal/adapters/remote/pollservice"
	"github.com/vncsmyrnk/poll-profile/internal/adapters/terminal"
	"github.com/vncsmyrnk/poll-profile/internal/config"
	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/services"
)

// profiledump mounts a profile page once and prints what it would render.
//
//	profiledump -profile @alice [-viewer-id 42] [-share] [-poll-service-url URL ...]
func main() {
	fs := flag.NewFlagSet("profiledump", flag.ExitOnError)
	resolve, err := config.Bind(fs)
	if err != nil {
		log.Fatal(err)
	}
	profile := fs.String("profile", "", "Profile route segment, e.g. @alice")
	viewerID := fs.String("viewer-id", "", "Render vote markers for this user id")
	share := fs.Bool("share", false, "Print the profile share link")
	fs.Parse(os.Args[1:])

	cfg, err := resolve()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(err)
	}

	console := terminal.NewConsole(os.Stdout)
	client := pollservice.NewClient(cfg.PollServiceURL, cfg.RequestTimeout, logger)

	page, err := services.NewProfilePage(*profile, services.ProfilePageConfig{
		Polls:     client,
		Users:     client,
		Notifier:  console,
		Sharer:    console,
		Clipboard: console,
		Origin:    cfg.PublicOrigin,
		Policy:    cfg.Policy,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("invalid profile %q: %v", *profile, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := page.Mount(ctx); err != nil {
		log.Fatalf("failed to load profile: %v", err)
	}

	terminal.PrintView(os.Stdout, page.View(domain.Viewer{ID: domain.ID(*viewerID)}))

	if *share {
		username := page.Username()
		if err := page.Share(ctx, username, username); err != nil {
			log.Fatalf("failed to share: %v", err)
		}
	}
}
