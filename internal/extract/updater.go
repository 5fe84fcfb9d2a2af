package extract

import (
	"context"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

const (
	// Grace delay before the update starts, so it never competes with
	// process startup.
	updateGraceDelay = 5 * time.Second

	installRefreshTimeout = 2 * time.Minute
	selfUpdateTimeout     = time.Minute
)

// Updater refreshes the extraction tooling once in the background. It never
// touches the task queue; failures are logged and swallowed.
type Updater struct {
	Disabled   bool
	BinaryPath string // standalone yt-dlp to self-update, empty to skip
}

// Run waits out the grace delay, then refreshes the managed install and
// self-updates the standalone binary when one exists. stop aborts the wait
// during shutdown.
func (u *Updater) Run(stop <-chan struct{}) {
	if u.Disabled {
		return
	}

	select {
	case <-stop:
		return
	case <-time.After(updateGraceDelay):
	}

	log.Println("[Updater] refreshing extraction tooling")

	ctx, cancel := context.WithTimeout(context.Background(), installRefreshTimeout)
	defer cancel()
	if _, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{}); err != nil {
		log.Printf("[Updater] managed install refresh failed: %v", err)
	} else {
		log.Println("[Updater] managed install is up to date")
	}

	if u.BinaryPath == "" {
		return
	}

	bctx, bcancel := context.WithTimeout(context.Background(), selfUpdateTimeout)
	defer bcancel()
	out, err := exec.CommandContext(bctx, u.BinaryPath, "-U").CombinedOutput()
	if err != nil {
		log.Printf("[Updater] yt-dlp self-update failed: %v", err)
		return
	}
	log.Printf("[Updater] yt-dlp self-update: %s", truncate(strings.TrimSpace(string(out)), 100))
}
