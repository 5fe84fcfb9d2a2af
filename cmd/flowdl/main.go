package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/flowdl/flowdl/internal/config"
	"github.com/flowdl/flowdl/internal/extract"
	"github.com/flowdl/flowdl/internal/httpd"
	"github.com/flowdl/flowdl/internal/platform"
	"github.com/flowdl/flowdl/internal/queue"
	"github.com/flowdl/flowdl/internal/tui"
)

const version = "1.0.0"

const serverShutdownTimeout = 5 * time.Second

func main() {
	headless := flag.Bool("headless", false, "run without the live dashboard")
	downloadPath := flag.String("path", "", "download directory (persisted)")
	host := flag.String("host", "", "API listen host")
	port := flag.Int("port", 0, "API listen port")
	concurrency := flag.Int("concurrency", 0, "parallel download ceiling (1-10)")
	noUpdate := flag.Bool("no-update", false, "skip the background yt-dlp update")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("flowdl " + version)
		return
	}

	// Optional .env next to the working directory, for overrides like
	// FLOWDL_DOWNLOAD_DIR.
	_ = godotenv.Load()

	if err := run(*headless, *downloadPath, *host, *port, *concurrency, *noUpdate); err != nil {
		log.Fatalf("[Main] %v", err)
	}
}

func run(headless bool, downloadPath, host string, port, concurrency int, noUpdate bool) error {
	settingsPath := config.DefaultPath()
	settings, err := config.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Flags beat the settings file; a changed download path is persisted so
	// the next start remembers it.
	if downloadPath != "" && downloadPath != settings.DownloadDir {
		settings.DownloadDir = downloadPath
		if err := settings.Save(settingsPath); err != nil {
			log.Printf("[Main] could not persist settings: %v", err)
		}
	}
	if host != "" {
		settings.Host = host
	}
	if port != 0 {
		settings.Port = port
	}
	if concurrency != 0 {
		settings.MaxConcurrent = concurrency
	}
	if noUpdate {
		settings.DisableUpdate = true
	}
	if headless {
		settings.ShowUI = false
	}

	downloadDir, err := platform.DownloadDir(downloadPath, settings.DownloadDir)
	if err != nil {
		return err
	}

	// The dashboard owns the terminal, so logs go to a file next to the
	// downloads while it is up.
	if settings.ShowUI {
		logFile, err := os.OpenFile(filepath.Join(downloadDir, "flowdl.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	log.Printf("[Main] flowdl %s starting", version)
	log.Printf("[Main] downloads go to %s", downloadDir)

	ffmpegPath, ffmpegStatus := platform.FindFFmpeg()
	log.Printf("[Main] %s", ffmpegStatus)

	ytdlpPath, ytdlpStatus := platform.FindYtdlpBinary()
	log.Printf("[Main] %s", ytdlpStatus)

	ffmpegDir := ""
	if ffmpegPath != "" {
		ffmpegDir = filepath.Dir(ffmpegPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	extractor, err := extract.Detect(ctx, downloadDir, extract.Tools{
		FFmpegDir:   ffmpegDir,
		YtdlpBinary: ytdlpPath,
	})
	if err != nil {
		// Keep the process alive for status reporting; every enqueue is
		// rejected until an extraction tool is installed.
		log.Printf("[Main] no extraction tool available: %v", err)
		extractor = nil
	}

	scheduler := queue.NewScheduler(extractor, settings.MaxConcurrent)
	updater := &extract.Updater{Disabled: settings.DisableUpdate, BinaryPath: ytdlpPath}
	scheduler.SetUpdater(updater.Run)

	addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: httpd.NewRouter(scheduler, version),
	}
	go func() {
		log.Printf("[HTTP] listening on http://%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[HTTP] server stopped: %v", err)
		}
	}()

	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(schedulerDone)
	}()

	if settings.ShowUI {
		if err := tui.Run(scheduler, version, scheduler.Shutdown); err != nil {
			log.Printf("[Main] dashboard error: %v", err)
			scheduler.Shutdown()
		}
	} else {
		log.Println("[Main] running headless, Ctrl+C to stop")
	}

	// Workers drain their in-flight tasks before Run returns.
	<-schedulerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[HTTP] shutdown: %v", err)
	}

	log.Println("[Main] bye")
	return nil
}
