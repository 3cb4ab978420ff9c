package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/antiflood/app/bot"
	"github.com/umputun/antiflood/app/config"
	"github.com/umputun/antiflood/app/events"
	"github.com/umputun/antiflood/app/server"
	"github.com/umputun/antiflood/app/storage"
	"github.com/umputun/antiflood/app/storage/engine"
	"github.com/umputun/antiflood/app/webapi"
	"github.com/umputun/antiflood/lib/antiflood"
	"github.com/umputun/antiflood/lib/floodcheck"
)

type options struct {
	OneBot struct {
		Listen  string        `long:"listen" env:"LISTEN" default:":8080" description:"listen address for onebot events"`
		Secret  string        `long:"secret" env:"SECRET" description:"onebot secret to verify event signature"`
		API     string        `long:"api" env:"API" default:"http://127.0.0.1:3000" description:"onebot http api url"`
		Token   string        `long:"token" env:"TOKEN" description:"onebot http api access token"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"onebot http api timeout"`
	} `group:"onebot" namespace:"onebot" env-namespace:"ONEBOT"`

	Server struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable admin web api"`
		ListenAddr string `long:"listen" env:"LISTEN" default:":8081" description:"listen address for admin web api"`
		AuthPasswd string `long:"auth" env:"AUTH" description:"basic auth password for user antiflood"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	DataBaseURL  string `long:"db" env:"DB" description:"database url, sqlite file or postgres://, disabled if empty"`
	InstanceID   string `long:"instance-id" env:"INSTANCE_ID" default:"antiflood" description:"instance id, separates data in a shared database"`
	SettingsFile string `long:"settings" env:"SETTINGS" description:"json settings file, reloaded on change"`

	SweepInterval time.Duration `long:"sweep-interval" env:"SWEEP_INTERVAL" default:"60s" description:"history sweep interval"`
	HistorySize   int           `long:"history-size" env:"HISTORY_SIZE" default:"100" description:"recent detections to keep in memory"`
	Cooldown      time.Duration `long:"cooldown" env:"COOLDOWN" default:"60s" description:"min interval between actions for the same user, 0 to disable"`
	JournalTTL    time.Duration `long:"journal-ttl" env:"JOURNAL_TTL" default:"720h" description:"detections journal retention, 0 to keep forever"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable spam rotated logs"`
		FileName   string `long:"file" env:"FILE"  default:"antiflood.log" description:"location of spam log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Dry bool `long:"dry" env:"DRY" description:"dry mode, no moderation actions"`
	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("antiflood %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.OneBot.Secret, opts.OneBot.Token, opts.Server.AuthPasswd)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	if opts.Dry {
		log.Print("[WARN] dry mode, no actual moderation")
	}

	var settingsStore *config.Store
	var journal *storage.Detections
	if opts.DataBaseURL != "" {
		db, err := engine.New(ctx, opts.DataBaseURL, opts.InstanceID)
		if err != nil {
			return fmt.Errorf("can't make db, %w", err)
		}
		defer db.Close()
		if settingsStore, err = config.NewStore(ctx, db); err != nil {
			return fmt.Errorf("can't make settings store, %w", err)
		}
		if journal, err = storage.NewDetections(ctx, db); err != nil {
			return fmt.Errorf("can't make detections journal, %w", err)
		}
		log.Printf("[INFO] using %s database, instance %s", db.Type(), db.GID())
	}

	settings, err := loadSettings(ctx, opts.SettingsFile, settingsStore)
	if err != nil {
		return fmt.Errorf("can't load settings, %w", err)
	}
	holder := config.NewHolder(settings)

	detector := antiflood.NewDetector(settings.Spam, opts.HistorySize)
	holder.Subscribe(func(s config.Settings) {
		detector.SetPolicy(s.Spam)
		log.Printf("[INFO] policy: %s", s.Spam)
	})

	janitor := detector.NewJanitor(opts.SweepInterval)
	janitor.Start(ctx)
	defer janitor.Stop()

	spamLogWriter, err := makeSpamLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make spam log writer, %w", err)
	}
	defer spamLogWriter.Close()

	oneBotClient := bot.NewOneBotClient(opts.OneBot.API, opts.OneBot.Token, opts.OneBot.Timeout)
	listener := &events.Listener{
		Detector:   detector,
		Moderator:  bot.NewModerator(oneBotClient, holder, opts.Cooldown, opts.Dry),
		SpamLogger: makeSpamLogger(spamLogWriter),
		Settings:   holder,
	}
	if journal != nil {
		listener.Journal = journal
		if opts.JournalTTL > 0 {
			go cleanupJournal(ctx, journal, opts.JournalTTL, time.Hour)
		}
	}

	if opts.SettingsFile != "" {
		go func() {
			onChange := func(s config.Settings) {
				holder.Replace(s)
				log.Printf("[INFO] settings reloaded from %s", opts.SettingsFile)
				if settingsStore == nil {
					return
				}
				if err := settingsStore.Save(ctx, s); err != nil {
					log.Printf("[WARN] can't save reloaded settings, %v", err)
				}
			}
			if err := config.Watch(ctx, opts.SettingsFile, onChange); err != nil {
				log.Printf("[WARN] settings watcher failed, %v", err)
			}
		}()
	}

	if opts.Server.Enabled {
		srv := webapi.NewServer(webapi.Config{
			Version:    revision,
			ListenAddr: opts.Server.ListenAddr,
			Detector:   detector,
			History:    detector.Store(),
			Settings:   holder,
			AuthPasswd: opts.Server.AuthPasswd,
		})
		if settingsStore != nil {
			srv.SettingsStore = settingsStore
		}
		if journal != nil {
			srv.Journal = journal
		}
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("[ERROR] webapi server failed, %v", err)
			}
		}()
	}

	receiver := server.NewServer(server.Params{
		ListenAddr: opts.OneBot.Listen,
		Secret:     opts.OneBot.Secret,
		Version:    revision,
		Handler:    listener,
	})
	if err := receiver.Run(ctx); err != nil {
		return fmt.Errorf("onebot server failed, %w", err)
	}
	return nil
}

// loadSettings gets initial settings. Settings file has priority, then the store.
// Settings loaded from the file are saved to the store, defaults are used if neither has them.
func loadSettings(ctx context.Context, file string, store *config.Store) (config.Settings, error) {
	if file != "" {
		if _, err := os.Stat(file); err == nil {
			s, err := config.LoadFile(file)
			if err != nil {
				return config.Settings{}, fmt.Errorf("can't load settings file %s: %w", file, err)
			}
			log.Printf("[INFO] settings loaded from %s", file)
			if store != nil {
				if err := store.Save(ctx, s); err != nil {
					return config.Settings{}, fmt.Errorf("can't save settings: %w", err)
				}
			}
			return s, nil
		}
		log.Printf("[WARN] settings file %s not found", file)
	}

	if store != nil {
		s, err := store.Load(ctx)
		switch {
		case err == nil:
			log.Printf("[INFO] settings loaded from database")
			return s, nil
		case !errors.Is(err, storage.ErrNotFound):
			return config.Settings{}, fmt.Errorf("can't load settings from database: %w", err)
		}
	}

	log.Printf("[INFO] default settings used")
	return config.New(), nil
}

// cleanupJournal removes journal records older than ttl every interval
func cleanupJournal(ctx context.Context, journal *storage.Detections, ttl, interval time.Duration) {
	log.Printf("[DEBUG] journal cleanup every %v, ttl %v", interval, ttl)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[DEBUG] journal cleanup stopped")
			return
		case <-ticker.C:
			removed, err := journal.Cleanup(ctx, ttl)
			if err != nil {
				log.Printf("[WARN] can't cleanup journal, %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("[DEBUG] %d old detections removed from journal", removed)
			}
		}
	}
}

// makeSpamLogger creates spam logger to keep reports about detected flood
// it writes json lines to the provided writer
func makeSpamLogger(wr io.Writer) events.SpamLogger {
	return events.SpamLoggerFunc(func(det floodcheck.Detection) {
		text := strings.ReplaceAll(det.Record.Text, "\n", " ")
		text = strings.TrimSpace(text)
		log.Printf("[INFO] flood detected from %s in %s, %s", det.Record.UserID, det.Record.GroupID, det.Response)
		log.Printf("[DEBUG] flood message: %s", text)
		m := struct {
			TimeStamp string          `json:"ts"`
			GroupID   string          `json:"group_id"`
			UserID    string          `json:"user_id"`
			Kind      floodcheck.Kind `json:"kind"`
			Details   string          `json:"details"`
			Text      string          `json:"text"`
		}{
			TimeStamp: det.Record.Time.In(time.Local).Format(time.RFC3339),
			GroupID:   det.Record.GroupID,
			UserID:    det.Record.UserID,
			Kind:      det.Response.Kind,
			Details:   det.Response.Details,
			Text:      text,
		}
		line, err := json.Marshal(&m)
		if err != nil {
			log.Printf("[WARN] can't marshal json, %v", err)
			return
		}
		if _, err := wr.Write(append(line, '\n')); err != nil {
			log.Printf("[WARN] can't write to log, %v", err)
		}
	})
}

// makeSpamLogWriter creates spam log writer to keep reports about detected flood
// it parses options and makes lumberjack logger with rotation
func makeSpamLogWriter(opts options) (accessLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	sizeParse := func(inp string) (uint64, error) {
		if inp == "" {
			return 0, errors.New("empty value")
		}
		for i, sfx := range []string{"k", "m", "g", "t"} {
			if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
				val, err := strconv.Atoi(inp[:len(inp)-1])
				if err != nil {
					return 0, fmt.Errorf("can't parse %s: %w", inp, err)
				}
				return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
			}
		}
		return strconv.ParseUint(inp, 10, 64)
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var nonEmpty []string
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
