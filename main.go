package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/fang"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/skyline-tui/skyline/infra/auth"
	"github.com/skyline-tui/skyline/infra/bsky"
	"github.com/skyline-tui/skyline/infra/config"
	"github.com/skyline-tui/skyline/infra/editor"
	"github.com/skyline-tui/skyline/infra/imagecache"
	"github.com/skyline-tui/skyline/infra/stream"
	"github.com/skyline-tui/skyline/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	handle   string
	debug    bool
	noStream bool
	noImages bool
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:   "skyline",
		Short: "A Bluesky client for the terminal",
		Long: `Skyline shows your Bluesky timeline, threads, profiles and notifications
in the terminal, with live notifications and inline image previews.`,
		Example: `  # Log in (prompts for an app password on first run)
  skyline --handle alice.bsky.social

  # Debug logging goes to the log file in the config directory
  skyline --debug`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	root.Flags().StringVar(&opts.handle, "handle", "", "handle or email to log in with")
	root.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	root.Flags().BoolVar(&opts.noStream, "no-stream", false, "disable live notifications")
	root.Flags().BoolVar(&opts.noImages, "no-images", false, "start with image previews hidden")

	root.AddCommand(newLogoutCmd())
	return root
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := auth.NewSessionStore(cfg.SessionPath).Delete(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.handle != "" {
		cfg.Identifier = opts.handle
	}

	closeLog, err := setupLogging(cfg.LogPath, opts.debug)
	if err != nil {
		return err
	}
	defer closeLog()

	store := auth.NewSessionStore(cfg.SessionPath)
	sess, err := ensureSession(ctx, cfg, store, os.Stdin, os.Stderr)
	if err != nil {
		return err
	}

	client := bsky.NewClient(cfg.ServiceURL, auth.NewSessionProvider(sess, store))
	feed := bsky.NewFeedService(client, cfg.PageSize)

	uiState, err := config.LoadUIState(cfg.UIStatePath)
	if err != nil {
		slog.Warn("ignoring ui state", "err", err)
	}

	deps := tui.Deps{
		Feed:          feed,
		Profiles:      bsky.NewProfileService(client),
		Notifications: bsky.NewNotificationService(client),
		Posts:         bsky.NewPostService(client, feed),
		Session:       client,
		Editor:        editor.NewEnvEditor(),
		Images:        imagecache.New(nil),
		Self:          sess.DID,
		Handle:        sess.Handle,
		ShowImages:    cfg.ShowImages && !opts.noImages && !uiState.HideImages,
		UIStatePath:   cfg.UIStatePath,
	}
	if cfg.StreamEnabled && !opts.noStream {
		listener := stream.NewListener(cfg.StreamURL, sess.DID)
		listener.Start(ctx)
		defer listener.Stop()
		deps.Events = listener.Events()
	}

	slog.Info("starting", "handle", sess.Handle, "service", cfg.ServiceURL)
	p := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("skyline: %w", err)
	}
	return nil
}

// setupLogging sends slog output to path; the terminal belongs to the UI.
func setupLogging(path string, debugLevel bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	level := slog.LevelInfo
	if debugLevel {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(f, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	})))
	return func() { _ = f.Close() }, nil
}

// ensureSession returns the stored session, or logs in and stores a new one.
// A stored session for a different handle than the requested one is replaced.
func ensureSession(ctx context.Context, cfg config.Config, store *auth.SessionStore, in io.Reader, out io.Writer) (auth.Session, error) {
	sess, err := store.Load()
	switch {
	case err == nil && (cfg.Identifier == "" || strings.EqualFold(cfg.Identifier, sess.Handle)):
		return sess, nil
	case err != nil && !errors.Is(err, auth.ErrNoSession):
		slog.Warn("discarding stored session", "err", err)
	}

	reader := bufio.NewReader(in)
	identifier := cfg.Identifier
	if identifier == "" {
		if identifier, err = promptLine(reader, out, "Handle: "); err != nil {
			return auth.Session{}, err
		}
	}
	password := cfg.Password
	if password == "" {
		if password, err = readPassword(reader, out); err != nil {
			return auth.Session{}, err
		}
	}

	sess, err = bsky.Login(ctx, cfg.ServiceURL, identifier, password)
	if err != nil {
		return auth.Session{}, fmt.Errorf("logging in as %s: %w", identifier, err)
	}
	if err := store.Save(sess); err != nil {
		slog.Warn("session not saved", "err", err)
	}
	slog.Info("logged in", "handle", sess.Handle)
	return sess, nil
}

func promptLine(r *bufio.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%s is required", strings.TrimSuffix(strings.ToLower(label), ": "))
	}
	return line, nil
}

// readPassword reads the app password without echo when stdin is a terminal.
func readPassword(r *bufio.Reader, out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(r, out, "App password: ")
	}
	_, _ = fmt.Fprint(out, "App password: ")
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("app password is required")
	}
	return string(b), nil
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion(fmt.Sprintf("%s (built %s)", v, d)),
		fang.WithCommit(c),
	)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
