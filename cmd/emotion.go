package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quantum-ai/quantum-cli/pkg/poll"
)

// Emotion command flags.
var (
	emotionSessionID string
	emotionWatch     bool
	emotionOutput    string
)

// EmotionCmd represents the emotion command group.
var EmotionCmd = &cobra.Command{
	Use:   "emotion",
	Short: "Run live and offline emotion analysis",
	Long: `Run emotion analysis on webcam frames or a recorded video.

A live session is started with 'emotion start', fed individual frames
with 'emotion frame', and closed with 'emotion stop'. For a finished
recording, 'emotion analyze-video' uploads the whole file at once.

Examples:
  quantum emotion start
  quantum emotion frame --session 4f1c... frame01.jpg
  quantum emotion status --session 4f1c... --watch
  quantum emotion stop --session 4f1c...
  quantum emotion analyze-video standup.webm`,
}

var emotionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a live emotion analysis session",
	Long: `Start a live emotion analysis session and print its session ID.

Examples:
  quantum emotion start`,
	RunE: runEmotionStart,
}

var emotionFrameCmd = &cobra.Command{
	Use:   "frame <image-file>",
	Short: "Send a frame to a live session",
	Long: `Send a single captured frame to a running emotion analysis session.

Examples:
  quantum emotion frame --session 4f1c... frame01.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runEmotionFrame,
}

var emotionStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a live emotion analysis session",
	Long: `Stop a running emotion analysis session.

Examples:
  quantum emotion stop --session 4f1c...`,
	RunE: runEmotionStop,
}

var emotionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a live session's status",
	Long: `Show the status of a running emotion analysis session.

With --watch, the status is re-fetched on the configured poll interval
until interrupted.

Examples:
  quantum emotion status --session 4f1c...
  quantum emotion status --session 4f1c... --watch`,
	RunE: runEmotionStatus,
}

var emotionAnalyzeVideoCmd = &cobra.Command{
	Use:   "analyze-video <video-file>",
	Short: "Analyze emotions in a recorded video",
	Long: `Upload a recorded video and analyze its emotion timeline.

Examples:
  quantum emotion analyze-video standup.webm
  quantum emotion analyze-video standup.webm -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runEmotionAnalyzeVideo,
}

func init() {
	for _, c := range []*cobra.Command{emotionFrameCmd, emotionStopCmd, emotionStatusCmd} {
		c.Flags().StringVar(&emotionSessionID, "session", "", "Session ID from 'emotion start'")
		_ = c.MarkFlagRequired("session")
	}
	emotionStatusCmd.Flags().BoolVar(&emotionWatch, "watch", false, "Keep polling the session status")
	emotionAnalyzeVideoCmd.Flags().StringVarP(&emotionOutput, "output", "o", "", "Output format: text, json, yaml")

	EmotionCmd.AddCommand(emotionStartCmd)
	EmotionCmd.AddCommand(emotionFrameCmd)
	EmotionCmd.AddCommand(emotionStopCmd)
	EmotionCmd.AddCommand(emotionStatusCmd)
	EmotionCmd.AddCommand(emotionAnalyzeVideoCmd)
}

// runEmotionStart executes the emotion start command.
func runEmotionStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	session, err := apiClient.StartEmotionAnalysis(ctx)
	if err != nil {
		return fmt.Errorf("starting emotion analysis: %w", err)
	}

	fmt.Printf("Emotion analysis session started: %s\n", session.SessionID)
	fmt.Println("Send frames with 'quantum emotion frame --session " + session.SessionID + " <image>'")
	return nil
}

// runEmotionFrame executes the emotion frame command.
func runEmotionFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	frame, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading frame: %w", err)
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	result, err := apiClient.ProcessEmotionFrame(ctx, emotionSessionID, frame)
	if err != nil {
		return fmt.Errorf("processing frame: %w", err)
	}

	fmt.Printf("%s (confidence %.2f)\n", result.Emotion, result.Confidence)
	return nil
}

// runEmotionStop executes the emotion stop command.
func runEmotionStop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	if _, err := apiClient.StopEmotionAnalysis(ctx, emotionSessionID); err != nil {
		return fmt.Errorf("stopping emotion analysis: %w", err)
	}

	fmt.Printf("Session %s stopped.\n", emotionSessionID)
	return nil
}

// runEmotionStatus executes the emotion status command.
func runEmotionStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	show := func(ctx context.Context) error {
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		session, err := apiClient.EmotionAnalysisStatus(fetchCtx, emotionSessionID)
		if err != nil {
			return err
		}
		fmt.Printf("Session %s: %s\n", session.SessionID, session.Status)
		if session.Message != "" {
			fmt.Printf("  %s\n", session.Message)
		}
		return nil
	}

	if !emotionWatch {
		return show(cmd.Context())
	}

	poller := poll.New(show, &poll.Options{
		Interval: cfg.PollInterval,
		OnSkip:   clientMetrics.PollsSkippedTotal.Inc,
		Logger:   newLogger(cfg),
	})

	fmt.Fprintf(os.Stderr, "Watching session (every %s, Ctrl-C to stop)...\n", cfg.PollInterval)
	if err := poller.Run(cmd.Context()); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// runEmotionAnalyzeVideo executes the emotion analyze-video command.
func runEmotionAnalyzeVideo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := resolveFormat(cfg, emotionOutput)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening video: %w", err)
	}
	defer f.Close()

	apiClient, _, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	// Video uploads can far exceed the normal request timeout.
	ctx, cancel := context.WithTimeout(cmd.Context(), 4*cfg.Timeout)
	defer cancel()

	report, err := apiClient.AnalyzeVideoEmotions(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return fmt.Errorf("analyzing video: %w", err)
	}

	return emit(os.Stdout, format, report, func(w io.Writer) error {
		fmt.Fprintf(w, "Overall sentiment: %.1f/10\n", report.OverallScore)
		if len(report.Timeline) > 0 {
			fmt.Fprintln(w, "\nTimeline:")
			for _, p := range report.Timeline {
				fmt.Fprintf(w, "  %-10s %-12s %.1f\n", p.Timestamp, p.Emotion, p.Intensity)
			}
		}
		return nil
	})
}
