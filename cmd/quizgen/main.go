// Command quizgen generates one set of questions from a text file and writes them as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"quiz-forge/internal/adapter"
	"quiz-forge/internal/adapter/export"
	"quiz-forge/internal/adapter/renderer"
	"quiz-forge/internal/bootstrap"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/metrics"
	"quiz-forge/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var errReported = errors.New("generation failed")

type options struct {
	input      string
	output     string
	count      int
	qtype      string
	difficulty string
	style      string
	language   string
}

func main() {
	opts := options{}
	flags := pflag.NewFlagSet("quizgen", pflag.ExitOnError)
	flags.StringVarP(&opts.input, "input", "i", "-", "source text file, - for stdin")
	flags.StringVarP(&opts.output, "out", "o", "-", "output JSON file, - for stdout")
	flags.IntVarP(&opts.count, "count", "n", 10, "number of questions")
	flags.StringVar(&opts.qtype, "type", string(domain.TypeMultipleChoice), "multiple_choice, true_false or mixed")
	flags.StringVar(&opts.difficulty, "difficulty", string(domain.DifficultyMedium), "easy, medium or hard")
	flags.StringVar(&opts.style, "style", string(domain.StyleStandard), "standard or competency")
	flags.StringVar(&opts.language, "language", "", "output language tag; skips the language prompt")
	flags.String("provider", "gemini", "gemini, ollama or openai")
	flags.StringSlice("models", nil, "model fallback order")
	flags.String("log-level", "info", "log level")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	_ = v.BindPFlag("llm.provider", flags.Lookup("provider"))
	_ = v.BindPFlag("generation.models", flags.Lookup("models"))
	_ = v.BindPFlag("logger.level", flags.Lookup("log-level"))

	if err := run(v, opts); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "quizgen: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(v *viper.Viper, opts options) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	text, err := readInput(opts.input)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prefs := adapter.NewMemoryPreferenceStore(nil)
	if opts.language != "" {
		if !service.ValidLanguageTag(opts.language) {
			return fmt.Errorf("invalid --language %q", opts.language)
		}
		_ = prefs.Set(ctx, domain.PrefOutputLanguage, opts.language)
	}

	caller, err := bootstrap.NewModelCaller(cfg, prefs, log)
	if err != nil {
		return err
	}
	if closer, ok := caller.(io.Closer); ok {
		defer closer.Close()
	}

	// Prompts are answered from the terminal only when stdin is not the source.
	var answers io.Reader = os.Stdin
	if opts.input == "-" {
		answers = nil
	}
	console := renderer.NewConsoleRenderer(os.Stderr, answers, log)

	core, err := bootstrap.BuildCore(cfg, caller, prefs, console, metrics.New(prometheus.NewRegistry()), log)
	if err != nil {
		return err
	}
	console.SetResolver(core.Gate)

	err = core.Controller.Run(ctx, domain.GenerationInputs{
		Text:       text,
		Count:      opts.count,
		Type:       domain.QuestionType(opts.qtype),
		Difficulty: domain.Difficulty(opts.difficulty),
		Style:      domain.Style(opts.style),
	})
	if err != nil {
		if domain.IsCancelled(err) {
			return errors.New("generation cancelled")
		}
		// The console renderer already printed the failure.
		return errReported
	}

	out, err := export.NewJSONExporter().Export(ctx, export.TargetJSON, core.Controller.Questions())
	if err != nil {
		return err
	}
	return writeOutput(opts.output, out)
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
