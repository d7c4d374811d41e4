package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ironsheep/watermark-manager/internal/imaging"
	"github.com/ironsheep/watermark-manager/internal/logging"
	"github.com/ironsheep/watermark-manager/internal/pipeline"
)

const (
	defaultInput   = "test.jpg"
	defaultOverlay = "logo.png"
)

// errQuit ends the session without an error.
var errQuit = errors.New("quit")

// Options configures a Shell.
type Options struct {
	Dir         string // Directory holding inputs, overlays and outputs
	Watermarker *pipeline.Watermarker
	Editor      *pipeline.Editor
	Logger      zerolog.Logger
}

// Shell runs the question-and-answer session on a pair of streams.
type Shell struct {
	in          *bufio.Scanner
	lines       chan string
	readOnce    sync.Once
	readErr     error // set by scan before lines is closed
	out         io.Writer
	dir         string
	watermarker *pipeline.Watermarker
	editor      *pipeline.Editor
	logger      zerolog.Logger
}

// New creates a shell reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer, opts Options) *Shell {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4*1024), 64*1024)

	if opts.Watermarker == nil {
		opts.Watermarker = pipeline.NewWatermarker(pipeline.WatermarkOptions{})
	}
	if opts.Editor == nil {
		opts.Editor = pipeline.NewEditor(0)
	}

	return &Shell{
		in:          scanner,
		lines:       make(chan string),
		out:         out,
		dir:         opts.Dir,
		watermarker: opts.Watermarker,
		editor:      opts.Editor,
		logger:      opts.Logger,
	}
}

// Run asks for jobs until the user declines or input ends.
//
// Failures of a single job are reported to the user and the session carries
// on. Run returns an error only when input cannot be read, ctx is cancelled,
// or a pipeline reports imaging.ErrInvariant.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		log, runID := logging.WithRun(s.logger)
		err := s.cycle(log.WithContext(ctx))
		switch {
		case err == nil:
			continue
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			s.printf("Bye!\n")
			return nil
		case errors.Is(err, context.Canceled):
			log.Info().Msg("session cancelled")
			return err
		default:
			log.Error().Err(err).Msg("session aborted")
			return fmt.Errorf("run %s: %w", runID, err)
		}
	}
}

// cycle runs one job: readiness, input, optional edit, then the watermark.
func (s *Shell) cycle(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	ready, err := s.confirm(ctx, fmt.Sprintf(
		"Hi! Welcome to \"Watermark manager\". Copy your image files to %s folder. "+
			"Then you'll be able to use them in the app. Are you ready?", s.dir), true)
	if err != nil {
		return err
	}
	if !ready {
		return errQuit
	}

	name, err := s.ask(ctx, "What file do you want to mark?", defaultInput)
	if err != nil {
		return err
	}
	input := filepath.Join(s.dir, name)

	kind, err := s.choose(ctx, "Choose watermark type:", "Text watermark", "Image watermark")
	if err != nil {
		return err
	}
	log.Debug().Str("input", input).Int("choice", kind).Msg("job selected")

	edit, err := s.confirm(ctx, "Would you like to edit image before adding a watermark?", true)
	if err != nil {
		return err
	}
	if edit {
		if err := s.edit(ctx, name, input); err != nil {
			return err
		}
	}

	if kind == 1 {
		text, err := s.ask(ctx, "Type your watermark text:", "")
		if err != nil {
			return err
		}
		if !s.exists(name, input) {
			return nil
		}
		return s.watermark(ctx, input, pipeline.TextWatermark(text), "Text Watermark done!")
	}

	overlayName, err := s.ask(ctx, "Type your watermark name:", defaultOverlay)
	if err != nil {
		return err
	}
	overlay := filepath.Join(s.dir, overlayName)
	if !s.exists(name, input) || !s.exists(overlayName, overlay) {
		return nil
	}
	return s.watermark(ctx, input, pipeline.ImageWatermark(overlay), "Image Watermark done!")
}

var editChoices = []string{
	"make image brighter",
	"increase contrast",
	"make image b&w",
	"invert image",
	"exit",
}

var editKinds = []imaging.ToneKind{
	imaging.ToneBrightness,
	imaging.ToneContrast,
	imaging.ToneGrayscale,
	imaging.ToneInvert,
}

// edit asks for one tonal adjustment and writes the edited copy.
func (s *Shell) edit(ctx context.Context, name, input string) error {
	choice, err := s.choose(ctx, "What would you like to do?", editChoices...)
	if err != nil {
		return err
	}
	if choice == len(editChoices) {
		return nil
	}
	kind := editKinds[choice-1]

	op := imaging.ToneOp{Kind: kind}
	if kind == imaging.ToneBrightness || kind == imaging.ToneContrast {
		op, err = s.askTone(ctx, kind)
		if err != nil {
			return err
		}
	}

	if !s.exists(name, input) {
		return nil
	}

	out, err := s.editor.Apply(ctx, input, op)
	if err != nil {
		return s.failed(ctx, err)
	}
	s.printf("Image with adjusted %s successfully created! (%s)\n", kind, filepath.Base(out))
	return nil
}

// askTone re-asks until the user gives a usable amount.
func (s *Shell) askTone(ctx context.Context, kind imaging.ToneKind) (imaging.ToneOp, error) {
	prompt := fmt.Sprintf("adjust the %s by a value -1 to +1 for example (.4) or (-.2)", kind)
	for {
		raw, err := s.ask(ctx, prompt, "")
		if err != nil {
			return imaging.ToneOp{}, err
		}
		op, err := imaging.ParseToneOp(kind, raw)
		switch {
		case err == nil:
			return op, nil
		case errors.Is(err, imaging.ErrRange):
			s.printf("The value must be between -1 and 1.\n")
		default:
			s.printf("%q is not a number.\n", raw)
		}
	}
}

func (s *Shell) watermark(ctx context.Context, input string, wm pipeline.Watermark, done string) error {
	out, err := s.watermarker.Apply(ctx, input, wm)
	if err != nil {
		return s.failed(ctx, err)
	}
	s.printf("%s (%s)\n", done, filepath.Base(out))
	return nil
}

// failed reports a job failure to the user. Only broken invariants and
// cancellation end the session.
func (s *Shell) failed(ctx context.Context, err error) error {
	if errors.Is(err, imaging.ErrInvariant) || errors.Is(err, context.Canceled) {
		return err
	}
	zerolog.Ctx(ctx).Warn().Err(err).Msg("job failed")
	s.printf("Something went wrong... Try again!\n")
	return nil
}

func (s *Shell) exists(name, path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.printf("The file %s does not exist!\n", name)
		return false
	}
	return true
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// readLine returns the next trimmed line, io.EOF once input is exhausted, or
// ctx.Err() as soon as ctx is done, even while the reader is blocked.
func (s *Shell) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.readOnce.Do(func() { go s.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			if s.readErr != nil {
				return "", fmt.Errorf("failed to read input: %w", s.readErr)
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// scan feeds input lines to readLine. It blocks on the reader, so it runs on
// its own goroutine and exits when input ends.
func (s *Shell) scan() {
	defer close(s.lines)
	for s.in.Scan() {
		s.lines <- s.in.Text()
	}
	s.readErr = s.in.Err()
}

// ask prints prompt and returns the answer, or def for an empty line.
func (s *Shell) ask(ctx context.Context, prompt, def string) (string, error) {
	if def != "" {
		s.printf("? %s (%s) ", prompt, def)
	} else {
		s.printf("? %s ", prompt)
	}
	line, err := s.readLine(ctx)
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (s *Shell) confirm(ctx context.Context, prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		s.printf("? %s (%s) ", prompt, hint)
		line, err := s.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		s.printf("Please answer y or n.\n")
	}
}

// choose lists choices and returns the 1-based number picked.
func (s *Shell) choose(ctx context.Context, prompt string, choices ...string) (int, error) {
	for {
		s.printf("? %s\n", prompt)
		for i, c := range choices {
			s.printf("  %d) %s\n", i+1, c)
		}
		s.printf("  Answer (1-%d): ", len(choices))

		line, err := s.readLine(ctx)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(choices) {
			return n, nil
		}
		s.printf("Please enter a number between 1 and %d.\n", len(choices))
	}
}
