// Command prompts reads a story from a file or stdin and prints one image
// prompt per narrative sentence.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"

	"storyboard/pkg/config"
	"storyboard/pkg/diff"
	"storyboard/pkg/pipeline"
	"storyboard/pkg/schema"
	"storyboard/pkg/utils"
)

func main() {
	var (
		inPath     = flag.String("in", "", "Story file (default stdin)")
		asJSON     = flag.Bool("json", false, "Print prompts as a JSON array")
		outPath    = flag.String("out", "", "Also save the output as JSON to this path")
		showDiff   = flag.Bool("diff", false, "Print the pronoun substitutions to stderr")
		resolution = flag.String("storyboard", "", "Emit storyboard frames at this resolution (16:9, 1:1, 9:16)")
		corefModel = flag.String("coref", "", "Coreference model override (llm or heuristic)")
		verbose    = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetOutput(os.Stderr)

	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer done()

	if err := run(ctx, *inPath, *outPath, *resolution, *corefModel, *asJSON, *showDiff); err != nil {
		log.Error("prompts failed", "error", err)
		done()
		os.Exit(1)
	}
}

func run(ctx context.Context, inPath, outPath, resolution, corefModel string, asJSON, showDiff bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if corefModel != "" {
		cfg.CorefModel = corefModel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	rt, err := cfg.Build(ctx)
	if err != nil {
		return err
	}

	text, err := readStory(inPath)
	if err != nil {
		return err
	}

	res, err := rt.Pipeline.Resolve(ctx, text)
	if err != nil {
		return err
	}
	if res.Normalized.Err != nil {
		log.Warn("continuing with untranslated text", "error", res.Normalized.Err)
	}
	if showDiff {
		if err := diff.Render(os.Stderr, diff.Words(res.Normalized.Text, res.Resolved)); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr)
	}

	out := any(res.Prompts)
	if resolution != "" {
		frames, used := rt.Framer.Frames(res.Prompts, resolution)
		out = schema.StoryboardResponse{Resolution: used, Frames: frames}
	}

	if outPath != "" {
		if err := utils.Save(outPath, out); err != nil {
			return fmt.Errorf("save %s: %w", outPath, err)
		}
		log.Info("saved output", "path", outPath)
	}
	return write(os.Stdout, res, out, asJSON || resolution != "")
}

func readStory(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func write(w io.Writer, res *pipeline.Result, out any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	}
	for _, p := range res.Prompts {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
