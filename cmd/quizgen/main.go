package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cognicore/quizgen/pkg/quizgen"
	"github.com/cognicore/quizgen/pkg/quizgen/config"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/logger"
	"github.com/cognicore/quizgen/pkg/quizgen/render"
	"github.com/cognicore/quizgen/pkg/quizgen/store"
	"github.com/cognicore/quizgen/pkg/quizgen/store/memstore"
	"github.com/cognicore/quizgen/pkg/quizgen/store/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
	logJSON  bool
	app      *config.App
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "quizgen",
		Short:         "Generate exam questions from course material",
		Long:          "Generate essay or multiple-choice questions from a PDF or DOCX document.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := config.AppLoader{}.Load()
			if err != nil {
				return err
			}
			opts.app = app
			if !cmd.Flags().Changed("log-level") {
				opts.logLevel = app.LogLevel
			}
			if !cmd.Flags().Changed("log-json") {
				opts.logJSON = app.LogJSON
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")

	cmd.AddCommand(newGenerateCmd(opts), newSessionsCmd(opts))
	return cmd
}

func (o *rootOptions) logger(w io.Writer) *charmlog.Logger {
	return logger.New(logger.Config{Level: o.logLevel, JSON: o.logJSON, Output: w, Prefix: "quizgen"})
}

func openStore(ctx context.Context, path string) (store.Store, error) {
	if path == "" {
		return memstore.New(), nil
	}
	return sqlite.OpenSQLite(ctx, path)
}

type generateOptions struct {
	file   string
	kind   string
	count  int
	seed   uint64
	vocab  string
	db     string
	format string
	out    string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate questions from a document",
		Example: `  quizgen generate --file bab1.pdf --type essay --count 5
  quizgen generate --file bab1.docx --type mcq --seed 42 --format pdf --out soal.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "PDF or DOCX document (required)")
	cmd.Flags().StringVar(&opts.kind, "type", "mcq", "Question type: essay, mcq (pg)")
	cmd.Flags().IntVar(&opts.count, "count", 5, "Number of questions")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed for option order (random when unset)")
	cmd.Flags().StringVar(&opts.vocab, "vocab", "", "Vocabulary YAML (embedded default when empty)")
	cmd.Flags().StringVar(&opts.db, "db", "", "SQLite database to record the session in")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format: json, pdf, html")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output file (stdout when empty)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := root.logger(cmd.ErrOrStderr())

	kind, err := generate.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	if err := root.app.CheckCount(opts.count); err != nil {
		return err
	}
	format := strings.ToLower(opts.format)
	if format != "json" && format != "pdf" && format != "html" {
		return fmt.Errorf("unsupported format %q (want json, pdf or html)", opts.format)
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return err
	}

	vocab := opts.vocab
	if vocab == "" {
		vocab = root.app.VocabularyPath
	}
	comp, err := (&config.Loader{
		VocabularyPath:  vocab,
		MaxDocumentSize: root.app.MaxUploadBytes,
		SentenceLimit:   root.app.SentenceLimit,
		Logger:          log,
	}).Load()
	if err != nil {
		return err
	}

	st, err := openStore(ctx, opts.db)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	req := quizgen.Request{
		Name:  filepath.Base(opts.file),
		Data:  data,
		Kind:  kind,
		Count: opts.count,
	}
	if cmd.Flags().Changed("seed") {
		req.Seed = &opts.seed
	}

	svc := quizgen.NewService(quizgen.FromComponents(comp, log), st, log)
	quiz, err := svc.Generate(ctx, req)
	if err != nil {
		if quizgen.IsUserError(err) {
			return fmt.Errorf("%s: %w", quizgen.UserMessage(err), err)
		}
		return err
	}

	w := cmd.OutOrStdout()
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "pdf":
		err = render.PDF(w, kind, quiz.Questions)
	case "html":
		err = render.HTML(w, render.Page{Kind: kind, Questions: quiz.Questions, Material: quiz.Session.Material})
	default:
		err = render.JSON(w, kind, quiz.Questions)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	if opts.out != "" {
		log.Info("wrote questions", "file", opts.out, "format", format, "questions", len(quiz.Questions))
	}
	return nil
}

func newSessionsCmd(root *rootOptions) *cobra.Command {
	var (
		db    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded generation sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := db
			if path == "" {
				path = root.app.DBPath
			}
			if path == "" {
				return fmt.Errorf("--db required")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			st, err := sqlite.OpenSQLite(ctx, path)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			sessions, err := st.RecentSessions(ctx, limit)
			if err != nil {
				return err
			}
			return writeSessions(ctx, cmd.OutOrStdout(), st, sessions)
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "SQLite database (defaults to QUIZGEN_DB_PATH)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions")
	return cmd
}

func writeSessions(ctx context.Context, w io.Writer, st store.Store, sessions []store.Session) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTYPE\tREQUESTED\tQUESTIONS\tSOURCE")
	for _, s := range sessions {
		qs, err := st.ListQuestions(ctx, s.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Variant, s.Count, len(qs), s.Source)
	}
	return tw.Flush()
}
