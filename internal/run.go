package internal

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/kiltia/analyst"
	"github.com/kiltia/analyst/config"

	"go.uber.org/zap"
)

// NewSession wires a chat session to the generation endpoint described by
// cfg.
func NewSession(
	cfg *config.Config,
	opts ...analyst.SenderOption,
) (*analyst.Session, error) {
	client, err := analyst.NewClient(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	prompts, err := analyst.NewPromptBuilderFromFile(cfg.Prompt.SystemInstructionPath)
	if err != nil {
		return nil, err
	}
	return analyst.NewSession(client, prompts, cfg.Prompt.MaxDocumentChars), nil
}

// AskAboutFile loads the report at path and asks a single question about it.
func AskAboutFile(
	ctx context.Context,
	session *analyst.Session,
	path string,
	question string,
) (string, error) {
	doc, err := session.LoadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to process file: %w", err)
	}
	zap.S().Infow(
		"report loaded",
		"file", doc.Name,
		"chars", doc.Len(),
		"truncated", doc.Truncated,
	)
	answer, err := session.Ask(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to connect or process the request: %w", err)
	}
	return answer, nil
}

// RunApplication answers one question and writes the answer to out. SIGINT
// and SIGTERM abort the pending request.
func RunApplication(
	cfg *config.Config,
	path string,
	question string,
	out io.Writer,
) error {
	// application will run using this context
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	session, err := NewSession(cfg)
	if err != nil {
		return err
	}
	answer, err := AskAboutFile(ctx, session, path, question)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, answer)
	return err
}
