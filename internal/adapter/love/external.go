package love

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"go.ngs.io/satstress/internal/domain"
	"go.ngs.io/satstress/internal/logging"
)

// DefaultProgram is the name of the four layer Love number program.
const DefaultProgram = "calcLoveWahr4Layer"

// waitDelay bounds how long a killed program may hold its output open.
const waitDelay = 2 * time.Second

// ErrTimeout is returned when the external program does not finish in time.
var ErrTimeout = errors.New("love number program timed out")

// ExternalSolver runs the four layer Love number program once per request,
// each run in a fresh temporary directory that is removed afterwards.
type ExternalSolver struct {
	Program string        // Executable name or path; DefaultProgram if empty.
	Timeout time.Duration // Per run; zero means no limit beyond ctx.
	WorkDir string        // Parent of the temporary run directories; os.TempDir() if empty.
	Logger  *zap.Logger
}

// NewExternalSolver creates a solver for program.
func NewExternalSolver(program string, timeout time.Duration, workDir string, logger *zap.Logger) *ExternalSolver {
	return &ExternalSolver{
		Program: program,
		Timeout: timeout,
		WorkDir: workDir,
		Logger:  logging.OrNop(logger),
	}
}

// SolveLove implements domain.LoveSolver.
func (s *ExternalSolver) SolveLove(ctx context.Context, req domain.LoveRequest) (domain.LoveNumbers, error) {
	logger := logging.OrNop(s.Logger)
	program := s.Program
	if program == "" {
		program = DefaultProgram
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp(s.WorkDir, "lovetmp-")
	if err != nil {
		return domain.LoveNumbers{}, fmt.Errorf("failed to create love work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("failed to remove love work directory", zap.String("dir", dir), zap.Error(err))
		}
	}()

	if err := writeInputFile(filepath.Join(dir, InputFile), req); err != nil {
		return domain.LoveNumbers{}, err
	}

	start := time.Now()
	//nolint:gosec // G204: Program comes from trusted configuration.
	cmd := exec.CommandContext(ctx, program)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	output, err := cmd.CombinedOutput()
	logger.Debug("love number program finished",
		zap.String("program", program),
		zap.Float64("forcing_period_days", req.ForcingPeriodDays),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return domain.LoveNumbers{}, fmt.Errorf("%w after %s: %s", ErrTimeout, s.Timeout, program)
		} else if ctxErr != nil {
			return domain.LoveNumbers{}, ctxErr
		}
		return domain.LoveNumbers{}, fmt.Errorf("failed to run %s: %w: %s", program, err, strings.TrimSpace(string(output)))
	}

	//nolint:gosec // G304: Path is inside our own temporary directory.
	out, err := os.Open(filepath.Join(dir, OutputFile))
	if err != nil {
		return domain.LoveNumbers{}, fmt.Errorf("%s produced no %s: %w", program, OutputFile, err)
	}
	defer func() { _ = out.Close() }()

	return ParseOutput(out)
}

func writeInputFile(path string, req domain.LoveRequest) error {
	//nolint:gosec // G304: Path is inside our own temporary directory.
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", InputFile, err)
	}
	if err := WriteInput(f, req); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", InputFile, err)
	}
	return nil
}
